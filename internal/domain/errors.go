package domain

import "errors"

// Common domain errors
var (
	ErrDuplicateDestination = errors.New("duplicate destination")
	ErrDuplicateRecord      = errors.New("terminal record already written")
	ErrUnexpectedStatus     = errors.New("unexpected response status")
	ErrOutsideRoot          = errors.New("destination escapes the output root")
	ErrInvalidManifest      = errors.New("invalid manifest")
)

// TransportError wraps a network or HTTP status failure. It is terminal
// for the task that hit it; the core never retries.
type TransportError struct {
	URL string
	Err error
}

// Error returns the error message
func (e *TransportError) Error() string {
	if e.Err != nil {
		return "fetch " + e.URL + ": " + e.Err.Error()
	}
	return "fetch " + e.URL + " failed"
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}

// IsTransport returns true if the error is a transport failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IOError wraps a destination open, write, or sync failure. Terminal for
// the task that hit it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the error message
func (e *IOError) Error() string {
	msg := e.Op + " " + e.Path
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new I/O error
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsIO returns true if the error is a destination I/O failure
func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// SchedulingError marks a task set rejected before any task started, such
// as a duplicate destination. It aborts the whole run; no files are
// touched and no terminal records are written.
type SchedulingError struct {
	Reason string
	Err    error
}

// Error returns the error message
func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return "scheduling: " + e.Reason + ": " + e.Err.Error()
	}
	return "scheduling: " + e.Reason
}

// Unwrap returns the underlying error
func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// NewSchedulingError creates a new scheduling error
func NewSchedulingError(reason string, err error) *SchedulingError {
	return &SchedulingError{Reason: reason, Err: err}
}

// IsScheduling returns true if the error is a pre-flight rejection
func IsScheduling(err error) bool {
	var se *SchedulingError
	return errors.As(err, &se)
}

// ErrorLabel returns the taxonomy class used as the cause in
// FAILED:<cause> report records.
func ErrorLabel(err error) string {
	switch {
	case IsTransport(err):
		return "TransportError"
	case IsIO(err):
		return "IoError"
	case IsScheduling(err):
		return "SchedulingError"
	default:
		return "Error"
	}
}
