package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name string
		url  string
		err  error
		want string
	}{
		{
			name: "with underlying error",
			url:  "https://example.com/a.bin",
			err:  errors.New("connection refused"),
			want: "fetch https://example.com/a.bin: connection refused",
		},
		{
			name: "nil error",
			url:  "https://example.com/a.bin",
			err:  nil,
			want: "fetch https://example.com/a.bin failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := NewTransportError(tt.url, tt.err)
			if got := te.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIOError_Error(t *testing.T) {
	tests := []struct {
		name string
		op   string
		path string
		err  error
		want string
	}{
		{
			name: "with underlying error",
			op:   "write",
			path: "/out/a.bin",
			err:  errors.New("no space left on device"),
			want: "write /out/a.bin: no space left on device",
		},
		{
			name: "nil error",
			op:   "sync",
			path: "/out/a.bin",
			err:  nil,
			want: "sync /out/a.bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ie := NewIOError(tt.op, tt.path, tt.err)
			if got := ie.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchedulingError_Error(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		err    error
		want   string
	}{
		{
			name:   "with underlying error",
			reason: "duplicate destination a.bin",
			err:    ErrDuplicateDestination,
			want:   "scheduling: duplicate destination a.bin: duplicate destination",
		},
		{
			name:   "reason only",
			reason: "empty destination",
			err:    nil,
			want:   "scheduling: empty destination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := NewSchedulingError(tt.reason, tt.err)
			if got := se.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")

	te := NewTransportError("https://example.com", underlying)
	if got := te.Unwrap(); got != underlying {
		t.Errorf("TransportError.Unwrap() = %v, want %v", got, underlying)
	}

	ie := NewIOError("open", "/out/a.bin", underlying)
	if got := ie.Unwrap(); got != underlying {
		t.Errorf("IOError.Unwrap() = %v, want %v", got, underlying)
	}

	se := NewSchedulingError("reason", ErrDuplicateDestination)
	if !errors.Is(se, ErrDuplicateDestination) {
		t.Error("SchedulingError should unwrap to ErrDuplicateDestination")
	}
}

func TestIsTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "transport error",
			err:  NewTransportError("https://example.com", errors.New("err")),
			want: true,
		},
		{
			name: "wrapped transport error",
			err:  fmt.Errorf("wrapped: %w", NewTransportError("https://example.com", errors.New("err"))),
			want: true,
		},
		{
			name: "io error is not transport",
			err:  NewIOError("write", "/out/a.bin", errors.New("err")),
			want: false,
		},
		{
			name: "regular error",
			err:  errors.New("regular error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransport(tt.err); got != tt.want {
				t.Errorf("IsTransport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsIO(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "io error",
			err:  NewIOError("write", "/out/a.bin", errors.New("err")),
			want: true,
		},
		{
			name: "wrapped io error",
			err:  fmt.Errorf("wrapped: %w", NewIOError("sync", "/out/a.bin", errors.New("err"))),
			want: true,
		},
		{
			name: "transport error is not io",
			err:  NewTransportError("https://example.com", errors.New("err")),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIO(tt.err); got != tt.want {
				t.Errorf("IsIO() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsScheduling(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "scheduling error",
			err:  NewSchedulingError("duplicate destination", ErrDuplicateDestination),
			want: true,
		},
		{
			name: "wrapped scheduling error",
			err:  fmt.Errorf("preflight: %w", NewSchedulingError("duplicate destination", nil)),
			want: true,
		},
		{
			name: "regular error",
			err:  errors.New("regular error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScheduling(tt.err); got != tt.want {
				t.Errorf("IsScheduling() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "transport error",
			err:  NewTransportError("https://example.com", errors.New("err")),
			want: "TransportError",
		},
		{
			name: "io error",
			err:  NewIOError("write", "/out/a.bin", errors.New("err")),
			want: "IoError",
		},
		{
			name: "scheduling error",
			err:  NewSchedulingError("duplicate destination", nil),
			want: "SchedulingError",
		},
		{
			name: "wrapped transport error",
			err:  fmt.Errorf("task: %w", NewTransportError("https://example.com", errors.New("err"))),
			want: "TransportError",
		},
		{
			name: "unclassified error",
			err:  errors.New("boom"),
			want: "Error",
		},
		{
			name: "nil error",
			err:  nil,
			want: "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorLabel(tt.err); got != tt.want {
				t.Errorf("ErrorLabel() = %v, want %v", got, tt.want)
			}
		})
	}
}
