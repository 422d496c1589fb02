package domain

import "time"

// TerminalState is the final state of a download task. Exactly one is
// produced per task, never zero and never more than one, even under
// concurrent shutdown.
type TerminalState string

// Terminal states.
const (
	StateCompleted   TerminalState = "completed"
	StateInterrupted TerminalState = "interrupted"
	StateFailed      TerminalState = "failed"
)

// TaskOutcome is the immutable snapshot taken when a task reaches a
// terminal state. The scheduler hands each outcome to the reporter
// exactly once.
type TaskOutcome struct {
	Spec       DownloadSpec
	State      TerminalState
	Bytes      int64
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// StateToken returns the record token for the outcome, COMPLETED,
// INTERRUPTED, or FAILED:<cause> with the cause taken from the error
// taxonomy.
func (o TaskOutcome) StateToken() string {
	switch o.State {
	case StateCompleted:
		return "COMPLETED"
	case StateInterrupted:
		return "INTERRUPTED"
	default:
		return "FAILED:" + ErrorLabel(o.Err)
	}
}

// Process exit codes. Failure dominates interruption when a run contains
// both.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitUsage       = 2
	ExitInterrupted = 3
	ExitForced      = 130
)

// Summary aggregates the terminal states of a finished run.
type Summary struct {
	Completed   int
	Interrupted int
	Failed      int
}

// Add folds one outcome into the summary.
func (s *Summary) Add(o TaskOutcome) {
	switch o.State {
	case StateCompleted:
		s.Completed++
	case StateInterrupted:
		s.Interrupted++
	default:
		s.Failed++
	}
}

// Total returns the number of outcomes folded in.
func (s Summary) Total() int {
	return s.Completed + s.Interrupted + s.Failed
}

// ExitCode maps the summary to the process exit code for the worst
// outcome class present.
func (s Summary) ExitCode() int {
	switch {
	case s.Failed > 0:
		return ExitFailed
	case s.Interrupted > 0:
		return ExitInterrupted
	default:
		return ExitOK
	}
}
