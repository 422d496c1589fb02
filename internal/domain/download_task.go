package domain

import "time"

// Task status constants. The three terminal statuses mirror TerminalState.
const (
	TaskStatusPending     = "pending"
	TaskStatusDownloading = "downloading"
)

// DownloadTask tracks one transfer through its lifecycle. The scheduler
// creates and owns tasks; once started, only the goroutine executing a
// task mutates it. The signal watchdog never touches task internals, it
// only escalates the shared CancelToken.
type DownloadTask struct {
	Spec DownloadSpec

	// State
	Status string
	Bytes  int64

	// Timestamps
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewDownloadTask returns a pending task for the given spec.
func NewDownloadTask(spec DownloadSpec) *DownloadTask {
	return &DownloadTask{Spec: spec, Status: TaskStatusPending}
}

// Start marks the task as actively transferring.
func (t *DownloadTask) Start() {
	t.Status = TaskStatusDownloading
	t.StartedAt = time.Now()
}

// AddBytes records n more bytes durably written to the destination.
func (t *DownloadTask) AddBytes(n int64) {
	t.Bytes += n
}

// Complete commits the Completed terminal state.
func (t *DownloadTask) Complete() TaskOutcome {
	return t.finish(StateCompleted, nil)
}

// Interrupt commits the Interrupted terminal state with the bytes written
// so far.
func (t *DownloadTask) Interrupt() TaskOutcome {
	return t.finish(StateInterrupted, nil)
}

// Fail commits the Failed terminal state with its cause.
func (t *DownloadTask) Fail(err error) TaskOutcome {
	return t.finish(StateFailed, err)
}

func (t *DownloadTask) finish(state TerminalState, err error) TaskOutcome {
	t.Status = string(state)
	t.FinishedAt = time.Now()
	return TaskOutcome{
		Spec:       t.Spec,
		State:      state,
		Bytes:      t.Bytes,
		Err:        err,
		StartedAt:  t.StartedAt,
		FinishedAt: t.FinishedAt,
	}
}
