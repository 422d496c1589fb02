package domain

import (
	"errors"
	"testing"
)

func TestTaskOutcome_StateToken(t *testing.T) {
	tests := []struct {
		name    string
		outcome TaskOutcome
		want    string
	}{
		{
			name:    "completed",
			outcome: TaskOutcome{State: StateCompleted, Bytes: 1024},
			want:    "COMPLETED",
		},
		{
			name:    "interrupted",
			outcome: TaskOutcome{State: StateInterrupted, Bytes: 512},
			want:    "INTERRUPTED",
		},
		{
			name:    "failed transport",
			outcome: TaskOutcome{State: StateFailed, Err: NewTransportError("https://example.com", errors.New("refused"))},
			want:    "FAILED:TransportError",
		},
		{
			name:    "failed io",
			outcome: TaskOutcome{State: StateFailed, Err: NewIOError("write", "/out/a.bin", errors.New("enospc"))},
			want:    "FAILED:IoError",
		},
		{
			name:    "failed unclassified",
			outcome: TaskOutcome{State: StateFailed, Err: errors.New("panic: boom")},
			want:    "FAILED:Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.StateToken(); got != tt.want {
				t.Errorf("StateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummary_ExitCode(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    int
	}{
		{
			name:    "all completed",
			summary: Summary{Completed: 3},
			want:    ExitOK,
		},
		{
			name:    "empty run",
			summary: Summary{},
			want:    ExitOK,
		},
		{
			name:    "any interrupted",
			summary: Summary{Completed: 2, Interrupted: 1},
			want:    ExitInterrupted,
		},
		{
			name:    "any failed",
			summary: Summary{Completed: 2, Failed: 1},
			want:    ExitFailed,
		},
		{
			name:    "failure dominates interruption",
			summary: Summary{Interrupted: 2, Failed: 1},
			want:    ExitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummary_Add(t *testing.T) {
	var s Summary
	s.Add(TaskOutcome{State: StateCompleted})
	s.Add(TaskOutcome{State: StateCompleted})
	s.Add(TaskOutcome{State: StateInterrupted})
	s.Add(TaskOutcome{State: StateFailed, Err: errors.New("boom")})

	want := Summary{Completed: 2, Interrupted: 1, Failed: 1}
	if s != want {
		t.Errorf("Summary = %+v, want %+v", s, want)
	}
	if got := s.Total(); got != 4 {
		t.Errorf("Total() = %v, want 4", got)
	}
}

func TestDownloadTask_Lifecycle(t *testing.T) {
	spec := DownloadSpec{URL: "https://example.com/a.bin", Destination: "/out/a.bin"}

	task := NewDownloadTask(spec)
	if task.Status != TaskStatusPending {
		t.Errorf("Status = %v, want %v", task.Status, TaskStatusPending)
	}

	task.Start()
	if task.Status != TaskStatusDownloading {
		t.Errorf("Status = %v, want %v", task.Status, TaskStatusDownloading)
	}
	if task.StartedAt.IsZero() {
		t.Error("StartedAt should be set after Start()")
	}

	task.AddBytes(100)
	task.AddBytes(28)

	outcome := task.Interrupt()
	if outcome.State != StateInterrupted {
		t.Errorf("State = %v, want %v", outcome.State, StateInterrupted)
	}
	if outcome.Bytes != 128 {
		t.Errorf("Bytes = %v, want 128", outcome.Bytes)
	}
	if outcome.Spec != spec {
		t.Errorf("Spec = %+v, want %+v", outcome.Spec, spec)
	}
	if task.Status != string(StateInterrupted) {
		t.Errorf("Status = %v, want %v", task.Status, StateInterrupted)
	}
	if outcome.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set on a terminal outcome")
	}
}

func TestDownloadTask_Fail(t *testing.T) {
	task := NewDownloadTask(DownloadSpec{URL: "https://example.com/a.bin", Destination: "/out/a.bin"})
	task.Start()
	task.AddBytes(64)

	cause := NewTransportError("https://example.com/a.bin", errors.New("reset"))
	outcome := task.Fail(cause)

	if outcome.State != StateFailed {
		t.Errorf("State = %v, want %v", outcome.State, StateFailed)
	}
	if outcome.Err != cause {
		t.Errorf("Err = %v, want %v", outcome.Err, cause)
	}
	if outcome.Bytes != 64 {
		t.Errorf("Bytes = %v, want 64", outcome.Bytes)
	}
	if got := outcome.StateToken(); got != "FAILED:TransportError" {
		t.Errorf("StateToken() = %v, want FAILED:TransportError", got)
	}
}
