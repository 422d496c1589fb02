package port

import (
	"time"

	"github.com/vertextoedge/bulkfetch/internal/domain"
)

// JournalEntry is one persisted transfer row
type JournalEntry struct {
	ID          int64
	RunID       string
	URL         string
	Destination string
	State       string
	Bytes       int64
	Error       string
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// Journal defines the interface for the persistent transfer journal.
// The journal is a post-mortem aid; callers log its errors and keep going,
// it never alters orchestration semantics.
type Journal interface {
	// RecordStart inserts a downloading row for the spec and returns its id
	RecordStart(runID string, spec domain.DownloadSpec) (int64, error)

	// RecordOutcome finalizes the row with the task's terminal state
	RecordOutcome(id int64, outcome domain.TaskOutcome) error

	// ListRun returns all entries of a run ordered by insertion
	ListRun(runID string) ([]JournalEntry, error)

	// Close releases the underlying store
	Close() error
}
