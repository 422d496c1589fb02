package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/vertextoedge/bulkfetch/internal/domain"
)

// Reporter emits one terminal record per task in the form
//
//	<destination> <STATE> <bytes>
//
// Records are serialized under a mutex and each record is emitted with a
// single Write, so concurrent tasks can never tear or interleave lines.
type Reporter struct {
	mu   sync.Mutex
	w    io.Writer
	seen map[string]struct{}
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:    w,
		seen: make(map[string]struct{}),
	}
}

// Record writes the outcome's terminal record. A destination gets at most
// one record; a second one is rejected, never overwritten or duplicated.
func (r *Reporter) Record(outcome domain.TaskOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dest := outcome.Spec.Destination
	if _, ok := r.seen[dest]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, dest)
	}

	line := fmt.Sprintf("%s %s %d\n", dest, outcome.StateToken(), outcome.Bytes)
	if _, err := io.WriteString(r.w, line); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	r.seen[dest] = struct{}{}
	return nil
}

// Count returns the number of records written so far
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
