package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/vertextoedge/bulkfetch/internal/domain"
	"github.com/vertextoedge/bulkfetch/internal/port"
	"github.com/vertextoedge/bulkfetch/internal/report"
)

// Executor runs one task to its terminal state
type Executor interface {
	Execute(ctx context.Context, task *domain.DownloadTask, token *domain.CancelToken) domain.TaskOutcome
}

// Config contains scheduler configuration
type Config struct {
	// MaxConcurrent caps simultaneously running tasks; 0 means no cap
	MaxConcurrent int
}

// Scheduler fans out one download task per spec, waits for every task to
// reach a terminal state, hands each outcome to the reporter exactly
// once, and aggregates the run summary. It never stops early: whatever
// happens to one task, its siblings run to their own terminal state.
type Scheduler struct {
	executor Executor
	reporter *report.Reporter
	token    *domain.CancelToken
	space    port.SpaceProbe
	logger   *zap.Logger
	cfg      Config
}

// NewScheduler creates a new Scheduler. space may be nil to skip the
// free-space advisory.
func NewScheduler(
	executor Executor,
	reporter *report.Reporter,
	token *domain.CancelToken,
	space port.SpaceProbe,
	logger *zap.Logger,
	cfg Config,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		reporter: reporter,
		token:    token,
		space:    space,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run validates the task set and executes it. The returned error is
// non-nil only for a pre-flight rejection, in which case no task was
// started and no record was written.
func (s *Scheduler) Run(ctx context.Context, specs []domain.DownloadSpec) (domain.Summary, error) {
	if err := s.preflight(specs); err != nil {
		return domain.Summary{}, err
	}

	if len(specs) == 0 {
		s.logger.Info("no downloads requested")
		return domain.Summary{}, nil
	}

	s.logger.Info("scheduling downloads",
		zap.Int("count", len(specs)),
		zap.Int("max_concurrent", s.cfg.MaxConcurrent))

	// Tasks observe graceful cancellation through this context so a fetch
	// blocked on the network unwinds promptly instead of waiting for its
	// next chunk.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.token.Graceful():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var sem *semaphore.Weighted
	if s.cfg.MaxConcurrent > 0 {
		sem = semaphore.NewWeighted(int64(s.cfg.MaxConcurrent))
	}

	outcomes := make(chan domain.TaskOutcome)
	collectorDone := make(chan struct{})

	var summary domain.Summary
	go func() {
		defer close(collectorDone)
		for outcome := range outcomes {
			if err := s.reporter.Record(outcome); err != nil {
				s.logger.Error("failed to record outcome",
					zap.String("destination", outcome.Spec.Destination),
					zap.Error(err))
			}
			summary.Add(outcome)
		}
	}()

	var wg sync.WaitGroup
	for _, spec := range specs {
		wg.Add(1)
		go func(spec domain.DownloadSpec) {
			defer wg.Done()
			outcomes <- s.runTask(runCtx, spec, sem)
		}(spec)
	}

	wg.Wait()
	close(outcomes)
	<-collectorDone

	return summary, nil
}

// runTask waits for a concurrency slot if a cap is configured, then
// executes the task. A task cancelled while queued still goes through the
// executor so it commits a terminal state the ordinary way.
func (s *Scheduler) runTask(ctx context.Context, spec domain.DownloadSpec, sem *semaphore.Weighted) domain.TaskOutcome {
	task := domain.NewDownloadTask(spec)

	if sem != nil {
		if err := sem.Acquire(ctx, 1); err == nil {
			defer sem.Release(1)
		}
	}

	return s.safeExecute(ctx, task)
}

// safeExecute contains panics so an implementation bug in one task cannot
// cost the run its one-record-per-spec guarantee.
func (s *Scheduler) safeExecute(ctx context.Context, task *domain.DownloadTask) (outcome domain.TaskOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked",
				zap.String("destination", task.Spec.Destination),
				zap.Any("panic", r))
			outcome = task.Fail(fmt.Errorf("task panicked: %v", r))
		}
	}()

	return s.executor.Execute(ctx, task, s.token)
}

// preflight rejects malformed task sets before anything runs and logs an
// advisory when the manifest's declared sizes do not fit the output
// filesystem.
func (s *Scheduler) preflight(specs []domain.DownloadSpec) error {
	seen := make(map[string]struct{}, len(specs))
	var declaredTotal int64

	for _, spec := range specs {
		if spec.Destination == "" {
			return domain.NewSchedulingError("empty destination for "+spec.URL, nil)
		}
		if _, ok := seen[spec.Destination]; ok {
			return domain.NewSchedulingError(
				"duplicate destination "+spec.Destination, domain.ErrDuplicateDestination)
		}
		seen[spec.Destination] = struct{}{}
		declaredTotal += spec.ExpectedSize
	}

	if s.space != nil && declaredTotal > 0 {
		free, err := s.space.FreeSpace()
		if err != nil {
			s.logger.Warn("failed to probe free space", zap.Error(err))
		} else if uint64(declaredTotal) > free {
			s.logger.Warn("declared sizes exceed free space on the output filesystem",
				zap.Int64("declared_total", declaredTotal),
				zap.Uint64("free_bytes", free))
		}
	}

	return nil
}
