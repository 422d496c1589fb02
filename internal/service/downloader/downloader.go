package downloader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/bulkfetch/internal/domain"
	"github.com/vertextoedge/bulkfetch/internal/port"
	"github.com/vertextoedge/bulkfetch/internal/util/ratelimiter"
)

const defaultChunkSize = 32 * 1024

// Downloader executes download tasks. One Downloader is shared by every
// task of a run; per-task state lives in the DownloadTask itself, so
// Execute is safe to call from concurrent goroutines.
type Downloader struct {
	fetcher          port.Fetcher
	journal          port.Journal
	logger           *zap.Logger
	runID            string
	chunkSize        int
	progressInterval time.Duration
}

// NewDownloader creates a new Downloader
func NewDownloader(
	fetcher port.Fetcher,
	journal port.Journal,
	logger *zap.Logger,
	runID string,
	chunkSize int,
	progressInterval time.Duration,
) *Downloader {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if progressInterval <= 0 {
		progressInterval = time.Second
	}
	return &Downloader{
		fetcher:          fetcher,
		journal:          journal,
		logger:           logger,
		runID:            runID,
		chunkSize:        chunkSize,
		progressInterval: progressInterval,
	}
}

// Execute runs one task to its terminal state and always produces exactly
// one outcome; failures are folded into the outcome, never returned.
// Cancelling ctx aborts a blocked fetch; the token decides how the
// abort is classified.
func (d *Downloader) Execute(ctx context.Context, task *domain.DownloadTask, token *domain.CancelToken) domain.TaskOutcome {
	task.Start()

	journalID, err := d.journal.RecordStart(d.runID, task.Spec)
	if err != nil {
		d.logger.Warn("failed to journal transfer start",
			zap.String("destination", task.Spec.Destination),
			zap.Error(err))
	}

	outcome := d.transfer(ctx, task, token)

	if err := d.journal.RecordOutcome(journalID, outcome); err != nil {
		d.logger.Warn("failed to journal transfer outcome",
			zap.String("destination", task.Spec.Destination),
			zap.Error(err))
	}

	switch outcome.State {
	case domain.StateCompleted:
		d.logger.Info("download completed",
			zap.String("destination", outcome.Spec.Destination),
			zap.Int64("bytes", outcome.Bytes),
			zap.Duration("elapsed", outcome.FinishedAt.Sub(outcome.StartedAt)))
	case domain.StateInterrupted:
		d.logger.Warn("download interrupted",
			zap.String("destination", outcome.Spec.Destination),
			zap.Int64("bytes", outcome.Bytes))
	default:
		d.logger.Error("download failed",
			zap.String("destination", outcome.Spec.Destination),
			zap.Int64("bytes", outcome.Bytes),
			zap.Error(outcome.Err))
	}

	return outcome
}

// transfer streams the payload chunk by chunk, checking the token before
// every read and before every write so cancellation latency is bounded by
// one chunk. Once the token reaches graceful, the task can only resolve
// Interrupted or Failed, never Completed.
func (d *Downloader) transfer(ctx context.Context, task *domain.DownloadTask, token *domain.CancelToken) domain.TaskOutcome {
	spec := task.Spec

	if token.Cancelled() {
		return task.Interrupt()
	}

	body, declaredSize, err := d.fetcher.Fetch(ctx, spec.URL)
	if err != nil {
		if wasCancelled(token, err) {
			return task.Interrupt()
		}
		return task.Fail(err)
	}
	defer body.Close()

	d.logger.Debug("transfer started",
		zap.String("url", spec.URL),
		zap.String("destination", spec.Destination),
		zap.Int64("declared_size", declaredSize))

	if dir := filepath.Dir(spec.Destination); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return task.Fail(domain.NewIOError("mkdir", dir, err))
		}
	}

	f, err := os.Create(spec.Destination)
	if err != nil {
		return task.Fail(domain.NewIOError("open", spec.Destination, err))
	}

	buf := make([]byte, d.chunkSize)
	progress := ratelimiter.New(d.progressInterval)

	for {
		if token.Cancelled() {
			return d.interrupt(task, f)
		}

		n, rerr := body.Read(buf)
		if n > 0 {
			// A chunk read that finished after cancellation must not be
			// committed; the partial file ends at the previous chunk.
			if token.Cancelled() {
				return d.interrupt(task, f)
			}

			nw, werr := f.Write(buf[:n])
			if nw > 0 {
				task.AddBytes(int64(nw))
			}
			if werr != nil {
				f.Close()
				return task.Fail(domain.NewIOError("write", spec.Destination, werr))
			}
			if nw != n {
				f.Close()
				return task.Fail(domain.NewIOError("write", spec.Destination, io.ErrShortWrite))
			}

			if progress.Allow() {
				d.logger.Info("transfer progress",
					zap.String("destination", spec.Destination),
					zap.Int64("bytes", task.Bytes),
					zap.Int64("declared_size", declaredSize))
			}
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if wasCancelled(token, rerr) {
				return d.interrupt(task, f)
			}
			f.Close()
			return task.Fail(domain.NewTransportError(spec.URL, rerr))
		}
	}

	// Cancellation wins even when the stream already reached EOF.
	if token.Cancelled() {
		return d.interrupt(task, f)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return task.Fail(domain.NewIOError("sync", spec.Destination, err))
	}
	if err := f.Close(); err != nil {
		return task.Fail(domain.NewIOError("close", spec.Destination, err))
	}

	return task.Complete()
}

// interrupt flushes and closes the partial output, then commits the
// Interrupted state. The partial file is kept on disk.
func (d *Downloader) interrupt(task *domain.DownloadTask, f *os.File) domain.TaskOutcome {
	if err := f.Sync(); err != nil {
		d.logger.Warn("failed to flush partial output",
			zap.String("destination", task.Spec.Destination),
			zap.Error(err))
	}
	if err := f.Close(); err != nil {
		d.logger.Warn("failed to close partial output",
			zap.String("destination", task.Spec.Destination),
			zap.Error(err))
	}
	return task.Interrupt()
}

// wasCancelled reports whether err is fallout of our own cancellation
// rather than a genuine transport failure.
func wasCancelled(token *domain.CancelToken, err error) bool {
	if !token.Cancelled() {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
