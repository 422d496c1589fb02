package watchdog

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/bulkfetch/internal/domain"
)

// Config contains watchdog configuration
type Config struct {
	// GracePeriod is how long tasks may keep draining after the first
	// signal before the process is forced down. 0 waits indefinitely.
	GracePeriod time.Duration
}

// DefaultConfig returns default watchdog configuration
func DefaultConfig() Config {
	return Config{
		GracePeriod: 30 * time.Second,
	}
}

// Watchdog owns process signal handling for a run. The first SIGINT or
// SIGTERM escalates the shared cancel token to graceful so every task can
// commit an interrupted state; a second signal, or the grace period
// expiring, escalates to force and terminates the process.
type Watchdog struct {
	config Config
	token  *domain.CancelToken
	logger *zap.Logger

	// signals is buffered so a second signal arriving while the first is
	// being handled is never dropped.
	signals chan os.Signal
	exit    func(code int)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New creates a new Watchdog bound to the run's cancel token.
func New(cfg Config, token *domain.CancelToken, logger *zap.Logger) *Watchdog {
	return &Watchdog{
		config:  cfg,
		token:   token,
		logger:  logger,
		signals: make(chan os.Signal, 2),
		exit:    os.Exit,
		stop:    make(chan struct{}),
	}
}

// Start registers the signal handlers and begins observing.
func (w *Watchdog) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watchdog already running")
	}
	w.running = true

	signal.Notify(w.signals, os.Interrupt, syscall.SIGTERM)

	w.wg.Add(1)
	go w.observe()
	return nil
}

// Stop unregisters the signal handlers and releases the observer. Safe to
// call after the run has finished on its own.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false

	signal.Stop(w.signals)
	close(w.stop)
	w.wg.Wait()
}

// observe implements the two stage shutdown. Stage one asks the run to
// wind down; stage two takes the process out from under it.
func (w *Watchdog) observe() {
	defer w.wg.Done()

	select {
	case sig := <-w.signals:
		w.logger.Warn("shutdown requested, waiting for in-flight downloads to commit",
			zap.String("signal", sig.String()),
			zap.Duration("grace_period", w.config.GracePeriod))
		w.token.Escalate(domain.LevelGraceful)
	case <-w.stop:
		return
	}

	var deadline <-chan time.Time
	if w.config.GracePeriod > 0 {
		timer := time.NewTimer(w.config.GracePeriod)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case sig := <-w.signals:
		w.logger.Error("second signal received, terminating now",
			zap.String("signal", sig.String()))
	case <-deadline:
		w.logger.Error("grace period expired, terminating now",
			zap.Duration("grace_period", w.config.GracePeriod))
	case <-w.stop:
		return
	}

	// The run may have just finished on its own; a clean exit wins the
	// race against a forced one.
	select {
	case <-w.stop:
		return
	default:
	}

	w.token.Escalate(domain.LevelForce)
	w.exit(domain.ExitForced)
}
