package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertextoedge/bulkfetch/internal/adapter/filesystem"
	"github.com/vertextoedge/bulkfetch/internal/adapter/httpsource"
	"github.com/vertextoedge/bulkfetch/internal/adapter/sqlite"
	"github.com/vertextoedge/bulkfetch/internal/config"
	"github.com/vertextoedge/bulkfetch/internal/domain"
	"github.com/vertextoedge/bulkfetch/internal/logger"
	"github.com/vertextoedge/bulkfetch/internal/manifest"
	"github.com/vertextoedge/bulkfetch/internal/report"
	"github.com/vertextoedge/bulkfetch/internal/service/downloader"
	"github.com/vertextoedge/bulkfetch/internal/service/scheduler"
	"github.com/vertextoedge/bulkfetch/internal/service/watchdog"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

// run holds every deferred cleanup; main must not, because os.Exit skips
// defers.
func run() int {
	// Parse command line flags
	manifestPath := flag.String("manifest", "", "Path to download manifest file (required)")
	configPath := flag.String("config", "", "Path to configuration file")
	outputDir := flag.String("out", "", "Output directory, overrides output.dir")
	concurrent := flag.Int("concurrent", -1, "Max concurrent downloads, overrides downloads.concurrent (0 = no cap)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("bulkfetch " + version)
		return domain.ExitOK
	}

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "bulkfetch: -manifest is required")
		flag.Usage()
		return domain.ExitUsage
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return domain.ExitUsage
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *concurrent >= 0 {
		cfg.Downloads.Concurrent = *concurrent
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return domain.ExitUsage
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()

	runID := uuid.NewString()
	zapLogger.Info("starting bulkfetch",
		zap.String("version", version),
		zap.String("run_id", runID),
		zap.String("manifest", *manifestPath),
	)

	// Load manifest
	m, err := manifest.Load(*manifestPath)
	if err != nil {
		zapLogger.Error("failed to load manifest", zap.Error(err))
		return domain.ExitUsage
	}

	// Initialize output filesystem
	fsManager, err := filesystem.NewManager(cfg.Output.Dir)
	if err != nil {
		zapLogger.Error("failed to prepare output directory",
			zap.String("dir", cfg.Output.Dir), zap.Error(err))
		return domain.ExitUsage
	}

	// Resolve manifest entries into download specs
	specs := make([]domain.DownloadSpec, 0, len(m.Downloads))
	for _, entry := range m.Downloads {
		dest, err := fsManager.Resolve(entry.DestName())
		if err != nil {
			zapLogger.Error("invalid destination",
				zap.String("url", entry.URL),
				zap.String("file_name", entry.DestName()),
				zap.Error(err))
			return domain.ExitUsage
		}
		specs = append(specs, domain.DownloadSpec{
			URL:          entry.URL,
			Destination:  dest,
			ExpectedSize: entry.Size,
		})
	}

	// Open journal database
	dbPath := cfg.Journal.Path
	if dbPath == "" {
		dbPath = filepath.Join(fsManager.RootDir(), "bulkfetch.db")
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		zapLogger.Error("failed to open journal database",
			zap.String("path", dbPath), zap.Error(err))
		return domain.ExitUsage
	}
	defer store.Close()

	if n, err := store.ReconcileStale(runID); err != nil {
		zapLogger.Warn("failed to reconcile stale journal rows", zap.Error(err))
	} else if n > 0 {
		zapLogger.Warn("marked stale transfers from a previous run as interrupted",
			zap.Int64("count", n))
	}

	// Shared cancel token and the signal watchdog that drives it
	token := domain.NewCancelToken()
	wd := watchdog.New(watchdog.Config{
		GracePeriod: cfg.Shutdown.GetGracePeriod(),
	}, token, zapLogger)
	if err := wd.Start(); err != nil {
		zapLogger.Error("failed to start signal watchdog", zap.Error(err))
		return domain.ExitUsage
	}
	defer wd.Stop()

	fetcher := httpsource.NewClient(&httpsource.Config{
		Timeout:   cfg.Downloads.GetHTTPTimeout(),
		UserAgent: cfg.Downloads.UserAgent,
	})

	dl := downloader.NewDownloader(fetcher, store, zapLogger, runID,
		cfg.Downloads.GetChunkSize(), cfg.Downloads.GetProgressInterval())

	reporter := report.NewReporter(os.Stdout)

	sched := scheduler.NewScheduler(dl, reporter, token, fsManager, zapLogger,
		scheduler.Config{MaxConcurrent: cfg.Downloads.Concurrent})

	summary, err := sched.Run(context.Background(), specs)
	if err != nil {
		zapLogger.Error("run rejected", zap.Error(err))
		return domain.ExitUsage
	}

	// Stand the watchdog down before computing the final code so a forced
	// exit cannot race a finished run.
	wd.Stop()

	if entries, err := store.ListRun(runID); err != nil {
		zapLogger.Warn("failed to read back journal", zap.Error(err))
	} else {
		zapLogger.Info("journal updated",
			zap.String("path", dbPath),
			zap.Int("rows", len(entries)))
	}

	zapLogger.Info("run finished",
		zap.Int("completed", summary.Completed),
		zap.Int("interrupted", summary.Interrupted),
		zap.Int("failed", summary.Failed),
		zap.Int("exit_code", summary.ExitCode()),
	)

	return summary.ExitCode()
}
