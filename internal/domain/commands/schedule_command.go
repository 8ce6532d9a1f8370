package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/infrastructure/metrics"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Schedule is the interface for the schedule command.
type Schedule interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ScheduleOptions) error
}

// ScheduleOptions holds the options of a scheduled daemon.
type ScheduleOptions struct {
	SyncOptions
	Cron        string // standard 5-field cron expression
	MetricsAddr string // If set, serve /metrics on this address
}

// ScheduleCommand runs the sync command on a cron schedule until the context
// is cancelled. A tick that fires while a run is in progress is skipped.
type ScheduleCommand struct {
	sync Sync
}

// NewScheduleCommand creates a new ScheduleCommand.
func NewScheduleCommand(sync Sync) *ScheduleCommand {
	return &ScheduleCommand{sync: sync}
}

func (it *ScheduleCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ScheduleOptions,
) error {
	cronLogger := cron.PrintfLogger(logger.StandardLogger())
	scheduler := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if _, err := scheduler.AddFunc(opts.Cron, func() {
		if err := it.sync.Execute(ctx, settings, opts.SyncOptions); err != nil {
			logger.Errorf("Scheduled sync failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", opts.Cron, err)
	}

	var server *http.Server
	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server = &http.Server{Addr: opts.MetricsAddr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

		go func() {
			logger.Infof("Serving metrics on %s/metrics", opts.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	scheduler.Start()
	logger.Infof("Scheduler started with %q", opts.Cron)

	<-ctx.Done()
	logger.Info("Stopping scheduler, waiting for the running sync to finish...")
	<-scheduler.Stop().Done()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Metrics server shutdown: %v", err)
		}
	}

	return nil
}
