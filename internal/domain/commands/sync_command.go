package commands

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
	"github.com/rios0rios0/reposync/internal/infrastructure/metrics"
	infraRepos "github.com/rios0rios0/reposync/internal/infrastructure/repositories"
)

// Sync is the interface for the sync command.
type Sync interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SyncOptions) error
}

// SyncOptions holds runtime options for a single synchronization run.
type SyncOptions struct {
	Verbose      bool
	ProviderName string // If set, only process this provider (CLI override)
	OrgOverride  string // If set, only process this org (CLI override)
	Workers      int    // If positive, overrides settings.Workers
}

// SyncCommand orchestrates a full run:
// discover repositories -> filter -> clone or update -> report.
type SyncCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	vcs              repositories.VersionControlRepository
	reporter         repositories.ResultReporterRepository
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	vcs repositories.VersionControlRepository,
	reporter repositories.ResultReporterRepository,
) *SyncCommand {
	return &SyncCommand{
		providerRegistry: providerRegistry,
		vcs:              vcs,
		reporter:         reporter,
	}
}

// Execute runs one synchronization pass. Per-repository and per-branch failures
// are reported, never returned: a completed run always yields nil.
func (it *SyncCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SyncOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	start := time.Now()
	workers := settings.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	engine := NewSyncEngine(it.vcs)
	counts := make(map[entities.SyncStatus]int)
	selected := make(map[string]int)

	targets := discoverTargets(ctx, it.providerRegistry, settings, opts.ProviderName, opts.OrgOverride)
	for _, target := range targets {
		selected[target.Config.Type] += len(target.Repositories)

		providerType := target.Config.Type
		engine.Run(ctx, target.Repositories, SyncEngineOptions{
			Workers:     workers,
			Credentials: target.Connection.Credentials,
			OnOutcome: func(outcome entities.SyncOutcome) {
				it.reporter.Report(outcome)
				metrics.SyncOutcomes.WithLabelValues(providerType, string(outcome.Status)).Inc()
				counts[outcome.Status]++
			},
		})
	}

	for provider, count := range selected {
		metrics.RepositoriesDiscovered.WithLabelValues(provider).Set(float64(count))
	}
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	metrics.LastRunEnd.SetToCurrentTime()

	logger.Infof(
		"Sync complete in %s: %d cloned, %d updated, %d up to date, %d errors",
		time.Since(start).Round(time.Millisecond),
		counts[entities.StatusCloned],
		counts[entities.StatusUpdated],
		counts[entities.StatusUpToDate],
		counts[entities.StatusError],
	)
	return nil
}
