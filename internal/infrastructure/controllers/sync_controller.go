package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// SyncController handles the "sync" subcommand.
type SyncController struct {
	command commands.Sync
}

// NewSyncController creates a new SyncController.
func NewSyncController(command commands.Sync) *SyncController {
	return &SyncController{command: command}
}

// GetBind returns the Cobra command metadata for the sync controller.
func (it *SyncController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync",
		Short: "Clone or update every configured repository",
		Long: `Discover repositories from each configured provider and organization,
clone the ones missing locally and fast-forward every local branch of the
ones already present.

Failures of a single branch or repository are reported and do not stop
the run. This is the command intended to be used in a cronjob.`,
	}
}

// Execute runs one synchronization pass.
func (it *SyncController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	providerFilter, _ := cmd.Flags().GetString("provider")
	orgOverride, _ := cmd.Flags().GetString("org")
	workers, _ := cmd.Flags().GetInt("workers")

	logger.Info("Starting reposync run...")

	if syncErr := it.command.Execute(commandContext(cmd), settings, commands.SyncOptions{
		Verbose:      verbose,
		ProviderName: providerFilter,
		OrgOverride:  orgOverride,
		Workers:      workers,
	}); syncErr != nil {
		logger.Errorf("Sync failed: %v", syncErr)
	}
}

// AddFlags adds the sync-specific flags to the given Cobra command.
func (it *SyncController) AddFlags(cmd *cobra.Command) {
	addFilterFlags(cmd)
	cmd.Flags().Int("workers", 0, "Number of repositories synchronized concurrently (default: from config)")
}
