package controllers

import (
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
)

const defaultCron = "0 * * * *"

// ScheduleController handles the "schedule" subcommand (daemon mode).
type ScheduleController struct {
	command commands.Schedule
}

// NewScheduleController creates a new ScheduleController.
func NewScheduleController(command commands.Schedule) *ScheduleController {
	return &ScheduleController{command: command}
}

// GetBind returns the Cobra command metadata for the schedule controller.
func (it *ScheduleController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "schedule",
		Short: "Run sync periodically until interrupted",
		Long: `Run "sync" on a cron schedule until SIGINT or SIGTERM is received.
A tick that fires while the previous run is still in progress is skipped.
Prometheus metrics are served on --metrics-addr when it is set.`,
	}
}

// Execute blocks until the process is signalled.
func (it *ScheduleController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	providerFilter, _ := cmd.Flags().GetString("provider")
	orgOverride, _ := cmd.Flags().GetString("org")
	workers, _ := cmd.Flags().GetInt("workers")
	cronSpec, _ := cmd.Flags().GetString("cron")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if scheduleErr := it.command.Execute(ctx, settings, commands.ScheduleOptions{
		SyncOptions: commands.SyncOptions{
			Verbose:      verbose,
			ProviderName: providerFilter,
			OrgOverride:  orgOverride,
			Workers:      workers,
		},
		Cron:        cronSpec,
		MetricsAddr: metricsAddr,
	}); scheduleErr != nil {
		logger.Errorf("Schedule failed: %v", scheduleErr)
	}
}

// AddFlags adds the schedule-specific flags to the given Cobra command.
func (it *ScheduleController) AddFlags(cmd *cobra.Command) {
	addFilterFlags(cmd)
	cmd.Flags().Int("workers", 0, "Number of repositories synchronized concurrently (default: from config)")
	cmd.Flags().String("cron", defaultCron, "Cron expression (5 fields) or descriptor such as @every 30m")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}
