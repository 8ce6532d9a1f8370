package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
}

// NewListController creates a new ListController.
func NewListController(command commands.List) *ListController {
	return &ListController{command: command}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List the repositories a sync would touch",
		Long: `Discover and filter repositories exactly like "sync" does and print
each one with its remote URL and local path, without cloning or pulling.`,
	}
}

// Execute prints the selected repositories.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	providerFilter, _ := cmd.Flags().GetString("provider")
	orgOverride, _ := cmd.Flags().GetString("org")

	if listErr := it.command.Execute(commandContext(cmd), settings, commands.ListOptions{
		Verbose:      verbose,
		ProviderName: providerFilter,
		OrgOverride:  orgOverride,
	}); listErr != nil {
		logger.Errorf("List failed: %v", listErr)
	}
}

// AddFlags adds the list-specific flags to the given Cobra command.
func (it *ListController) AddFlags(cmd *cobra.Command) {
	addFilterFlags(cmd)
}
