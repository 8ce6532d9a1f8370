package controllers

import (
	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewSyncController); err != nil {
		return err
	}
	if err := container.Provide(NewListController); err != nil {
		return err
	}
	if err := container.Provide(NewScheduleController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	syncController *SyncController,
	listController *ListController,
	scheduleController *ScheduleController,
) *[]entities.Controller {
	return &[]entities.Controller{
		syncController,
		listController,
		scheduleController,
	}
}

// FlagAdder is implemented by controllers that declare their own flags.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}
