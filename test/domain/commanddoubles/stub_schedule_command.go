//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// StubScheduleCommand is a stub implementation of commands.Schedule.
type StubScheduleCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.ScheduleOptions
}

var _ commands.Schedule = (*StubScheduleCommand)(nil)

func (s *StubScheduleCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ScheduleOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
