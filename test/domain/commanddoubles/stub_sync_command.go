//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// StubSyncCommand is a stub implementation of commands.Sync.
type StubSyncCommand struct {
	mu               sync.Mutex
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.SyncOptions
	Executed         chan struct{} // if set, receives a value after every call
}

var _ commands.Sync = (*StubSyncCommand)(nil)

func (s *StubSyncCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.SyncOptions,
) error {
	s.mu.Lock()
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	s.mu.Unlock()

	if s.Executed != nil {
		select {
		case s.Executed <- struct{}{}:
		default:
		}
	}
	return s.ExecuteErr
}

// Calls returns the number of Execute calls.
func (s *StubSyncCommand) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ExecuteCallCount
}
