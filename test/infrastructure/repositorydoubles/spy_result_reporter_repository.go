//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

// SpyResultReporterRepository records every reported outcome.
type SpyResultReporterRepository struct {
	mu       sync.Mutex
	Outcomes []entities.SyncOutcome
}

var _ repositories.ResultReporterRepository = (*SpyResultReporterRepository)(nil)

func (s *SpyResultReporterRepository) Report(outcome entities.SyncOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Outcomes = append(s.Outcomes, outcome)
}

// Reported returns a copy of the recorded outcomes.
func (s *SpyResultReporterRepository) Reported() []entities.SyncOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.SyncOutcome(nil), s.Outcomes...)
}
