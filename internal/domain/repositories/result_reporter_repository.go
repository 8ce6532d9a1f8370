package repositories

import "github.com/rios0rios0/reposync/internal/domain/entities"

// ResultReporterRepository renders synchronization outcomes for the user.
type ResultReporterRepository interface {
	Report(outcome entities.SyncOutcome)
}
