package repositories

import (
	"context"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// ProviderRepository abstracts a Git hosting service (GitHub, GitLab, Bitbucket, Azure DevOps).
// Each implementation speaks its platform's paginated listing API and normalizes the
// results into entities.Repository records.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github", "bitbucket").
	Name() string

	// DiscoverRepositories lists the repositories owned by an organization, team or user.
	// Failures wrap entities.ErrDiscovery.
	DiscoverRepositories(ctx context.Context, scope string) (entities.RepositorySet, error)
}
