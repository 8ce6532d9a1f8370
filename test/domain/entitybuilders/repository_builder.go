//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// RepositoryBuilder helps create test repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	name         string
	project      string
	organization string
	remoteURL    string
	localPath    string
	providerName string
}

// NewRepositoryBuilder creates a new repository builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		name:         "test-repo",
		organization: "test-org",
		remoteURL:    "https://example.com/test-org/test-repo.git",
		localPath:    "/tmp/reposync/test-repo",
		providerName: "github",
	}
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithProject sets the grouping project.
func (b *RepositoryBuilder) WithProject(project string) *RepositoryBuilder {
	b.project = project
	return b
}

// WithOrganization sets the discovery scope.
func (b *RepositoryBuilder) WithOrganization(org string) *RepositoryBuilder {
	b.organization = org
	return b
}

// WithRemoteURL sets the clone URL.
func (b *RepositoryBuilder) WithRemoteURL(url string) *RepositoryBuilder {
	b.remoteURL = url
	return b
}

// WithLocalPath sets the local mirror path.
func (b *RepositoryBuilder) WithLocalPath(path string) *RepositoryBuilder {
	b.localPath = path
	return b
}

// WithProviderName sets the provider type.
func (b *RepositoryBuilder) WithProviderName(name string) *RepositoryBuilder {
	b.providerName = name
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() entities.Repository {
	return entities.Repository{
		Name:         b.name,
		Project:      b.project,
		Organization: b.organization,
		RemoteURL:    b.remoteURL,
		LocalPath:    b.localPath,
		ProviderName: b.providerName,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-repo"
	b.project = ""
	b.organization = "test-org"
	b.remoteURL = "https://example.com/test-org/test-repo.git"
	b.localPath = "/tmp/reposync/test-repo"
	b.providerName = "github"
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:         b.name,
		project:      b.project,
		organization: b.organization,
		remoteURL:    b.remoteURL,
		localPath:    b.localPath,
		providerName: b.providerName,
	}
}
