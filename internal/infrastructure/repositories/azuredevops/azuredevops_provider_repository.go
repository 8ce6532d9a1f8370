package azuredevops

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

const providerName = entities.ProviderAzureDevOps

// AzureDevOpsProviderRepository implements repositories.ProviderRepository for
// Azure DevOps. The scope is the organization name.
type AzureDevOpsProviderRepository struct {
	conn entities.ProviderConnection
}

// NewAzureDevOpsProviderRepository creates an Azure DevOps provider for the given connection.
func NewAzureDevOpsProviderRepository(conn entities.ProviderConnection) repositories.ProviderRepository {
	return &AzureDevOpsProviderRepository{conn: conn}
}

func (p *AzureDevOpsProviderRepository) Name() string { return providerName }

// DiscoverRepositories lists every repository of every project in the
// organization. Forks and disabled repositories are skipped.
func (p *AzureDevOpsProviderRepository) DiscoverRepositories(
	ctx context.Context,
	scope string,
) (entities.RepositorySet, error) {
	if p.conn.Endpoint == nil {
		return nil, fmt.Errorf("%w for %q: endpoint is not set", entities.ErrDiscovery, scope)
	}

	client := NewClient(
		p.conn.Endpoint.JoinPath(scope).String(),
		p.conn.Credentials.Username,
		p.conn.Credentials.Password,
		p.conn.HTTPClient,
	)

	projects, err := client.GetProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %w", entities.ErrDiscovery, scope, err)
	}

	set := entities.RepositorySet{}
	for _, project := range projects {
		logger.Debugf("Getting repositories of project %q...", project.Name)
		repos, repoErr := client.GetRepositories(ctx, project.ID)
		if repoErr != nil {
			return nil, fmt.Errorf("%w for %q: project %q: %w", entities.ErrDiscovery, scope, project.Name, repoErr)
		}
		p.collect(set, scope, project, repos)
	}

	return set, nil
}

func (p *AzureDevOpsProviderRepository) collect(
	set entities.RepositorySet,
	scope string,
	project Project,
	repos []Repository,
) {
	for _, r := range repos {
		if r.IsFork || r.IsDisabled {
			logger.Debugf("Skipping %s/%s (fork or disabled)", project.Name, r.Name)
			continue
		}

		remoteURL := r.RemoteURL
		if p.conn.WantsSSH() {
			remoteURL = r.SSHURL
		}

		repo, err := p.conn.NewRepository(providerName, scope, entities.RemoteEntry{
			Name:      r.Name,
			Project:   project.Name,
			RemoteURL: remoteURL,
		})
		if err != nil {
			logger.Warnf("Skipping %s/%s: %v", project.Name, r.Name, err)
			continue
		}
		set.Add(repo)
	}
}
