package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

const (
	providerName = entities.ProviderGitLab
	perPage      = 100
)

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabProviderRepository implements repositories.ProviderRepository for GitLab.
type GitLabProviderRepository struct {
	conn   entities.ProviderConnection
	client *gl.Client
}

// NewGitLabProviderRepository creates a GitLab provider for the given connection.
// The resolved password is used as the private token.
func NewGitLabProviderRepository(conn entities.ProviderConnection) repositories.ProviderRepository {
	options := []gl.ClientOptionFunc{gl.WithoutRetries()}
	if conn.Endpoint != nil {
		options = append(options, gl.WithBaseURL(conn.Endpoint.String()))
	}
	if conn.HTTPClient != nil {
		options = append(options, gl.WithHTTPClient(conn.HTTPClient))
	}

	client, err := gl.NewClient(conn.Credentials.Password, options...)
	if err != nil {
		logger.Errorf("Failed to create GitLab client: %v", err)
		// Return a provider that will fail on use rather than panicking at construction
		return &GitLabProviderRepository{conn: conn, client: nil}
	}
	return &GitLabProviderRepository{conn: conn, client: client}
}

func (p *GitLabProviderRepository) Name() string { return providerName }

// DiscoverRepositories lists all projects of a group and its subgroups, or the
// projects owned by the current user when scope is its username.
func (p *GitLabProviderRepository) DiscoverRepositories(
	ctx context.Context,
	scope string,
) (entities.RepositorySet, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w for %q: %w", entities.ErrDiscovery, scope, errClientNotInitialized)
	}

	owned, err := p.isCurrentUser(ctx, scope)
	if err != nil {
		return nil, discoveryError(scope, err)
	}
	if owned {
		return p.discoverUserProjects(ctx, scope)
	}
	return p.discoverGroupProjects(ctx, scope)
}

func (p *GitLabProviderRepository) isCurrentUser(ctx context.Context, scope string) (bool, error) {
	if p.conn.Credentials.Password == "" {
		return false, nil
	}
	user, _, err := p.client.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to look up current user: %w", err)
	}
	return strings.EqualFold(user.Username, scope), nil
}

func (p *GitLabProviderRepository) discoverGroupProjects(
	ctx context.Context,
	group string,
) (entities.RepositorySet, error) {
	set := entities.RepositorySet{}
	opts := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: perPage},
		IncludeSubGroups: gl.Ptr(true),
	}

	for {
		logger.Debugf("Getting projects page %d of %q...", max(opts.Page, 1), group)
		projects, resp, err := p.client.Groups.ListGroupProjects(group, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, discoveryError(group, err)
		}
		p.collect(set, group, projects)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return set, nil
}

func (p *GitLabProviderRepository) discoverUserProjects(
	ctx context.Context,
	user string,
) (entities.RepositorySet, error) {
	set := entities.RepositorySet{}
	opts := &gl.ListProjectsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Owned:       gl.Ptr(true),
	}

	for {
		logger.Debugf("Getting projects page %d of %q...", max(opts.Page, 1), user)
		projects, resp, err := p.client.Projects.ListProjects(opts, gl.WithContext(ctx))
		if err != nil {
			return nil, discoveryError(user, err)
		}
		p.collect(set, user, projects)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return set, nil
}

func (p *GitLabProviderRepository) collect(set entities.RepositorySet, scope string, projects []*gl.Project) {
	for _, proj := range projects {
		if proj.ForkedFromProject != nil {
			logger.Debugf("Skipping fork %s", proj.PathWithNamespace)
			continue
		}

		remoteURL := proj.HTTPURLToRepo
		if p.conn.WantsSSH() {
			remoteURL = proj.SSHURLToRepo
		}

		// the full namespace path keeps projects of sibling subgroups apart
		var project string
		if proj.Namespace != nil {
			project = proj.Namespace.FullPath
			if project == "" {
				project = proj.Namespace.Path
			}
		}

		repo, err := p.conn.NewRepository(providerName, scope, entities.RemoteEntry{
			Name:      proj.Path,
			Project:   project,
			RemoteURL: remoteURL,
		})
		if err != nil {
			logger.Warnf("Skipping %s: %v", proj.PathWithNamespace, err)
			continue
		}
		set.Add(repo)
	}
}

func discoveryError(scope string, err error) error {
	var errResp *gl.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w for %q: %w: %w", entities.ErrDiscovery, scope, entities.ErrAuthenticationRejected, err)
		}
	}
	return fmt.Errorf("%w for %q: %w", entities.ErrDiscovery, scope, err)
}
