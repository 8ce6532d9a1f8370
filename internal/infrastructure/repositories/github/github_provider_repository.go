package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

const (
	providerName = entities.ProviderGitHub
	perPage      = 100
)

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub
// and GitHub Enterprise.
type GitHubProviderRepository struct {
	conn   entities.ProviderConnection
	client *gh.Client
}

// NewGitHubProviderRepository creates a GitHub provider for the given connection.
// A username/password pair is sent as Basic auth, a lone password as a token.
func NewGitHubProviderRepository(conn entities.ProviderConnection) repositories.ProviderRepository {
	httpClient := conn.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var client *gh.Client
	creds := conn.Credentials
	switch {
	case creds.Username != "" && creds.Password != "":
		transport := &gh.BasicAuthTransport{
			Username:  creds.Username,
			Password:  creds.Password,
			Transport: httpClient.Transport,
		}
		client = gh.NewClient(&http.Client{Transport: transport, Timeout: httpClient.Timeout})
	case creds.Password != "":
		client = gh.NewClient(httpClient).WithAuthToken(creds.Password)
	default:
		client = gh.NewClient(httpClient)
	}

	if conn.Endpoint != nil {
		baseURL := *conn.Endpoint
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		client.BaseURL = &baseURL
	}

	return &GitHubProviderRepository{conn: conn, client: client}
}

func (p *GitHubProviderRepository) Name() string { return providerName }

// DiscoverRepositories lists the repositories of an organization, or the
// repositories owned by the authenticated user when scope is its login.
// Forks are skipped.
func (p *GitHubProviderRepository) DiscoverRepositories(
	ctx context.Context,
	scope string,
) (entities.RepositorySet, error) {
	owned, err := p.isAuthenticatedUser(ctx, scope)
	if err != nil {
		return nil, discoveryError(scope, err)
	}
	if owned {
		return p.discoverUserRepos(ctx, scope)
	}
	return p.discoverOrgRepos(ctx, scope)
}

func (p *GitHubProviderRepository) isAuthenticatedUser(ctx context.Context, scope string) (bool, error) {
	if p.conn.Credentials.IsEmpty() {
		return false, nil
	}
	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return false, fmt.Errorf("failed to look up authenticated user: %w", err)
	}
	return strings.EqualFold(user.GetLogin(), scope), nil
}

func (p *GitHubProviderRepository) discoverOrgRepos(
	ctx context.Context,
	org string,
) (entities.RepositorySet, error) {
	set := entities.RepositorySet{}
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		logger.Debugf("Getting repositories page %d of %q...", max(opts.Page, 1), org)
		repos, resp, err := p.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, discoveryError(org, err)
		}
		p.collect(set, org, repos)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return set, nil
}

func (p *GitHubProviderRepository) discoverUserRepos(
	ctx context.Context,
	user string,
) (entities.RepositorySet, error) {
	set := entities.RepositorySet{}
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
		Affiliation: "owner",
	}

	for {
		logger.Debugf("Getting repositories page %d of %q...", max(opts.Page, 1), user)
		repos, resp, err := p.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, discoveryError(user, err)
		}
		p.collect(set, user, repos)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return set, nil
}

func (p *GitHubProviderRepository) collect(set entities.RepositorySet, scope string, repos []*gh.Repository) {
	for _, r := range repos {
		if r.GetFork() {
			logger.Debugf("Skipping fork %s", r.GetFullName())
			continue
		}

		remoteURL := r.GetCloneURL()
		if p.conn.WantsSSH() {
			remoteURL = r.GetSSHURL()
		}

		repo, err := p.conn.NewRepository(providerName, scope, entities.RemoteEntry{
			Name:      r.GetName(),
			RemoteURL: remoteURL,
		})
		if err != nil {
			logger.Warnf("Skipping %s: %v", r.GetFullName(), err)
			continue
		}
		set.Add(repo)
	}
}

func discoveryError(scope string, err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w for %q: %w: %w", entities.ErrDiscovery, scope, entities.ErrAuthenticationRejected, err)
		}
	}
	return fmt.Errorf("%w for %q: %w", entities.ErrDiscovery, scope, err)
}
