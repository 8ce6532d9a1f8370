package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

const (
	providerName = entities.ProviderBitbucket
	perPage      = 100
)

// BitbucketProviderRepository implements repositories.ProviderRepository for
// Bitbucket Cloud (API 2.0). Bitbucket has no fork flag, so every listed
// repository is kept.
type BitbucketProviderRepository struct {
	conn       entities.ProviderConnection
	httpClient *http.Client
}

// NewBitbucketProviderRepository creates a Bitbucket provider for the given connection.
func NewBitbucketProviderRepository(conn entities.ProviderConnection) repositories.ProviderRepository {
	httpClient := conn.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BitbucketProviderRepository{conn: conn, httpClient: httpClient}
}

func (p *BitbucketProviderRepository) Name() string { return providerName }

type repositoryPage struct {
	Values []repository `json:"values"`
	Next   string       `json:"next"`
}

type repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Project  struct {
		Name string `json:"name"`
	} `json:"project"`
	Links struct {
		Clone []cloneLink `json:"clone"`
	} `json:"links"`
}

type cloneLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// DiscoverRepositories lists the repositories of a workspace (team or user),
// following the `next` links until the last page.
func (p *BitbucketProviderRepository) DiscoverRepositories(
	ctx context.Context,
	scope string,
) (entities.RepositorySet, error) {
	if p.conn.Endpoint == nil {
		return nil, fmt.Errorf("%w for %q: endpoint is not set", entities.ErrDiscovery, scope)
	}

	first := p.conn.Endpoint.JoinPath("repositories", scope)
	query := first.Query()
	query.Set("pagelen", strconv.Itoa(perPage))
	first.RawQuery = query.Encode()

	set := entities.RepositorySet{}
	nextURL := first.String()
	for page := 1; nextURL != ""; page++ {
		logger.Infof("Getting repositories page %d...", page)

		body, err := p.doRequest(ctx, nextURL)
		if err != nil {
			return nil, fmt.Errorf("%w for %q: %w", entities.ErrDiscovery, scope, err)
		}

		var result repositoryPage
		if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr != nil {
			return nil, fmt.Errorf(
				"%w for %q: failed to parse repositories page %d: %w", entities.ErrDiscovery, scope, page, unmarshalErr,
			)
		}

		p.collect(set, scope, result.Values)
		nextURL = nextPageURL(result.Next)
	}

	return set, nil
}

func (p *BitbucketProviderRepository) collect(set entities.RepositorySet, scope string, repos []repository) {
	for _, r := range repos {
		repo, err := p.conn.NewRepository(providerName, scope, entities.RemoteEntry{
			Name:      r.Name,
			Project:   r.Project.Name,
			RemoteURL: cloneURL(r.Links.Clone, p.conn.Protocol),
		})
		if err != nil {
			logger.Warnf("Skipping %s: %v", r.FullName, err)
			continue
		}
		set.Add(repo)
	}
}

// cloneURL selects the link whose name matches the clone protocol.
func cloneURL(links []cloneLink, protocol string) string {
	for _, link := range links {
		if strings.EqualFold(link.Name, protocol) {
			return link.Href
		}
	}
	return ""
}

// nextPageURL validates the `next` link. A malformed link ends pagination
// and keeps the pages already fetched.
func nextPageURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		logger.Errorf("Error parsing next page URL %q, stopping pagination: %v", raw, err)
		return ""
	}
	return u.String()
}

func (p *BitbucketProviderRepository) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if !p.conn.Credentials.IsEmpty() {
		req.SetBasicAuth(p.conn.Credentials.Username, p.conn.Credentials.Password)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", entities.ErrAuthenticationRejected, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
