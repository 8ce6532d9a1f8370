package azuredevops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

const apiVersion = "7.0"

// Client represents an Azure DevOps API client bound to one organization.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Azure DevOps client for the organization URL.
func NewClient(orgURL, username, pat string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(orgURL, "/"),
		username:   username,
		token:      pat,
		httpClient: httpClient,
	}
}

// Project represents an Azure DevOps project
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Repository represents an Azure DevOps Git repository
type Repository struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RemoteURL  string  `json:"remoteUrl"`
	SSHURL     string  `json:"sshUrl"`
	IsFork     bool    `json:"isFork"`
	IsDisabled bool    `json:"isDisabled"`
	Project    Project `json:"project"`
}

// GetProjects returns all projects in the organization
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var allProjects []Project
	continuationToken := ""

	for {
		endpoint := "/_apis/projects?api-version=" + apiVersion
		if continuationToken != "" {
			endpoint += "&continuationToken=" + url.QueryEscape(continuationToken)
		}

		resp, headers, err := c.doRequestWithHeaders(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}

		var result struct {
			Value []Project `json:"value"`
			Count int       `json:"count"`
		}

		if err := json.Unmarshal(resp, &result); err != nil {
			return nil, fmt.Errorf("failed to parse projects response: %w", err)
		}

		allProjects = append(allProjects, result.Value...)

		// Check for continuation token
		continuationToken = headers.Get("x-ms-continuationtoken")
		if continuationToken == "" {
			break
		}
	}

	return allProjects, nil
}

// GetRepositories returns all repositories in a project
func (c *Client) GetRepositories(ctx context.Context, projectID string) ([]Repository, error) {
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories?api-version=%s", url.PathEscape(projectID), apiVersion)

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var result struct {
		Value []Repository `json:"value"`
		Count int          `json:"count"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse repositories response: %w", err)
	}

	return result.Value, nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string) ([]byte, error) {
	body, _, err := c.doRequestWithHeaders(ctx, method, endpoint)
	return body, err
}

func (c *Client) doRequestWithHeaders(ctx context.Context, method, endpoint string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set Basic Auth with PAT
	auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.token))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	// an expired PAT is answered with a 203 sign-in page
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusNonAuthoritativeInfo {
		return nil, nil, fmt.Errorf("%w (status %d)", entities.ErrAuthenticationRejected, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, resp.Header, nil
}
