package entities

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProviderConnection is everything a provider client needs to discover
// repositories: where to connect, as whom, and how to normalize the results.
type ProviderConnection struct {
	Endpoint    *url.URL // API endpoint without userinfo
	Credentials Credentials
	Protocol    string // clone protocol, "https" or "ssh"
	Target      string // local path template
	HTTPClient  *http.Client
}

// RemoteEntry is a repository as listed by a provider, before normalization.
type RemoteEntry struct {
	Name      string
	Project   string
	RemoteURL string
}

// NewRepository normalizes a provider entry: names are lower-cased and the
// local path is expanded from the target template.
func (c ProviderConnection) NewRepository(providerName, org string, entry RemoteEntry) (Repository, error) {
	if entry.RemoteURL == "" {
		return Repository{}, fmt.Errorf("repository %q has no %s clone URL", entry.Name, c.Protocol)
	}

	name := strings.ToLower(entry.Name)
	project := strings.ToLower(entry.Project)

	localPath, err := ExpandTargetPath(c.Target, PathComponents{
		Name:    name,
		Project: project,
		Org:     org,
	})
	if err != nil {
		return Repository{}, err
	}

	return Repository{
		Name:         name,
		Project:      project,
		Organization: org,
		RemoteURL:    entry.RemoteURL,
		LocalPath:    localPath,
		ProviderName: providerName,
	}, nil
}

// WantsSSH reports whether SSH clone URLs should be selected.
func (c ProviderConnection) WantsSSH() bool {
	return strings.EqualFold(c.Protocol, ProtocolSSH)
}
