package credentials

import (
	"net"
	"strings"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

// ConfigCredentialRepository is a credential store backed by the `credentials`
// section of the configuration file.
type ConfigCredentialRepository struct {
	entries map[string]entities.Credentials
}

var _ repositories.CredentialRepository = (*ConfigCredentialRepository)(nil)

// NewConfigCredentialRepository indexes the configured credentials by host.
// When a host is listed twice the first entry wins.
func NewConfigCredentialRepository(settings *entities.Settings) *ConfigCredentialRepository {
	entries := make(map[string]entities.Credentials, len(settings.Credentials))
	for _, c := range settings.Credentials {
		host := normalizeHost(c.Host)
		if _, ok := entries[host]; ok {
			continue
		}
		entries[host] = entities.Credentials{Username: c.Username, Password: c.Password}
	}
	return &ConfigCredentialRepository{entries: entries}
}

// Lookup returns the credentials for host. An entry without a port matches the
// host on any port.
func (r *ConfigCredentialRepository) Lookup(host string) (entities.Credentials, bool) {
	host = normalizeHost(host)
	if creds, ok := r.entries[host]; ok {
		return creds, true
	}
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		creds, ok := r.entries[hostname]
		return creds, ok
	}
	return entities.Credentials{}, false
}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}
