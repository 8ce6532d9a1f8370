package repositories

import "github.com/rios0rios0/reposync/internal/domain/entities"

// CredentialRepository resolves stored credentials for a host.
type CredentialRepository interface {
	Lookup(host string) (entities.Credentials, bool)
}
