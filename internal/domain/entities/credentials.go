package entities

import (
	"fmt"
	"net/url"
)

// Credentials authenticate against a host: a username/password (or token)
// pair for HTTPS, an optional private key file for SSH remotes.
type Credentials struct {
	Username      string
	Password      string
	SSHKey        string // empty means use the SSH agent
	SSHPassphrase string
}

// IsEmpty reports whether neither username nor password is set.
func (c Credentials) IsEmpty() bool {
	return c.Username == "" && c.Password == ""
}

// String masks the password so credentials can be logged.
func (c Credentials) String() string {
	masked := "<empty>"
	if c.Password != "" {
		masked = "*******"
	}
	return fmt.Sprintf("%s:%s", c.Username, masked)
}

// CredentialsFromURL extracts the userinfo embedded in an endpoint URI.
func CredentialsFromURL(endpoint *url.URL) Credentials {
	if endpoint == nil || endpoint.User == nil {
		return Credentials{}
	}
	password, _ := endpoint.User.Password()
	return Credentials{Username: endpoint.User.Username(), Password: password}
}

// ResolveCredentials picks each field from the first source that sets it.
// Callers pass sources in precedence order: URI-embedded userinfo first,
// then the credential store entry for the host.
func ResolveCredentials(sources ...Credentials) Credentials {
	var resolved Credentials
	for _, source := range sources {
		if resolved.Username == "" {
			resolved.Username = source.Username
		}
		if resolved.Password == "" {
			resolved.Password = source.Password
		}
	}
	return resolved
}
