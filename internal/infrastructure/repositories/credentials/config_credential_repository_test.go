//go:build unit

package credentials_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/infrastructure/repositories/credentials"
)

func TestConfigCredentialRepositoryLookup(t *testing.T) {
	t.Parallel()

	settings := &entities.Settings{
		Credentials: []entities.CredentialConfig{
			{Host: "Bitbucket.ORG", Username: "jdoe", Password: "first"},
			{Host: "bitbucket.org", Username: "other", Password: "second"},
			{Host: "git.internal:8443", Username: "svc", Password: "port-specific"},
			{Host: "gitlab.internal", Username: "bot", Password: "any-port"},
		},
	}

	tests := []struct {
		name  string
		host  string
		want  entities.Credentials
		found bool
	}{
		{
			name:  "should match hosts case-insensitively and keep the first duplicate",
			host:  "BITBUCKET.org",
			want:  entities.Credentials{Username: "jdoe", Password: "first"},
			found: true,
		},
		{
			name:  "should match an entry that names a port exactly",
			host:  "git.internal:8443",
			want:  entities.Credentials{Username: "svc", Password: "port-specific"},
			found: true,
		},
		{
			name:  "should not match a port-specific entry on another port",
			host:  "git.internal:9000",
			found: false,
		},
		{
			name:  "should fall back to the portless entry",
			host:  "gitlab.internal:8080",
			want:  entities.Credentials{Username: "bot", Password: "any-port"},
			found: true,
		},
		{
			name:  "should report unknown hosts as missing",
			host:  "github.com",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			store := credentials.NewConfigCredentialRepository(settings)

			// when
			got, ok := store.Lookup(tt.host)

			// then
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
