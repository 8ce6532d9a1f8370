//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

func TestProviderConnectionNewRepository(t *testing.T) {
	t.Parallel()

	t.Run("should lower-case names and expand the local path", func(t *testing.T) {
		t.Parallel()

		// given
		conn := entities.ProviderConnection{Protocol: entities.ProtocolHTTPS, Target: "/src/{project}/{name}"}

		// when
		repo, err := conn.NewRepository("bitbucket", "team", entities.RemoteEntry{
			Name:      "My-Repo",
			Project:   "Core",
			RemoteURL: "https://bitbucket.org/team/my-repo.git",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.Repository{
			Name:         "my-repo",
			Project:      "core",
			Organization: "team",
			RemoteURL:    "https://bitbucket.org/team/my-repo.git",
			LocalPath:    "/src/core/my-repo",
			ProviderName: "bitbucket",
		}, repo)
	})

	t.Run("should fail when no clone URL matches the protocol", func(t *testing.T) {
		t.Parallel()

		// given
		conn := entities.ProviderConnection{Protocol: entities.ProtocolSSH, Target: "/src/{name}"}

		// when
		_, err := conn.NewRepository("bitbucket", "team", entities.RemoteEntry{Name: "api"})

		// then
		require.Error(t, err)
	})
}
