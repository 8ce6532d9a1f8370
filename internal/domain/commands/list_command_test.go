//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/reposync/test/infrastructure/repositorydoubles"
)

func TestListCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should print the filtered repositories sorted by name", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{
			ProviderName: "bitbucket",
			Repositories: map[string][]entities.Repository{
				"team": {
					entitybuilders.NewRepositoryBuilder().WithName("web").WithProject("ui").
						WithRemoteURL("https://bitbucket.org/team/web.git").WithLocalPath("/src/ui/web").BuildRepository(),
					entitybuilders.NewRepositoryBuilder().WithName("api").WithProject("core").
						WithRemoteURL("https://bitbucket.org/team/api.git").WithLocalPath("/src/core/api").BuildRepository(),
					entitybuilders.NewRepositoryBuilder().WithName("old").BuildRepository(),
				},
			},
		}
		var out bytes.Buffer
		cmd := commands.NewListCommandWithWriter(newRegistry(spy), &out)
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{{
				Type: "bitbucket", Orgs: []string{"team"}, Target: "/src/{project}/{name}", Protocol: "https",
				Exclude: []string{"old"},
			}},
		}

		// when
		err := cmd.Execute(context.Background(), settings, commands.ListOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t,
			"bitbucket core/api https://bitbucket.org/team/api.git -> /src/core/api\n"+
				"bitbucket ui/web https://bitbucket.org/team/web.git -> /src/ui/web\n",
			out.String(),
		)
	})

	t.Run("should print nothing when no provider matches the filter", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{ProviderName: "github"}
		var out bytes.Buffer
		cmd := commands.NewListCommandWithWriter(newRegistry(spy), &out)
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{Type: "github", Orgs: []string{"acme"}, Target: "/src/{name}", Protocol: "https"},
			},
		}

		// when
		err := cmd.Execute(context.Background(), settings, commands.ListOptions{ProviderName: "gitlab"})

		// then
		require.NoError(t, err)
		assert.Empty(t, out.String())
		assert.Empty(t, spy.DiscoveredOrgs)
	})
}
