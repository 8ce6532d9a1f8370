//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/test/domain/entitybuilders"
)

func names(repos []entities.Repository) []string {
	out := make([]string, 0, len(repos))
	for _, repo := range repos {
		out = append(out, repo.Name)
	}
	return out
}

func TestFilterRepositories(t *testing.T) {
	t.Parallel()

	all := entities.NewRepositorySet(
		entitybuilders.NewRepositoryBuilder().WithName("c").BuildRepository(),
		entitybuilders.NewRepositoryBuilder().WithName("a").BuildRepository(),
		entitybuilders.NewRepositoryBuilder().WithName("b").BuildRepository(),
	)

	tests := []struct {
		name     string
		include  []string
		exclude  []string
		expected []string
	}{
		{name: "should return everything sorted when both lists are empty", expected: []string{"a", "b", "c"}},
		{name: "should keep only included repositories", include: []string{"a"}, expected: []string{"a"}},
		{name: "should return nothing when the included repository is absent", include: []string{"zzz"}, expected: []string{}},
		{name: "should drop excluded repositories", exclude: []string{"a"}, expected: []string{"b", "c"}},
		{
			name:     "should let exclude win over include",
			include:  []string{"a", "b"},
			exclude:  []string{"a"},
			expected: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			filtered := entities.FilterRepositories(all, tt.include, tt.exclude)

			// then
			assert.Equal(t, tt.expected, names(filtered))
		})
	}

	t.Run("should order same-named repositories by project", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewRepositorySet(
			entitybuilders.NewRepositoryBuilder().WithName("api").WithProject("web").BuildRepository(),
			entitybuilders.NewRepositoryBuilder().WithName("api").WithProject("core").BuildRepository(),
		)

		// when
		filtered := entities.FilterRepositories(set, nil, nil)

		// then
		assert.Equal(t, "core", filtered[0].Project)
		assert.Equal(t, "web", filtered[1].Project)
	})
}
