//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

func TestExpandTargetPath(t *testing.T) {
	t.Parallel()

	t.Run("should substitute every placeholder", func(t *testing.T) {
		t.Parallel()

		// when
		path, err := entities.ExpandTargetPath(
			"/src/{org}/{project}/{name}",
			entities.PathComponents{Name: "api", Project: "core", Org: "acme"},
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/src/acme/core/api", path)
	})

	t.Run("should drop the segment of an empty placeholder", func(t *testing.T) {
		t.Parallel()

		// when
		path, err := entities.ExpandTargetPath("/src/{project}/{name}", entities.PathComponents{Name: "api"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "/src/api", path)
	})

	t.Run("should expand the home directory", func(t *testing.T) {
		t.Parallel()

		// given
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		// when
		path, expandErr := entities.ExpandTargetPath("~/code/{name}", entities.PathComponents{Name: "api"})

		// then
		require.NoError(t, expandErr)
		assert.Equal(t, filepath.Join(home, "code", "api"), path)
	})

	t.Run("should resolve relative templates against the working directory", func(t *testing.T) {
		t.Parallel()

		// given
		wd, err := os.Getwd()
		require.NoError(t, err)

		// when
		path, expandErr := entities.ExpandTargetPath("{project}/{name}", entities.PathComponents{Name: "api"})

		// then
		require.NoError(t, expandErr)
		assert.Equal(t, filepath.Join(wd, "api"), path)
	})

	t.Run("should fail without a template or a name", func(t *testing.T) {
		t.Parallel()

		// when
		_, emptyTemplateErr := entities.ExpandTargetPath("", entities.PathComponents{Name: "api"})
		_, emptyNameErr := entities.ExpandTargetPath("/src/{name}", entities.PathComponents{})

		// then
		require.Error(t, emptyTemplateErr)
		require.Error(t, emptyNameErr)
	})
}
