//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reposync/internal/domain/commands"
	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/reposync/test/infrastructure/repositorydoubles"
)

// presentRepository registers a working copy in the fake and creates its directory.
func presentRepository(
	t *testing.T,
	vcs *doubles.FakeVersionControlRepository,
	name, current string,
	branches ...string,
) entities.Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	vcs.WorkingCopies[path] = &doubles.FakeWorkingCopy{Branches: branches, Current: current}

	return entitybuilders.NewRepositoryBuilder().WithName(name).WithLocalPath(path).BuildRepository()
}

func absentRepository(t *testing.T, name string) entities.Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mirror", name)
	return entitybuilders.NewRepositoryBuilder().WithName(name).WithLocalPath(path).BuildRepository()
}

func TestSyncEngineRun(t *testing.T) {
	t.Parallel()

	t.Run("should produce exactly one CLONED outcome for an absent repository", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := absentRepository(t, "api")
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.StatusCloned, outcomes[0].Status)
		assert.Empty(t, outcomes[0].Branch)
		assert.NoError(t, outcomes[0].Err)
	})

	t.Run("should produce exactly one ERROR outcome when the clone fails", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := absentRepository(t, "api")
		vcs.CloneErrs[repo.LocalPath] = errors.New("authentication required")
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.StatusError, outcomes[0].Status)
		require.ErrorIs(t, outcomes[0].Err, entities.ErrClone)
	})

	t.Run("should isolate a failing pull and restore the original branch", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := presentRepository(t, vcs, "api", "main", "main", "dev")
		vcs.PullErrs[doubles.BranchKey(repo.LocalPath, "dev")] = errors.New("non-fast-forward update")
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 2)
		assert.Equal(t, "main", outcomes[0].Branch)
		assert.Equal(t, entities.StatusUpToDate, outcomes[0].Status)
		assert.Equal(t, "dev", outcomes[1].Branch)
		assert.Equal(t, entities.StatusError, outcomes[1].Status)
		require.ErrorIs(t, outcomes[1].Err, entities.ErrPull)
		assert.Equal(t, "main", vcs.CurrentOf(repo.LocalPath))
	})

	t.Run("should report UPDATED when a pull fast-forwards", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := presentRepository(t, vcs, "api", "main", "main")
		vcs.PullResults[doubles.BranchKey(repo.LocalPath, "main")] = entities.PullUpdated
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.StatusUpdated, outcomes[0].Status)
	})

	t.Run("should keep going after a failing checkout", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := presentRepository(t, vcs, "api", "release", "feature", "main", "release")
		vcs.CheckoutErrs[doubles.BranchKey(repo.LocalPath, "feature")] = errors.New("unstaged changes")
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 3)
		require.ErrorIs(t, outcomes[0].Err, entities.ErrCheckout)
		assert.Equal(t, entities.StatusUpToDate, outcomes[1].Status)
		assert.Equal(t, entities.StatusUpToDate, outcomes[2].Status)
		assert.Equal(t, "release", vcs.CurrentOf(repo.LocalPath))
		assert.NotContains(t, vcs.CallsSnapshot(), "pull "+repo.LocalPath+" feature")
	})

	t.Run("should report an extra error when the original branch cannot be restored", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := presentRepository(t, vcs, "api", "dev", "dev", "main")
		restoreErr := errors.New("index.lock exists")
		vcs.CheckoutErrs[doubles.BranchKey(repo.LocalPath, "dev")] = restoreErr
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 3)
		assert.Equal(t, "dev", outcomes[0].Branch)
		assert.Equal(t, entities.StatusError, outcomes[0].Status)
		assert.Equal(t, "main", outcomes[1].Branch)
		assert.Equal(t, entities.StatusUpToDate, outcomes[1].Status)
		assert.Equal(t, "dev", outcomes[2].Branch)
		require.ErrorIs(t, outcomes[2].Err, entities.ErrCheckout)
		require.ErrorIs(t, outcomes[2].Err, restoreErr)
		assert.Contains(t, outcomes[2].Err.Error(), "cannot restore original branch")
	})

	t.Run("should process later repositories after a repository fails", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		failing := absentRepository(t, "a")
		vcs.CloneErrs[failing.LocalPath] = errors.New("repository not found")
		succeeding := absentRepository(t, "b")
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(
			context.Background(),
			[]entities.Repository{failing, succeeding},
			commands.SyncEngineOptions{Workers: 1},
		)

		// then
		require.Len(t, outcomes, 2)
		assert.Equal(t, "a", outcomes[0].Repository.Name)
		assert.Equal(t, entities.StatusError, outcomes[0].Status)
		assert.Equal(t, "b", outcomes[1].Repository.Name)
		assert.Equal(t, entities.StatusCloned, outcomes[1].Status)
	})

	t.Run("should report a local repository error when the path is not a repository", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := entitybuilders.NewRepositoryBuilder().WithName("junk").WithLocalPath(t.TempDir()).BuildRepository()
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 1)
		require.ErrorIs(t, outcomes[0].Err, entities.ErrLocalRepository)
	})

	t.Run("should report a local repository error when HEAD is detached", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := presentRepository(t, vcs, "api", "main", "main")
		vcs.CurrentBranchErr[repo.LocalPath] = errors.New("HEAD is detached")
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 1)
		require.ErrorIs(t, outcomes[0].Err, entities.ErrLocalRepository)
		assert.NotContains(t, vcs.CallsSnapshot(), "checkout "+repo.LocalPath+" main")
	})

	t.Run("should skip every repository when the context is already cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repos := []entities.Repository{absentRepository(t, "a"), absentRepository(t, "b")}
		engine := commands.NewSyncEngine(vcs)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		outcomes := engine.Run(ctx, repos, commands.SyncEngineOptions{Workers: 2})

		// then
		require.Len(t, outcomes, 2)
		for _, outcome := range outcomes {
			require.ErrorIs(t, outcome.Err, entities.ErrSkipped)
		}
		assert.Empty(t, vcs.CallsSnapshot())
	})

	t.Run("should restore the original branch and skip the remaining branches when cancelled mid-repository", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		repo := presentRepository(t, vcs, "api", "b", "a", "b", "c")
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		vcs.OnCall = func(call string) {
			if call == "pull "+repo.LocalPath+" a" {
				cancel()
			}
		}
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(ctx, []entities.Repository{repo}, commands.SyncEngineOptions{Workers: 1})

		// then
		require.Len(t, outcomes, 3)
		assert.Equal(t, "a", outcomes[0].Branch)
		assert.Equal(t, entities.StatusUpToDate, outcomes[0].Status)
		for i, branch := range []string{"b", "c"} {
			assert.Equal(t, branch, outcomes[i+1].Branch)
			require.ErrorIs(t, outcomes[i+1].Err, entities.ErrSkipped)
			require.ErrorIs(t, outcomes[i+1].Err, context.Canceled)
		}
		assert.NotContains(t, vcs.CallsSnapshot(), "pull "+repo.LocalPath+" b")
		assert.Equal(t, "checkout "+repo.LocalPath+" b", lastCall(vcs))
		assert.Equal(t, "b", vcs.CurrentOf(repo.LocalPath))
	})

	t.Run("should hand outcomes to the sink before later repositories start", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		first := absentRepository(t, "a")
		second := absentRepository(t, "b")
		var mu sync.Mutex
		var emitted []string
		var emittedBeforeSecond []string
		vcs.OnCall = func(call string) {
			if call == "clone "+second.LocalPath {
				mu.Lock()
				emittedBeforeSecond = append([]string(nil), emitted...)
				mu.Unlock()
			}
		}
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), []entities.Repository{first, second}, commands.SyncEngineOptions{
			Workers: 1,
			OnOutcome: func(outcome entities.SyncOutcome) {
				mu.Lock()
				defer mu.Unlock()
				emitted = append(emitted, outcome.Repository.Name)
			},
		})

		// then
		require.Len(t, outcomes, 2)
		assert.Equal(t, []string{"a"}, emittedBeforeSecond)
		assert.Equal(t, []string{"a", "b"}, emitted)
	})

	t.Run("should emit outcomes in list order with several workers", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		slow := absentRepository(t, "slow")
		vcs.OnCall = func(call string) {
			if call == "clone "+slow.LocalPath {
				time.Sleep(20 * time.Millisecond)
			}
		}
		repos := []entities.Repository{slow, absentRepository(t, "b"), absentRepository(t, "c")}
		engine := commands.NewSyncEngine(vcs)
		var emitted []entities.SyncOutcome

		// when
		outcomes := engine.Run(context.Background(), repos, commands.SyncEngineOptions{
			Workers: 3,
			OnOutcome: func(outcome entities.SyncOutcome) {
				emitted = append(emitted, outcome)
			},
		})

		// then
		assert.Equal(t, outcomes, emitted)
		assert.Equal(t, "slow", emitted[0].Repository.Name)
	})

	t.Run("should keep list order and never overlap work on the same path", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := doubles.NewFakeVersionControlRepository()
		vcs.OperationDelay = 5 * time.Millisecond
		shared := absentRepository(t, "shared")
		twin := entitybuilders.NewRepositoryBuilder().
			WithName("shared").
			WithProject("other").
			WithLocalPath(shared.LocalPath).
			BuildRepository()
		repos := []entities.Repository{
			shared,
			absentRepository(t, "b"),
			twin,
			absentRepository(t, "c"),
		}
		engine := commands.NewSyncEngine(vcs)

		// when
		outcomes := engine.Run(context.Background(), repos, commands.SyncEngineOptions{Workers: 4})

		// then
		assert.Zero(t, vcs.Overlaps)
		require.Len(t, outcomes, 4)
		assert.Equal(t, entities.StatusCloned, outcomes[0].Status)
		assert.Equal(t, "b", outcomes[1].Repository.Name)
		assert.Equal(t, "other", outcomes[2].Repository.Project)
		assert.Equal(t, entities.StatusUpToDate, outcomes[2].Status)
		assert.Equal(t, "main", outcomes[2].Branch)
		assert.Equal(t, "c", outcomes[3].Repository.Name)
	})
}

func lastCall(vcs *doubles.FakeVersionControlRepository) string {
	calls := vcs.CallsSnapshot()
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1]
}
