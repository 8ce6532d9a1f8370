package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/samber/lo"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

// SyncEngineOptions holds the per-run knobs of the engine.
type SyncEngineOptions struct {
	Workers     int                  // repositories processed in parallel, at least 1
	Credentials entities.Credentials // used for clone and pull transport auth

	// OnOutcome, when set, receives every outcome in list order as soon as the
	// repositories before it are done. Calls never run concurrently.
	OnOutcome func(outcome entities.SyncOutcome)
}

// SyncEngine brings local mirrors up to date: it clones absent repositories and
// fast-forwards every branch of present ones, isolating failures per branch and
// per repository so the run always reaches the end of the list.
type SyncEngine struct {
	vcs repositories.VersionControlRepository
}

// NewSyncEngine creates a SyncEngine backed by the given version-control gateway.
func NewSyncEngine(vcs repositories.VersionControlRepository) *SyncEngine {
	return &SyncEngine{vcs: vcs}
}

// Run synchronizes the repositories and returns their outcomes in list order.
// Repositories sharing a local path are handled by the same worker, one after
// the other, so a working tree is never touched concurrently.
func (it *SyncEngine) Run(
	ctx context.Context,
	repos []entities.Repository,
	opts SyncEngineOptions,
) []entities.SyncOutcome {
	results := make([][]entities.SyncOutcome, len(repos))
	sink := newOrderedSink(len(repos), opts.OnOutcome)

	group := new(errgroup.Group)
	group.SetLimit(max(opts.Workers, 1))

	for _, indexes := range groupByLocalPath(repos) {
		group.Go(func() error {
			for _, i := range indexes {
				results[i] = it.syncRepository(ctx, repos[i], opts.Credentials)
				sink.complete(i, results[i])
			}
			return nil
		})
	}
	_ = group.Wait() // workers never return errors, outcomes carry them

	return lo.Flatten(results)
}

// orderedSink forwards the outcomes of repository i once repositories 0..i
// have all completed, whatever order the workers finish in.
type orderedSink struct {
	mu      sync.Mutex
	emit    func(outcome entities.SyncOutcome)
	pending [][]entities.SyncOutcome
	done    []bool
	next    int
}

func newOrderedSink(size int, emit func(outcome entities.SyncOutcome)) *orderedSink {
	return &orderedSink{
		emit:    emit,
		pending: make([][]entities.SyncOutcome, size),
		done:    make([]bool, size),
	}
}

func (s *orderedSink) complete(index int, outcomes []entities.SyncOutcome) {
	if s.emit == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[index] = outcomes
	s.done[index] = true
	for s.next < len(s.done) && s.done[s.next] {
		for _, outcome := range s.pending[s.next] {
			s.emit(outcome)
		}
		s.pending[s.next] = nil
		s.next++
	}
}

// groupByLocalPath returns repository indexes grouped by local path, groups
// ordered by first appearance.
func groupByLocalPath(repos []entities.Repository) [][]int {
	var groups [][]int
	position := make(map[string]int, len(repos))
	for i, repo := range repos {
		if g, ok := position[repo.LocalPath]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		position[repo.LocalPath] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}

func (it *SyncEngine) syncRepository(
	ctx context.Context,
	repo entities.Repository,
	credentials entities.Credentials,
) []entities.SyncOutcome {
	if err := ctx.Err(); err != nil {
		return []entities.SyncOutcome{
			entities.NewErrorOutcome(repo, "", fmt.Errorf("%w: %w", entities.ErrSkipped, err)),
		}
	}

	_, statErr := os.Stat(repo.LocalPath)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		return []entities.SyncOutcome{it.cloneRepository(ctx, repo, credentials)}
	case statErr != nil:
		return []entities.SyncOutcome{
			entities.NewErrorOutcome(repo, "", fmt.Errorf("%w: %w", entities.ErrLocalRepository, statErr)),
		}
	default:
		return it.updateRepository(ctx, repo, credentials)
	}
}

func (it *SyncEngine) cloneRepository(
	ctx context.Context,
	repo entities.Repository,
	credentials entities.Credentials,
) entities.SyncOutcome {
	logger.Infof("Cloning %s into %s", repo, repo.LocalPath)

	if err := it.vcs.Clone(ctx, repo.RemoteURL, repo.LocalPath, credentials); err != nil {
		return entities.NewErrorOutcome(repo, "", fmt.Errorf("%w: %w", entities.ErrClone, err))
	}
	return entities.NewSuccessOutcome(repo, "", entities.StatusCloned)
}

// updateRepository pulls every local branch and then restores the branch that
// was checked out before the run, whatever happened to the branches.
func (it *SyncEngine) updateRepository(
	ctx context.Context,
	repo entities.Repository,
	credentials entities.Credentials,
) []entities.SyncOutcome {
	path := repo.LocalPath

	if err := it.vcs.Open(path); err != nil {
		return []entities.SyncOutcome{
			entities.NewErrorOutcome(repo, "", fmt.Errorf("%w: %w", entities.ErrLocalRepository, err)),
		}
	}

	originalBranch, err := it.vcs.CurrentBranch(path)
	if err != nil {
		return []entities.SyncOutcome{
			entities.NewErrorOutcome(repo, "", fmt.Errorf(
				"%w: cannot determine current branch: %w", entities.ErrLocalRepository, err,
			)),
		}
	}

	// snapshot before any checkout
	branches, err := it.vcs.ListBranches(path)
	if err != nil {
		return []entities.SyncOutcome{
			entities.NewErrorOutcome(repo, "", fmt.Errorf(
				"%w: cannot list branches: %w", entities.ErrLocalRepository, err,
			)),
		}
	}

	logger.Debugf("Updating %s (%d branches, on %q)", repo, len(branches), originalBranch)

	outcomes := make([]entities.SyncOutcome, 0, len(branches)+1)
	for i, branch := range branches {
		if ctxErr := ctx.Err(); ctxErr != nil {
			for _, skipped := range branches[i:] {
				outcomes = append(outcomes, entities.NewErrorOutcome(
					repo, skipped, fmt.Errorf("%w: %w", entities.ErrSkipped, ctxErr),
				))
			}
			break
		}
		outcomes = append(outcomes, it.syncBranch(ctx, repo, branch, credentials))
	}

	if restoreErr := it.vcs.Checkout(path, originalBranch); restoreErr != nil {
		logger.Errorf("Failed to restore %s to branch %q: %v", repo, originalBranch, restoreErr)
		outcomes = append(outcomes, entities.NewErrorOutcome(repo, originalBranch, fmt.Errorf(
			"%w: cannot restore original branch: %w", entities.ErrCheckout, restoreErr,
		)))
	}

	return outcomes
}

func (it *SyncEngine) syncBranch(
	ctx context.Context,
	repo entities.Repository,
	branch string,
	credentials entities.Credentials,
) entities.SyncOutcome {
	if err := it.vcs.Checkout(repo.LocalPath, branch); err != nil {
		return entities.NewErrorOutcome(repo, branch, fmt.Errorf("%w: %w", entities.ErrCheckout, err))
	}

	result, err := it.vcs.Pull(ctx, repo.LocalPath, branch, credentials)
	if err != nil {
		return entities.NewErrorOutcome(repo, branch, fmt.Errorf("%w: %w", entities.ErrPull, err))
	}
	return entities.NewSuccessOutcome(repo, branch, result.Status())
}
