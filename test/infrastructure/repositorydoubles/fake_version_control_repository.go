//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

var errNotARepository = errors.New("repository does not exist")

// FakeWorkingCopy is the in-memory state of one local repository.
type FakeWorkingCopy struct {
	Branches []string
	Current  string
}

// FakeVersionControlRepository implements repositories.VersionControlRepository
// in memory. A successful Clone creates the directory on disk so that later
// visits of the same path take the update path.
type FakeVersionControlRepository struct {
	mu sync.Mutex

	WorkingCopies    map[string]*FakeWorkingCopy    // by local path
	CloneErrs        map[string]error               // by local path
	CurrentBranchErr map[string]error               // by local path
	ListBranchesErr  map[string]error               // by local path
	CheckoutErrs     map[string]error               // by BranchKey(path, branch)
	PullErrs         map[string]error               // by BranchKey(path, branch)
	PullResults      map[string]entities.PullResult // by BranchKey(path, branch)

	OperationDelay time.Duration     // held while an operation runs, to expose overlaps
	OnCall         func(call string) // if set, invoked as clone/checkout/pull start, outside the lock

	Calls    []string
	Overlaps int
	active   map[string]bool
}

var _ repositories.VersionControlRepository = (*FakeVersionControlRepository)(nil)

// NewFakeVersionControlRepository creates an empty fake.
func NewFakeVersionControlRepository() *FakeVersionControlRepository {
	return &FakeVersionControlRepository{
		WorkingCopies:    map[string]*FakeWorkingCopy{},
		CloneErrs:        map[string]error{},
		CurrentBranchErr: map[string]error{},
		ListBranchesErr:  map[string]error{},
		CheckoutErrs:     map[string]error{},
		PullErrs:         map[string]error{},
		PullResults:      map[string]entities.PullResult{},
		active:           map[string]bool{},
	}
}

// BranchKey builds the key used by the per-branch maps.
func BranchKey(path, branch string) string {
	return path + ":" + branch
}

// CallsSnapshot returns a copy of the recorded calls.
func (f *FakeVersionControlRepository) CallsSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

// CurrentOf returns the checked-out branch of a working copy.
func (f *FakeVersionControlRepository) CurrentOf(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if wc, ok := f.WorkingCopies[path]; ok {
		return wc.Current
	}
	return ""
}

func (f *FakeVersionControlRepository) enter(call, path string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	if f.active[path] {
		f.Overlaps++
	}
	f.active[path] = true
	delay := f.OperationDelay
	onCall := f.OnCall
	f.mu.Unlock()

	if onCall != nil {
		onCall(call)
	}

	if delay > 0 {
		time.Sleep(delay)
	}
}

func (f *FakeVersionControlRepository) leave(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, path)
}

func (f *FakeVersionControlRepository) Clone(
	_ context.Context, _ string, localPath string, _ entities.Credentials,
) error {
	f.enter("clone "+localPath, localPath)
	defer f.leave(localPath)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CloneErrs[localPath]; err != nil {
		return err
	}
	if err := os.MkdirAll(localPath, 0o755); err != nil {
		return err
	}
	f.WorkingCopies[localPath] = &FakeWorkingCopy{Branches: []string{"main"}, Current: "main"}
	return nil
}

func (f *FakeVersionControlRepository) Open(localPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "open "+localPath)
	if _, ok := f.WorkingCopies[localPath]; !ok {
		return errNotARepository
	}
	return nil
}

func (f *FakeVersionControlRepository) ListBranches(localPath string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ListBranchesErr[localPath]; err != nil {
		return nil, err
	}
	wc, ok := f.WorkingCopies[localPath]
	if !ok {
		return nil, errNotARepository
	}
	return append([]string(nil), wc.Branches...), nil
}

func (f *FakeVersionControlRepository) CurrentBranch(localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CurrentBranchErr[localPath]; err != nil {
		return "", err
	}
	wc, ok := f.WorkingCopies[localPath]
	if !ok {
		return "", errNotARepository
	}
	return wc.Current, nil
}

func (f *FakeVersionControlRepository) Checkout(localPath, branch string) error {
	f.enter(fmt.Sprintf("checkout %s %s", localPath, branch), localPath)
	defer f.leave(localPath)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CheckoutErrs[BranchKey(localPath, branch)]; err != nil {
		return err
	}
	wc, ok := f.WorkingCopies[localPath]
	if !ok {
		return errNotARepository
	}
	wc.Current = branch
	return nil
}

func (f *FakeVersionControlRepository) Pull(
	_ context.Context, localPath, branch string, _ entities.Credentials,
) (entities.PullResult, error) {
	f.enter(fmt.Sprintf("pull %s %s", localPath, branch), localPath)
	defer f.leave(localPath)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.PullErrs[BranchKey(localPath, branch)]; err != nil {
		return entities.PullUpToDate, err
	}
	return f.PullResults[BranchKey(localPath, branch)], nil
}
