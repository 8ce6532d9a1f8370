package repositories

import (
	"context"

	"github.com/rios0rios0/reposync/internal/domain/entities"
)

// VersionControlRepository is the gateway to local version-control operations.
// Every method addresses a working tree by path; callers must not run two
// operations against the same path concurrently.
type VersionControlRepository interface {
	// Clone clones remoteURL into localPath, creating parent directories first.
	Clone(ctx context.Context, remoteURL, localPath string, credentials entities.Credentials) error

	// Open checks that localPath holds a usable repository.
	Open(localPath string) error

	// ListBranches returns the local branch names, sorted.
	ListBranches(localPath string) ([]string, error)

	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(localPath string) (string, error)

	// Checkout switches the working tree to the given local branch.
	Checkout(localPath, branch string) error

	// Pull fast-forwards the checked-out branch from its upstream.
	Pull(
		ctx context.Context,
		localPath, branch string,
		credentials entities.Credentials,
	) (entities.PullResult, error)
}
