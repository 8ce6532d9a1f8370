// Package vcs implements the version-control gateway on top of go-git, so no
// git binary is required on the host.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/protocol/packp/capability"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

const (
	defaultRemote  = "origin"
	defaultSSHUser = "git"
	dirMode        = 0o755
)

var errDetachedHead = errors.New("HEAD is detached")

func init() {
	// For Azure DevOps compatibility. More details: https://github.com/go-git/go-git/issues/64
	transport.UnsupportedCapabilities = []capability.Capability{
		capability.ThinPack,
	}
}

// GitVersionControlRepository implements repositories.VersionControlRepository with go-git.
type GitVersionControlRepository struct{}

var _ repositories.VersionControlRepository = (*GitVersionControlRepository)(nil)

// NewGitVersionControlRepository creates the go-git backed gateway.
func NewGitVersionControlRepository() *GitVersionControlRepository {
	return &GitVersionControlRepository{}
}

func (g *GitVersionControlRepository) Clone(
	ctx context.Context,
	remoteURL, localPath string,
	credentials entities.Credentials,
) error {
	if remoteURL == "" {
		return errors.New("remote URL is empty")
	}

	auth, err := authMethod(remoteURL, credentials)
	if err != nil {
		return err
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(localPath), dirMode); mkdirErr != nil {
		return fmt.Errorf("failed to create parent directory: %w", mkdirErr)
	}

	// go-git removes the directory it created when the clone fails
	_, err = git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL:        remoteURL,
		Auth:       auth,
		RemoteName: defaultRemote,
	})
	return err
}

func (g *GitVersionControlRepository) Open(localPath string) error {
	_, err := git.PlainOpen(localPath)
	return err
}

func (g *GitVersionControlRepository) ListBranches(localPath string) ([]string, error) {
	repository, err := git.PlainOpen(localPath)
	if err != nil {
		return nil, err
	}

	iter, err := repository.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer iter.Close()

	var branches []string
	if forEachErr := iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref.Name().Short())
		return nil
	}); forEachErr != nil {
		return nil, fmt.Errorf("failed to list branches: %w", forEachErr)
	}

	sort.Strings(branches)
	return branches, nil
}

func (g *GitVersionControlRepository) CurrentBranch(localPath string) (string, error) {
	repository, err := git.PlainOpen(localPath)
	if err != nil {
		return "", err
	}

	head, err := repository.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errDetachedHead
	}
	return head.Name().Short(), nil
}

// Checkout refuses to switch when the working tree has unstaged changes.
func (g *GitVersionControlRepository) Checkout(localPath, branch string) error {
	repository, err := git.PlainOpen(localPath)
	if err != nil {
		return err
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return err
	}

	return worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
}

// Pull fast-forwards the checked-out branch from its configured upstream, or
// from the same-named branch on origin when none is configured. Diverged
// histories fail with git.ErrNonFastForwardUpdate.
func (g *GitVersionControlRepository) Pull(
	ctx context.Context,
	localPath, branch string,
	credentials entities.Credentials,
) (entities.PullResult, error) {
	repository, err := git.PlainOpen(localPath)
	if err != nil {
		return entities.PullUpToDate, err
	}

	remoteName, mergeRef := upstream(repository, branch)

	remote, err := repository.Remote(remoteName)
	if err != nil {
		return entities.PullUpToDate, fmt.Errorf("remote %q: %w", remoteName, err)
	}

	var auth transport.AuthMethod
	if urls := remote.Config().URLs; len(urls) > 0 {
		if auth, err = authMethod(urls[0], credentials); err != nil {
			return entities.PullUpToDate, err
		}
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return entities.PullUpToDate, err
	}

	logger.Debugf("Pulling %s/%s into %s (%s)", remoteName, mergeRef.Short(), branch, localPath)

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    remoteName,
		ReferenceName: mergeRef,
		SingleBranch:  true,
		Auth:          auth,
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return entities.PullUpToDate, nil
	case err != nil:
		return entities.PullUpToDate, err
	default:
		return entities.PullUpdated, nil
	}
}

// upstream returns the remote and merge reference configured for a branch.
func upstream(repository *git.Repository, branch string) (string, plumbing.ReferenceName) {
	remoteName, mergeRef := defaultRemote, plumbing.NewBranchReferenceName(branch)

	cfg, err := repository.Config()
	if err != nil {
		return remoteName, mergeRef
	}
	if branchCfg, ok := cfg.Branches[branch]; ok {
		if branchCfg.Remote != "" {
			remoteName = branchCfg.Remote
		}
		if branchCfg.Merge != "" {
			mergeRef = branchCfg.Merge
		}
	}
	return remoteName, mergeRef
}

// authMethod selects the transport auth for a remote: SSH key file or agent
// for SSH remotes, HTTP basic auth when credentials are set, nothing otherwise.
func authMethod(remoteURL string, credentials entities.Credentials) (transport.AuthMethod, error) {
	endpoint, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
	}

	switch endpoint.Protocol {
	case "ssh":
		user := endpoint.User
		if user == "" {
			user = defaultSSHUser
		}
		if credentials.SSHKey != "" {
			return gitssh.NewPublicKeysFromFile(user, credentials.SSHKey, credentials.SSHPassphrase)
		}
		return gitssh.NewSSHAgentAuth(user)
	case "http", "https":
		if credentials.IsEmpty() {
			return nil, nil //nolint:nilnil // anonymous access
		}
		return &githttp.BasicAuth{Username: credentials.Username, Password: credentials.Password}, nil
	default:
		return nil, nil //nolint:nilnil // local transports need no auth
	}
}
