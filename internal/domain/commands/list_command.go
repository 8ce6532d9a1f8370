package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	infraRepos "github.com/rios0rios0/reposync/internal/infrastructure/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListOptions) error
}

// ListOptions holds runtime options for listing.
type ListOptions struct {
	Verbose      bool
	ProviderName string // If set, only process this provider (CLI override)
	OrgOverride  string // If set, only process this org (CLI override)
}

// ListCommand prints the repositories a sync would touch, without touching them.
type ListCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	output           io.Writer
}

// NewListCommand creates a new ListCommand writing to stdout.
func NewListCommand(providerRegistry *infraRepos.ProviderRegistry) *ListCommand {
	return NewListCommandWithWriter(providerRegistry, os.Stdout)
}

// NewListCommandWithWriter creates a new ListCommand writing to w.
func NewListCommandWithWriter(providerRegistry *infraRepos.ProviderRegistry, w io.Writer) *ListCommand {
	return &ListCommand{providerRegistry: providerRegistry, output: w}
}

// Execute discovers and filters repositories and prints one line per repository:
// <provider> <key> <remote URL> -> <local path>.
func (it *ListCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ListOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	total := 0
	for _, target := range discoverTargets(ctx, it.providerRegistry, settings, opts.ProviderName, opts.OrgOverride) {
		for _, repo := range target.Repositories {
			if _, err := fmt.Fprintf(
				it.output, "%s %s %s -> %s\n", target.Config.Type, repo.Key(), repo.RemoteURL, repo.LocalPath,
			); err != nil {
				return fmt.Errorf("failed to write repository list: %w", err)
			}
			total++
		}
	}

	logger.Infof("%d repositories selected", total)
	return nil
}
