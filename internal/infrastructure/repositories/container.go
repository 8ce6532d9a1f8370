package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	domainRepos "github.com/rios0rios0/reposync/internal/domain/repositories"
	adoRepo "github.com/rios0rios0/reposync/internal/infrastructure/repositories/azuredevops"
	bbRepo "github.com/rios0rios0/reposync/internal/infrastructure/repositories/bitbucket"
	"github.com/rios0rios0/reposync/internal/infrastructure/repositories/console"
	ghRepo "github.com/rios0rios0/reposync/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/reposync/internal/infrastructure/repositories/gitlab"
	"github.com/rios0rios0/reposync/internal/infrastructure/repositories/vcs"
)

// NewDefaultProviderRegistry returns a registry with every supported provider.
func NewDefaultProviderRegistry() *ProviderRegistry {
	reg := NewProviderRegistry()
	reg.Register(entities.ProviderGitHub, ghRepo.NewGitHubProviderRepository)
	reg.Register(entities.ProviderGitLab, glRepo.NewGitLabProviderRepository)
	reg.Register(entities.ProviderBitbucket, bbRepo.NewBitbucketProviderRepository)
	reg.Register(entities.ProviderAzureDevOps, adoRepo.NewAzureDevOpsProviderRepository)
	return reg
}

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(NewDefaultProviderRegistry); err != nil {
		return err
	}

	// Register the go-git backed version-control gateway
	if err := container.Provide(vcs.NewGitVersionControlRepository); err != nil {
		return err
	}
	if err := container.Provide(func(impl *vcs.GitVersionControlRepository) domainRepos.VersionControlRepository {
		return impl
	}); err != nil {
		return err
	}

	// Register the console result reporter
	if err := container.Provide(console.NewConsoleResultReporterRepository); err != nil {
		return err
	}
	if err := container.Provide(func(impl *console.ConsoleResultReporterRepository) domainRepos.ResultReporterRepository {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
