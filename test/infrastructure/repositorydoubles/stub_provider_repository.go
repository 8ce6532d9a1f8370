//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, fakes) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
)

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
type SpyProviderRepository struct {
	mu sync.Mutex

	// --- identity ---
	ProviderName string

	// --- DiscoverRepositories ---
	Repositories   map[string][]entities.Repository // by scope
	DiscoverErrs   map[string]error                 // by scope
	DiscoveredOrgs []string

	// --- construction ---
	Connections []entities.ProviderConnection
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

// Factory returns a provider factory that records the connection and hands out the spy.
func (p *SpyProviderRepository) Factory() func(entities.ProviderConnection) repositories.ProviderRepository {
	return func(conn entities.ProviderConnection) repositories.ProviderRepository {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.Connections = append(p.Connections, conn)
		return p
	}
}

func (p *SpyProviderRepository) Name() string { return p.ProviderName }

func (p *SpyProviderRepository) DiscoverRepositories(
	_ context.Context, scope string,
) (entities.RepositorySet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.DiscoveredOrgs = append(p.DiscoveredOrgs, scope)
	if err := p.DiscoverErrs[scope]; err != nil {
		return nil, err
	}
	return entities.NewRepositorySet(p.Repositories[scope]...), nil
}

// DummyProviderRepository is a no-op implementation of repositories.ProviderRepository.
type DummyProviderRepository struct{}

var _ repositories.ProviderRepository = (*DummyProviderRepository)(nil)

func (d *DummyProviderRepository) Name() string { return "dummy" }

func (d *DummyProviderRepository) DiscoverRepositories(
	_ context.Context, _ string,
) (entities.RepositorySet, error) {
	return entities.RepositorySet{}, nil
}
