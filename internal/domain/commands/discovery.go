package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reposync/internal/domain/entities"
	"github.com/rios0rios0/reposync/internal/domain/repositories"
	"github.com/rios0rios0/reposync/internal/infrastructure/metrics"
	infraRepos "github.com/rios0rios0/reposync/internal/infrastructure/repositories"
	"github.com/rios0rios0/reposync/internal/infrastructure/repositories/credentials"
	"github.com/rios0rios0/reposync/internal/infrastructure/repositories/httpclient"
)

// discoveryTarget is one configured provider together with the filtered
// repositories discovered for it.
type discoveryTarget struct {
	Config       entities.ProviderConfig
	Connection   entities.ProviderConnection
	Repositories []entities.Repository
}

// discoverTargets queries every selected provider and org. A provider or org
// that fails is logged and skipped; the others are still returned.
func discoverTargets(
	ctx context.Context,
	registry *infraRepos.ProviderRegistry,
	settings *entities.Settings,
	providerFilter, orgOverride string,
) []discoveryTarget {
	store := credentials.NewConfigCredentialRepository(settings)
	httpClient := httpclient.New(settings.Retries)

	var targets []discoveryTarget
	for _, provCfg := range settings.Providers {
		// Skip if CLI filter is set and doesn't match
		if providerFilter != "" && provCfg.Type != providerFilter {
			continue
		}

		conn, err := newConnection(settings, provCfg, store, httpClient)
		if err != nil {
			logger.Errorf("Failed to configure provider %q: %v", provCfg.Type, err)
			metrics.DiscoveryFailed.WithLabelValues(provCfg.Type).Inc()
			continue
		}

		provider, err := registry.Get(provCfg.Type, conn)
		if err != nil {
			logger.Errorf("Failed to initialize provider %q: %v", provCfg.Type, err)
			metrics.DiscoveryFailed.WithLabelValues(provCfg.Type).Inc()
			continue
		}

		logger.Infof("Processing provider: %s (%s)", provider.Name(), conn.Endpoint.Redacted())

		target := discoveryTarget{Config: provCfg, Connection: conn}
		for _, org := range provCfg.Orgs {
			// Skip if CLI filter is set and doesn't match
			if orgOverride != "" && org != orgOverride {
				continue
			}

			logger.Infof("Discovering repositories in %q...", org)

			set, discoverErr := provider.DiscoverRepositories(ctx, org)
			if discoverErr != nil {
				if errors.Is(discoverErr, entities.ErrAuthenticationRejected) {
					logger.Errorf("Credentials for %q were rejected (user %s)", org, conn.Credentials)
				}
				logger.Errorf("Failed to discover repos in %q: %v", org, discoverErr)
				metrics.DiscoveryFailed.WithLabelValues(provCfg.Type).Inc()
				continue
			}

			repos := entities.FilterRepositories(set, provCfg.Include, provCfg.Exclude)
			logger.Infof("Found %d repositories in %q, %d selected", len(set), org, len(repos))
			target.Repositories = append(target.Repositories, repos...)
		}

		targets = append(targets, target)
	}

	return targets
}

// newConnection resolves the endpoint and credentials of a provider. Userinfo
// embedded in the endpoint takes precedence over the provider's username and
// password, which take precedence over the credential store.
func newConnection(
	settings *entities.Settings,
	provCfg entities.ProviderConfig,
	store repositories.CredentialRepository,
	httpClient *http.Client,
) (entities.ProviderConnection, error) {
	endpoint, err := url.Parse(settings.Endpoint(provCfg))
	if err != nil || !endpoint.IsAbs() || endpoint.Host == "" {
		return entities.ProviderConnection{}, fmt.Errorf("invalid endpoint for provider %q", provCfg.Type)
	}

	fromURI := entities.CredentialsFromURL(endpoint)
	endpoint.User = nil
	stored, _ := store.Lookup(endpoint.Host)

	creds := entities.ResolveCredentials(
		fromURI,
		entities.Credentials{Username: provCfg.Username, Password: provCfg.Password},
		stored,
	)
	creds.SSHKey = settings.SSH.Key
	creds.SSHPassphrase = settings.SSH.Passphrase

	return entities.ProviderConnection{
		Endpoint:    endpoint,
		Credentials: creds,
		Protocol:    provCfg.Protocol,
		Target:      provCfg.Target,
		HTTPClient:  httpClient,
	}, nil
}
