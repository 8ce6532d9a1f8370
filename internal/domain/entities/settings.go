package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGitHub      = "github"
	ProviderGitLab      = "gitlab"
	ProviderBitbucket   = "bitbucket"
	ProviderAzureDevOps = "azuredevops"

	ProtocolHTTPS = "https"
	ProtocolSSH   = "ssh"

	defaultURISuffix = "-default-uri"
	defaultWorkers   = 1
	defaultRetries   = 3
)

// builtinEndpoints are used when neither `uri` nor `<type>-default-uri` is configured.
//
//nolint:gochecknoglobals // read-only lookup table
var builtinEndpoints = map[string]string{
	ProviderGitHub:      "https://api.github.com",
	ProviderGitLab:      "https://gitlab.com",
	ProviderBitbucket:   "https://api.bitbucket.org/2.0",
	ProviderAzureDevOps: "https://dev.azure.com",
}

// Settings is the top-level configuration for reposync.
type Settings struct {
	Workers     int                `yaml:"workers"`
	Retries     int                `yaml:"retries"`
	Defaults    map[string]string  `yaml:"defaults"` // "<type>-default-uri" -> endpoint
	SSH         SSHConfig          `yaml:"ssh"`
	Credentials []CredentialConfig `yaml:"credentials"`
	Providers   []ProviderConfig   `yaml:"providers"`
}

// ProviderConfig describes one hosting provider and the scopes to mirror from it.
type ProviderConfig struct {
	Type     string   `yaml:"type"` // "github", "gitlab", "bitbucket", "azuredevops"
	URI      string   `yaml:"uri"`  // API endpoint override, may embed user:password
	Username string   `yaml:"username"`
	Password string   `yaml:"password"` // Inline, ${ENV_VAR}, or file path
	Orgs     []string `yaml:"orgs"`
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	Target   string   `yaml:"target"`   // e.g. ~/src/{project}/{name}
	Protocol string   `yaml:"protocol"` // "https" (default) or "ssh"
}

// CredentialConfig is one credential store entry keyed by host.
type CredentialConfig struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SSHConfig selects the key used for SSH remotes. The SSH agent is used when Key is empty.
type SSHConfig struct {
	Key        string `yaml:"key"`
	Passphrase string `yaml:"passphrase"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving secret file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings parses, resolves and validates configuration content.
func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.resolve()

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".reposync.yaml",
		".reposync.yml",
		"reposync.yaml",
		"reposync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// Endpoint returns the API endpoint for a provider: its own `uri`, then
// `<type>-default-uri` from the defaults section, then the built-in default.
func (s *Settings) Endpoint(provider ProviderConfig) string {
	if provider.URI != "" {
		return provider.URI
	}
	if uri := s.Defaults[provider.Type+defaultURISuffix]; uri != "" {
		return uri
	}
	return builtinEndpoints[provider.Type]
}

func (s *Settings) resolve() {
	if s.Workers == 0 {
		s.Workers = defaultWorkers
	}
	if s.Retries == 0 {
		s.Retries = defaultRetries
	}

	s.SSH.Key = expandEnv(s.SSH.Key)
	s.SSH.Passphrase = resolveSecret(s.SSH.Passphrase)

	for i := range s.Credentials {
		s.Credentials[i].Username = expandEnv(s.Credentials[i].Username)
		s.Credentials[i].Password = resolveSecret(s.Credentials[i].Password)
	}

	for i := range s.Providers {
		p := &s.Providers[i]
		p.Type = strings.ToLower(strings.TrimSpace(p.Type))
		p.URI = expandEnv(p.URI)
		p.Username = expandEnv(p.Username)
		p.Password = resolveSecret(p.Password)
		p.Target = expandEnv(p.Target)
		p.Include = lowerAll(p.Include)
		p.Exclude = lowerAll(p.Exclude)
		p.Protocol = strings.ToLower(strings.TrimSpace(p.Protocol))
		if p.Protocol == "" {
			p.Protocol = ProtocolHTTPS
		}
	}
}

// lowerAll lower-cases repository names so they match the normalized records.
func lowerAll(names []string) []string {
	return lo.Map(names, func(name string, _ int) string {
		return strings.ToLower(strings.TrimSpace(name))
	})
}

// expandEnv replaces ${ENV_VAR} references, warning about unset variables.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// resolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from the file.
func resolveSecret(raw string) string {
	resolved := expandEnv(raw)
	if resolved == "" {
		return resolved
	}

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if settings.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", settings.Workers)
	}
	if settings.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", settings.Retries)
	}
	if len(settings.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	for i, p := range settings.Providers {
		if p.Type == "" {
			return fmt.Errorf("providers[%d].type is required", i)
		}
		if _, ok := builtinEndpoints[p.Type]; !ok {
			return fmt.Errorf("providers[%d].type %q is not supported", i, p.Type)
		}
		if len(p.Orgs) == 0 {
			return fmt.Errorf("providers[%d].orgs must have at least one entry", i)
		}
		if p.Target == "" {
			return fmt.Errorf("providers[%d].target is required", i)
		}
		if p.Protocol != ProtocolHTTPS && p.Protocol != ProtocolSSH {
			return fmt.Errorf("providers[%d].protocol must be %q or %q", i, ProtocolHTTPS, ProtocolSSH)
		}
	}

	for i, c := range settings.Credentials {
		if c.Host == "" {
			return fmt.Errorf("credentials[%d].host is required", i)
		}
	}

	return nil
}
