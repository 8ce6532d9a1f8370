package entities

import (
	"sort"

	"github.com/samber/lo"
)

// Repository is the normalized record of a remote repository discovered on a
// hosting provider, together with the local path it is mirrored to.
type Repository struct {
	Name         string // lower-cased repository name
	Project      string // lower-cased project/namespace, empty when the provider has none
	Organization string // scope the repository was discovered under
	RemoteURL    string // clone URL for the configured protocol
	LocalPath    string // absolute path of the local mirror
	ProviderName string
}

// Key returns the identity of the repository inside a provider+org scope.
func (r Repository) Key() string {
	if r.Project == "" {
		return r.Name
	}
	return r.Project + "/" + r.Name
}

// String returns the display name used in reports.
func (r Repository) String() string {
	return r.Key()
}

// Less orders repositories by name, then project.
func (r Repository) Less(other Repository) bool {
	if r.Name != other.Name {
		return r.Name < other.Name
	}
	return r.Project < other.Project
}

// RepositorySet is a set of repositories keyed by identity.
type RepositorySet map[string]Repository

// NewRepositorySet builds a set from the given repositories, keeping the first
// occurrence of every identity.
func NewRepositorySet(repos ...Repository) RepositorySet {
	set := make(RepositorySet, len(repos))
	for _, repo := range repos {
		set.Add(repo)
	}
	return set
}

// Add inserts the repository unless one with the same identity is present.
// It reports whether the repository was added.
func (s RepositorySet) Add(repo Repository) bool {
	if _, ok := s[repo.Key()]; ok {
		return false
	}
	s[repo.Key()] = repo
	return true
}

// Sorted returns the members ordered by name, then project.
func (s RepositorySet) Sorted() []Repository {
	repos := lo.Values(s)
	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Less(repos[j])
	})
	return repos
}
