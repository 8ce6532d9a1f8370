package entities

import (
	"github.com/samber/lo"
)

// FilterRepositories applies the include/exclude name lists to the discovered
// set and returns the survivors sorted by name, then project.
//
// An empty include list lets every repository through; exclude always wins
// over include.
func FilterRepositories(all RepositorySet, include, exclude []string) []Repository {
	return lo.Filter(all.Sorted(), func(repo Repository, _ int) bool {
		if len(include) > 0 && !lo.Contains(include, repo.Name) {
			return false
		}
		return !lo.Contains(exclude, repo.Name)
	})
}
