package entities

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	placeholderName    = "{name}"
	placeholderProject = "{project}"
	placeholderOrg     = "{org}"
)

// PathComponents are the values a target template can reference.
type PathComponents struct {
	Name    string
	Project string
	Org     string
}

// ExpandTargetPath expands a target template such as "~/src/{project}/{name}"
// into an absolute path. A placeholder with no value removes its path segment,
// so providers without projects map "{project}/{name}" to "{name}".
func ExpandTargetPath(template string, components PathComponents) (string, error) {
	if template == "" {
		return "", fmt.Errorf("target path template is empty")
	}
	if components.Name == "" {
		return "", fmt.Errorf("repository name is required to expand %q", template)
	}

	expanded, err := expandHome(template)
	if err != nil {
		return "", err
	}

	replacer := strings.NewReplacer(
		placeholderName, components.Name,
		placeholderProject, components.Project,
		placeholderOrg, components.Org,
	)
	replaced := replacer.Replace(expanded)
	if !filepath.IsAbs(expanded) {
		// an unset leading placeholder must not turn a relative template absolute
		replaced = strings.TrimLeft(replaced, "/"+string(filepath.Separator))
	}

	// filepath.Clean drops the empty segments left by unset placeholders
	abs, err := filepath.Abs(filepath.Clean(replaced))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", expanded, err)
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
