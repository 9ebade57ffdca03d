package fileutil

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobFunc expands a search pattern into matching paths.
// The order of the returned paths is unspecified.
type GlobFunc func(pattern string) ([]string, error)

// Glob returns the regular files matching pattern. A pattern that matches
// nothing returns an empty slice and no error.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}
