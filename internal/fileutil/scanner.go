package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions selects which files ScanDirectory collects
type ScanOptions struct {
	// Extensions to include, with or without the dot; empty means all files
	Extensions []string
	// Recursive descends into subdirectories
	Recursive bool
	// ExcludeDirs names directories that are never entered
	ExcludeDirs []string
	// MaxDepth limits recursion (0 = unlimited, 1 = dir itself only)
	MaxDepth int
}

// ScanResult holds the files found by ScanDirectory
type ScanResult struct {
	// Files are absolute paths in lexical order
	Files []string
	// Errors collects entries that could not be read; the walk continues past them
	Errors []error
}

type scanner struct {
	root     string
	opts     ScanOptions
	exts     map[string]bool
	excluded map[string]bool
	result   *ScanResult
}

// ScanDirectory collects the files below dir that match opts.
// Hidden directories are always skipped.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	s := &scanner{
		root:     dir,
		opts:     opts,
		exts:     make(map[string]bool, len(opts.Extensions)),
		excluded: make(map[string]bool, len(opts.ExcludeDirs)),
		result:   &ScanResult{Files: []string{}, Errors: []error{}},
	}
	for _, ext := range opts.Extensions {
		s.exts[strings.ToLower("."+strings.TrimPrefix(ext, "."))] = true
	}
	for _, name := range opts.ExcludeDirs {
		s.excluded[name] = true
	}

	if err := filepath.WalkDir(dir, s.visit); err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	sort.Strings(s.result.Files)
	return s.result, nil
}

func (s *scanner) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		s.result.Errors = append(s.result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
		return nil
	}
	if path == s.root {
		return nil
	}
	if d.IsDir() {
		if s.skipDir(path, d.Name()) {
			return filepath.SkipDir
		}
		return nil
	}
	if !s.wanted(d.Name()) {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		s.result.Errors = append(s.result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
		return nil
	}
	s.result.Files = append(s.result.Files, abs)
	return nil
}

func (s *scanner) skipDir(path, name string) bool {
	if !s.opts.Recursive || s.excluded[name] || strings.HasPrefix(name, ".") {
		return true
	}
	if s.opts.MaxDepth <= 0 {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return true
	}
	depth := strings.Count(rel, string(filepath.Separator)) + 1
	return depth >= s.opts.MaxDepth
}

func (s *scanner) wanted(name string) bool {
	if len(s.exts) == 0 {
		return true
	}
	return s.exts[strings.ToLower(filepath.Ext(name))]
}
