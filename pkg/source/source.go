// Package source discovers review input files under a repository root and
// loads their content.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root and returns the relative paths of regular files,
// skipping excluded and hidden directories. When pattern is non-empty it is
// matched against the file's base name (filepath.Match syntax). Results are
// sorted so batch order is stable across runs.
func Discover(root, pattern string, excludes []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input root is not a directory: %s", root)
	}

	var items []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if shouldSkip(rel, d, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if pattern != "" {
			ok, err := filepath.Match(pattern, d.Name())
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if !ok {
				return nil
			}
		}

		items = append(items, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(items)
	return items, nil
}

func shouldSkip(rel string, d fs.DirEntry, excludes []string) bool {
	base := filepath.Base(rel)
	if d.IsDir() {
		if strings.HasPrefix(base, ".") {
			return true
		}
		for _, exclude := range excludes {
			if base == exclude {
				return true
			}
		}
	}
	return false
}
