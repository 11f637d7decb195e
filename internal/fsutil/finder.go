// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// FindGraphs resolves paths to graph files. A file path is taken as is; a
// directory is searched with every doublestar pattern, relative to it. The
// result is sorted and free of duplicates.
func FindGraphs(paths []string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		panic("patterns must not be empty")
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("resolving graph path: %w", err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(p))
			continue
		}

		fsys := os.DirFS(p)
		for _, pattern := range patterns {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("matching %q in %s: %w", pattern, p, err)
			}
			for _, m := range matches {
				files = append(files, filepath.Join(p, filepath.FromSlash(m)))
			}
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
