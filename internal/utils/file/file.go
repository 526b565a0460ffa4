// Package file provides file path utility functions.
package file

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AbsPaths returns the absolute and clean version of the paths, empty paths are ignored.
func AbsPaths(paths []string) ([]string, error) {
	res := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("could not resolve %q path: %w", p, err)
		}
		res = append(res, abs)
	}

	return res, nil
}

// DirFS returns a filesystem rooted at the directory of the file path and the
// file name inside that filesystem.
func DirFS(path string) (fs.FS, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not resolve %q path: %w", path, err)
	}

	return os.DirFS(filepath.Dir(abs)), filepath.Base(abs), nil
}
