// Package fsutil provides file system helpers for locating configuration.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension walks root and returns every file whose name ends
// with ext (compared case-insensitively), sorted by path. Hidden directories
// such as .git are not descended into. A root that is itself a matching file
// is returned as the only result.
func FindFilesByExtension(root, ext string) ([]string, error) {
	if ext == "" {
		return nil, fmt.Errorf("extension must not be empty")
	}
	ext = strings.ToLower(ext)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
