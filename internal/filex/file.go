// Package filex provisions the on-disk directories used by the upload store.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates root/dirName (and parents) if missing and returns
// its absolute path. An empty root means the current working directory.
func EnsureSubdDir(root, dirName string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}

	dir, err := filepath.Abs(filepath.Join(root, dirName))
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dirName, err)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// EnsureSubdDirs provisions every name under root, stopping at the first failure.
func EnsureSubdDirs(root string, names ...string) error {
	for _, name := range names {
		if _, err := EnsureSubdDir(root, name); err != nil {
			return err
		}
	}
	return nil
}
