// Package filex holds small filesystem helpers for the client's on-disk
// state: the local database file and the export directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirPerm = 0o750

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path. An existing directory is fine.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// EnsureParentDir creates the directory that will hold the file at path.
func EnsureParentDir(path string) error {
	parent := filepath.Dir(path)
	if parent == "." {
		return nil
	}
	_, err := EnsureDir(parent)
	return err
}
