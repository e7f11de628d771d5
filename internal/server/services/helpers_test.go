package services

import (
	"os"
	"path/filepath"
)

func listDir(root, sub string) ([]os.DirEntry, error) {
	return os.ReadDir(filepath.Join(root, sub))
}
