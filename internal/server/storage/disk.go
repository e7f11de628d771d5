package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/filex"
)

// DiskStore keeps objects as files under a root directory. Avatars are
// served statically, so URL points at the public upload route.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore provisions the avatars and documents directories under root.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	abs, err := filex.EnsureSubdDir(root, "")
	if err != nil {
		return nil, err
	}
	if err := filex.EnsureSubdDirs(abs, AvatarsPrefix, DocumentsPrefix); err != nil {
		return nil, err
	}
	return &DiskStore{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the absolute directory backing the store.
func (s *DiskStore) Root() string { return s.root }

func (s *DiskStore) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *DiskStore) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if _, err := filex.EnsureSubdDir(filepath.Dir(p), ""); err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o640); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) URL(_ context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + key, nil
}
