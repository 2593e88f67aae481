package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yjpartners/valet/internal/common"
	"github.com/yjpartners/valet/internal/model"
)

// LocalStore organizes a directory on the local filesystem. Item and
// container IDs are paths.
type LocalStore struct{}

// NewLocalStore creates a store over the local filesystem.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// List returns the direct children of dir. Hidden entries are never
// listed, so dotfiles stay where they are.
func (s *LocalStore) List(_ context.Context, dir string) ([]model.Item, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, common.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	items := make([]model.Item, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		kind := model.KindFile
		if entry.IsDir() {
			kind = model.KindFolder
		}
		items = append(items, model.Item{
			ID:     filepath.Join(dir, name),
			Name:   name,
			Parent: dir,
			Kind:   kind,
		})
	}
	return items, nil
}

// EnsureFolder creates dir/name if needed and returns its path.
func (s *LocalStore) EnsureFolder(_ context.Context, dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(path, 0o750); err != nil {
		return "", fmt.Errorf("creating folder %s: %w", path, err)
	}
	return path, nil
}

// Move renames the item into destDir. A name collision at the
// destination fails the move; nothing is ever overwritten.
func (s *LocalStore) Move(_ context.Context, item model.Item, destDir string) error {
	target := filepath.Join(destDir, item.Name)

	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("%s: %w", target, common.ErrAlreadyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", target, err)
	}

	if err := os.Rename(item.ID, target); err != nil {
		return fmt.Errorf("moving %s: %w", item.Name, err)
	}
	return nil
}
