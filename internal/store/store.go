// Package store abstracts the places valet organizes: a directory on
// the local filesystem or a folder tree in Google Drive.
package store

import (
	"context"

	"github.com/yjpartners/valet/internal/model"
)

// Store is a hierarchical container of files and folders. There is
// deliberately no delete operation; organizing only ever creates
// folders and moves items.
type Store interface {
	// List enumerates the direct children of a container.
	List(ctx context.Context, parent string) ([]model.Item, error)

	// EnsureFolder returns the id of the named child folder, creating
	// it if absent.
	EnsureFolder(ctx context.Context, parent, name string) (string, error)

	// Move relocates an item into the destination folder.
	Move(ctx context.Context, item model.Item, destID string) error
}
