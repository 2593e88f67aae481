package store

import (
	"context"
	"fmt"

	"github.com/yjpartners/valet/internal/model"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	// Functions that can be set by tests to control behavior
	ListFn         func(ctx context.Context, parent string) ([]model.Item, error)
	EnsureFolderFn func(ctx context.Context, parent, name string) (string, error)
	MoveFn         func(ctx context.Context, item model.Item, destID string) error

	// Containers maps container id to its current items. Moves update
	// it in place, so tests can assert nothing was lost.
	Containers map[string][]model.Item

	// MoveErrs makes Move fail for specific item ids.
	MoveErrs map[string]error

	// Call tracking
	EnsureFolderCalls []EnsureFolderCall
	MoveCalls         []MoveCall
}

// EnsureFolderCall records the parameters of an EnsureFolder call.
type EnsureFolderCall struct {
	Parent string
	Name   string
}

// MoveCall records the parameters of a Move call.
type MoveCall struct {
	ItemID string
	DestID string
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		Containers: make(map[string][]model.Item),
		MoveErrs:   make(map[string]error),
	}
}

// List implements Store.List.
func (m *MockStore) List(ctx context.Context, parent string) ([]model.Item, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, parent)
	}
	items := make([]model.Item, len(m.Containers[parent]))
	copy(items, m.Containers[parent])
	return items, nil
}

// EnsureFolder implements Store.EnsureFolder. Folder ids are derived
// from the parent and name, so repeated calls agree.
func (m *MockStore) EnsureFolder(ctx context.Context, parent, name string) (string, error) {
	m.EnsureFolderCalls = append(m.EnsureFolderCalls, EnsureFolderCall{Parent: parent, Name: name})

	if m.EnsureFolderFn != nil {
		return m.EnsureFolderFn(ctx, parent, name)
	}

	id := fmt.Sprintf("%s/%s", parent, name)
	if _, ok := m.Containers[id]; !ok {
		m.Containers[id] = []model.Item{}
	}
	return id, nil
}

// Move implements Store.Move.
func (m *MockStore) Move(ctx context.Context, item model.Item, destID string) error {
	m.MoveCalls = append(m.MoveCalls, MoveCall{ItemID: item.ID, DestID: destID})

	if m.MoveFn != nil {
		return m.MoveFn(ctx, item, destID)
	}
	if err := m.MoveErrs[item.ID]; err != nil {
		return err
	}

	// Relocate between containers.
	src := m.Containers[item.Parent]
	for i, existing := range src {
		if existing.ID == item.ID {
			m.Containers[item.Parent] = append(src[:i:i], src[i+1:]...)
			break
		}
	}
	moved := item
	moved.Parent = destID
	m.Containers[destID] = append(m.Containers[destID], moved)
	return nil
}

// AllItems returns every item across every container, for asserting
// that moves never lose anything.
func (m *MockStore) AllItems() []model.Item {
	var all []model.Item
	for _, items := range m.Containers {
		all = append(all, items...)
	}
	return all
}
