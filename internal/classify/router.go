package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yjpartners/valet/internal/model"
	"github.com/yjpartners/valet/internal/store"
)

// Summary tallies one organize run.
type Summary struct {
	Moved  int
	Failed int
}

// Router applies an assignment by ensuring category folders exist and
// moving items into them. Category folders are created on first use
// and the lookup is cached for the rest of the run. Nothing is ever
// deleted.
type Router struct {
	store store.Store
	// OnResult, when set, is called after every attempted move. The
	// progress bar hangs off this.
	OnResult func(item model.Item, categoryID string, err error)
	folders  map[string]string
	parent   string
}

// NewRouter creates a Router that organizes under the given parent
// container.
func NewRouter(s store.Store, parent string) *Router {
	return &Router{
		store:   s,
		parent:  parent,
		folders: make(map[string]string),
	}
}

// Apply moves every assigned item into its category folder. A failed
// move is logged and counted but never stops the run; only context
// cancellation aborts early.
func (r *Router) Apply(ctx context.Context, items []model.Item, assignment Assignment) (Summary, error) {
	var summary Summary

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		categoryID, ok := assignment[item.ID]
		if !ok {
			continue
		}

		err := r.route(ctx, item, categoryID)
		if err != nil {
			summary.Failed++
			slog.Error("Failed to file item", "item", item.Name, "category", categoryID, "error", err)
		} else {
			summary.Moved++
			slog.Info(MoveLine(item.Name, categoryID))
		}

		if r.OnResult != nil {
			r.OnResult(item, categoryID, err)
		}
	}

	return summary, nil
}

func (r *Router) route(ctx context.Context, item model.Item, categoryID string) error {
	folderID, err := r.folder(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("ensuring folder %q: %w", categoryID, err)
	}
	return r.store.Move(ctx, item, folderID)
}

func (r *Router) folder(ctx context.Context, categoryID string) (string, error) {
	if id, ok := r.folders[categoryID]; ok {
		return id, nil
	}
	id, err := r.store.EnsureFolder(ctx, r.parent, categoryID)
	if err != nil {
		return "", err
	}
	r.folders[categoryID] = id
	return id, nil
}

// MoveLine is the per-item line an organize run prints.
func MoveLine(name, categoryID string) string {
	return fmt.Sprintf("%s → %s", name, categoryID)
}
