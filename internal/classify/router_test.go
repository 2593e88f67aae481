package classify

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjpartners/valet/internal/model"
	"github.com/yjpartners/valet/internal/store"
)

func seedMock(items ...model.Item) *store.MockStore {
	m := store.NewMockStore()
	m.Containers["root"] = items
	return m
}

func TestRouter_Apply(t *testing.T) {
	items := []model.Item{
		file("1", "logo.png"),
		file("2", "tax_report.pdf"),
		file("3", "notes.txt"),
	}
	m := seedMock(items...)
	router := NewRouter(m, "root")

	summary, err := router.Apply(context.Background(), items, Assignment{
		"1": "Images",
		"2": "Tax",
		"3": "Other",
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{Moved: 3, Failed: 0}, summary)
	assert.Len(t, m.Containers["root/Images"], 1)
	assert.Len(t, m.Containers["root/Tax"], 1)
	assert.Len(t, m.Containers["root/Other"], 1)
	assert.Empty(t, m.Containers["root"])
}

func TestRouter_FolderCreatedOncePerCategory(t *testing.T) {
	items := []model.Item{
		file("1", "a.png"),
		file("2", "b.png"),
		file("3", "c.png"),
	}
	m := seedMock(items...)
	router := NewRouter(m, "root")

	_, err := router.Apply(context.Background(), items, Assignment{
		"1": "Images", "2": "Images", "3": "Images",
	})
	require.NoError(t, err)

	require.Len(t, m.EnsureFolderCalls, 1, "category folder must be resolved once and cached")
	assert.Equal(t, store.EnsureFolderCall{Parent: "root", Name: "Images"}, m.EnsureFolderCalls[0])
}

func TestRouter_ContinueOnError(t *testing.T) {
	items := []model.Item{
		file("1", "a.png"),
		file("2", "b.png"),
		file("3", "c.png"),
	}
	m := seedMock(items...)
	m.MoveErrs["2"] = errors.New("disk full")
	router := NewRouter(m, "root")

	var results []error
	router.OnResult = func(_ model.Item, _ string, err error) {
		results = append(results, err)
	}

	summary, err := router.Apply(context.Background(), items, Assignment{
		"1": "Images", "2": "Images", "3": "Images",
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{Moved: 2, Failed: 1}, summary)
	require.Len(t, results, 3, "every item must still be attempted")
	assert.Error(t, results[1])
}

func TestRouter_NothingIsEverDeleted(t *testing.T) {
	items := []model.Item{
		file("1", "a.png"),
		file("2", "b.pdf"),
		file("3", "c.txt"),
	}
	m := seedMock(items...)
	m.MoveErrs["2"] = errors.New("refused")
	router := NewRouter(m, "root")

	before := make([]string, 0, len(items))
	for _, item := range m.AllItems() {
		before = append(before, item.Name)
	}

	_, err := router.Apply(context.Background(), items, Assignment{
		"1": "Images", "2": "Documents", "3": "Other",
	})
	require.NoError(t, err)

	after := make([]string, 0)
	for _, item := range m.AllItems() {
		after = append(after, item.Name)
	}
	sort.Strings(before)
	sort.Strings(after)
	assert.Equal(t, before, after, "the same set of items must exist before and after a run")
}

func TestRouter_EnsureFolderFailureNotCached(t *testing.T) {
	items := []model.Item{
		file("1", "a.png"),
		file("2", "b.png"),
	}
	m := seedMock(items...)
	calls := 0
	m.EnsureFolderFn = func(_ context.Context, parent, name string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("quota exceeded")
		}
		return parent + "/" + name, nil
	}
	router := NewRouter(m, "root")

	summary, err := router.Apply(context.Background(), items, Assignment{
		"1": "Images", "2": "Images",
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{Moved: 1, Failed: 1}, summary)
	assert.Equal(t, 2, calls, "a failed folder lookup must not poison the cache")
}

func TestRouter_ContextCancellation(t *testing.T) {
	items := []model.Item{file("1", "a.png")}
	m := seedMock(items...)
	router := NewRouter(m, "root")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := router.Apply(ctx, items, Assignment{"1": "Images"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.MoveCalls, "no move may start after cancellation")
}

func TestMoveLine(t *testing.T) {
	assert.Equal(t, "scan.jpg → Images", MoveLine("scan.jpg", "Images"))
}
