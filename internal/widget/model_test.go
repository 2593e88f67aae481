package widget

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjpartners/valet/internal/model"
)

// stubFetcher returns a canned snapshot or error without any I/O.
type stubFetcher struct {
	err  error
	snap Snapshot
}

func (s stubFetcher) Fetch(context.Context) (Snapshot, error) {
	return s.snap, s.err
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runeMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_ToggleOpensAndFetches(t *testing.T) {
	m := NewModel(stubFetcher{snap: testSnapshot(63, model.BudgetOK)})

	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(Model)

	require.NotNil(t, cmd, "opening must start a fetch")
	assert.Equal(t, StateLoading, m.panel.State())

	done, ok := cmd().(fetchDoneMsg)
	require.True(t, ok)

	updated, _ = m.Update(done)
	m = updated.(Model)

	assert.Equal(t, StateReady, m.panel.State())
	assert.Contains(t, m.View(), "API Budget")
}

func TestModel_ToggleCloseIssuesNoFetch(t *testing.T) {
	m := NewModel(stubFetcher{})
	m.panel.Toggle()

	updated, cmd := m.Update(runeMsg('o'))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, StateClosed, m.panel.State())
}

func TestModel_TickFetchesOnlyWhileOpen(t *testing.T) {
	m := NewModel(stubFetcher{})

	m.Update(tickMsg(time.Now()))
	assert.Equal(t, 0, m.panel.seq, "closed panel must not poll")

	m.panel.Toggle()
	m.Update(tickMsg(time.Now()))
	assert.Equal(t, 1, m.panel.seq)
}

func TestModel_FetchFailureShowsError(t *testing.T) {
	m := NewModel(stubFetcher{err: assert.AnError})

	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(Model)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd().(fetchDoneMsg))
	m = updated.(Model)

	assert.Equal(t, StateError, m.panel.State())
	assert.Contains(t, m.View(), assert.AnError.Error())
}

func TestModel_RefreshKeyFetches(t *testing.T) {
	m := NewModel(stubFetcher{snap: testSnapshot(10, model.BudgetOK)})
	m.panel.Toggle()

	_, cmd := m.Update(runeMsg('r'))
	require.NotNil(t, cmd)

	_, ok := cmd().(fetchDoneMsg)
	assert.True(t, ok)
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel(stubFetcher{})

	updated, cmd := m.Update(runeMsg('q'))
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, km.Toggle.Enabled())
	assert.Contains(t, km.Toggle.Keys(), "enter")
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
}
