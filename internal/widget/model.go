package widget

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// refreshInterval is how often an open panel re-polls the cost API.
const refreshInterval = 15 * time.Second

// KeyMap defines the widget's keyboard shortcuts.
type KeyMap struct {
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("enter", " ", "o"),
			key.WithHelp("enter/o", "toggle panel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Fetcher retrieves a fresh snapshot. *Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

type tickMsg time.Time

type fetchDoneMsg struct {
	err  error
	snap Snapshot
	seq  int
}

// Model hosts the panel inside bubbletea.
type Model struct {
	panel    *Panel
	fetcher  Fetcher
	keymap   KeyMap
	spinner  spinner.Model
	width    int
	quitting bool
}

// NewModel builds the widget around a fetcher.
func NewModel(f Fetcher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		panel:   NewPanel(),
		fetcher: f,
		keymap:  DefaultKeyMap(),
		spinner: s,
	}
}

// Init prefetches data so the first toggle opens a warm panel.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick(), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Toggle):
			if m.panel.Toggle() {
				return m, m.fetch()
			}
			return m, nil

		case key.Matches(msg, m.keymap.Refresh):
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		if m.panel.TickRefresh() {
			return m, tea.Batch(m.fetch(), m.tick())
		}
		return m, m.tick()

	case fetchDoneMsg:
		m.panel.Apply(Result{
			Err:      msg.err,
			Snapshot: msg.snap,
			Seq:      msg.seq,
			At:       time.Now(),
		})
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// fetch starts an asynchronous snapshot fetch stamped with a fresh
// sequence number, so late arrivals from superseded fetches are
// dropped.
func (m Model) fetch() tea.Cmd {
	seq := m.panel.NextSeq()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snap, err := m.fetcher.Fetch(ctx)
		return fetchDoneMsg{err: err, snap: snap, seq: seq}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run hosts the widget until the user quits.
func Run(client *Client) error {
	p := tea.NewProgram(NewModel(client))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
