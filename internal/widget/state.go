// Package widget renders the floating cost panel: a toggleable
// terminal overlay fed by the cost API.
package widget

import (
	"time"

	"github.com/yjpartners/valet/internal/model"
)

// State tracks the panel's lifecycle.
type State int

const (
	StateClosed State = iota
	StateLoading
	StateReady
	StateError
)

// Snapshot is what the panel renders: the cost summary plus the
// per-model breakdown.
type Snapshot struct {
	Summary model.CostSummary
	Models  model.ModelCosts
}

// Result carries one fetch outcome back into the panel.
type Result struct {
	Err      error
	Snapshot Snapshot
	Seq      int
	At       time.Time
}

// Panel is the widget's state machine. It is kept free of I/O so the
// transitions stay testable; the bubbletea model drives it.
type Panel struct {
	state    State
	snapshot *Snapshot
	err      error
	seq      int
	updated  time.Time
}

// NewPanel returns a closed panel with no data.
func NewPanel() *Panel {
	return &Panel{state: StateClosed}
}

// State reports the current lifecycle state.
func (p *Panel) State() State {
	return p.state
}

// Snapshot returns the last successfully fetched data, if any.
func (p *Panel) Snapshot() (Snapshot, bool) {
	if p.snapshot == nil {
		return Snapshot{}, false
	}
	return *p.snapshot, true
}

// Err returns the last fetch error, or nil.
func (p *Panel) Err() error {
	return p.err
}

// UpdatedAt reports when the panel last applied a fetch result.
func (p *Panel) UpdatedAt() time.Time {
	return p.updated
}

// NextSeq stamps a new in-flight fetch. Results carrying an older
// stamp are discarded by Apply.
func (p *Panel) NextSeq() int {
	p.seq++
	return p.seq
}

// Toggle flips the panel open or closed. It reports whether a fresh
// fetch should start: opening always refreshes, closing never does.
// Opening with cached data shows it immediately instead of a loading
// screen.
func (p *Panel) Toggle() bool {
	if p.state != StateClosed {
		p.state = StateClosed
		return false
	}

	if p.snapshot != nil {
		p.state = StateReady
	} else {
		p.state = StateLoading
	}
	return true
}

// TickRefresh reports whether a periodic refresh should run. The
// panel only polls while open.
func (p *Panel) TickRefresh() bool {
	return p.state != StateClosed
}

// Apply folds a fetch result into the panel. Stale results, ones
// whose Seq predates the latest NextSeq, are dropped and Apply
// reports false.
//
// Data lands even while the panel is closed, so the first open after
// a background prefetch is instant. Errors never evict the last good
// snapshot.
func (p *Panel) Apply(r Result) bool {
	if r.Seq != p.seq {
		return false
	}

	p.updated = r.At

	if r.Err != nil {
		p.err = r.Err
		if p.state != StateClosed {
			p.state = StateError
		}
		return true
	}

	snap := r.Snapshot
	p.snapshot = &snap
	p.err = nil
	if p.state != StateClosed {
		p.state = StateReady
	}
	return true
}
