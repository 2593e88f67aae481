package widget

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjpartners/valet/internal/model"
)

func TestBarColor(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{name: "empty", pct: 0, want: "#10b981"},
		{name: "just under warn", pct: 79.9, want: "#10b981"},
		{name: "at warn", pct: 80, want: "#f59e0b"},
		{name: "just under limit", pct: 99.9, want: "#f59e0b"},
		{name: "at limit", pct: 100, want: "#ef4444"},
		{name: "blown", pct: 173.4, want: "#ef4444"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(BarColor(tt.pct)))
		})
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, statusGreen, StatusColor(model.BudgetOK))
	assert.Equal(t, statusAmber, StatusColor(model.BudgetWarn))
	assert.Equal(t, statusRed, StatusColor(model.BudgetOver))
	assert.Equal(t, statusGray, StatusColor(model.BudgetStatus("mystery")))
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name       string
		pct        float64
		wantFilled int
	}{
		{name: "empty", pct: 0, wantFilled: 0},
		{name: "tiny spend still visible", pct: 1, wantFilled: 1},
		{name: "half", pct: 50, wantFilled: 10},
		{name: "full", pct: 100, wantFilled: 20},
		{name: "overrun clamps", pct: 250, wantFilled: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderBar(tt.pct, barWidth)

			assert.Equal(t, tt.wantFilled, strings.Count(bar, "█"))
			assert.Equal(t, barWidth-tt.wantFilled, strings.Count(bar, "░"))
		})
	}
}

func TestTruncateModel(t *testing.T) {
	assert.Equal(t, "gpt-4o", truncateModel("gpt-4o"))

	exactly25 := strings.Repeat("a", 25)
	assert.Equal(t, exactly25, truncateModel(exactly25))

	over := strings.Repeat("a", 26)
	got := truncateModel(over)
	assert.Equal(t, 25, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.0125", formatUSD(0.0125))
	assert.Equal(t, "$90.0000", formatUSD(90))
	assert.Equal(t, "$0.0000", formatUSD(0))
}

func TestFormatKRW(t *testing.T) {
	assert.Equal(t, "17.5원", formatKRW(model.Amount{KRWFmt: "17.5원", KRW: 18}))
	assert.Equal(t, "12,880원", formatKRW(model.Amount{KRW: 12880}))
	assert.Equal(t, "18원", formatKRW(model.Amount{KRW: 17.5}))
}

func TestView_States(t *testing.T) {
	m := NewModel(stubFetcher{})

	closed := m.View()
	assert.Contains(t, closed, "cost panel")
	assert.NotContains(t, closed, "API Budget")

	m.panel.Toggle()
	assert.Contains(t, m.View(), "Fetching cost data")

	seq := m.panel.NextSeq()
	require.True(t, m.panel.Apply(Result{Snapshot: testSnapshot(63, model.BudgetOK), Seq: seq, At: time.Now()}))

	open := m.View()
	assert.Contains(t, open, "API Budget")
	assert.Contains(t, open, "$9.2000")
	assert.Contains(t, open, "12,880원")
	assert.Contains(t, open, "gpt-4o")
	assert.Contains(t, open, "63.0%")
}

func TestView_ClosedShowsWarmMonthlyTotal(t *testing.T) {
	m := NewModel(stubFetcher{})

	seq := m.panel.NextSeq()
	require.True(t, m.panel.Apply(Result{Snapshot: testSnapshot(25, model.BudgetOK), Seq: seq, At: time.Now()}))

	closed := m.View()
	assert.Contains(t, closed, "12,880원")
	assert.Contains(t, closed, "this month")
}

func TestView_ErrorKeepsLastKnownCosts(t *testing.T) {
	m := NewModel(stubFetcher{})
	m.panel.Toggle()

	seq := m.panel.NextSeq()
	require.True(t, m.panel.Apply(Result{Snapshot: testSnapshot(63, model.BudgetOK), Seq: seq, At: time.Now()}))

	seq = m.panel.NextSeq()
	require.True(t, m.panel.Apply(Result{Err: assert.AnError, Seq: seq, At: time.Now()}))

	view := m.View()
	assert.Contains(t, view, "last known costs")
	assert.Contains(t, view, "63.0%")
}
