package widget

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/yjpartners/valet/internal/model"
)

const (
	defaultWidth  = 44
	barWidth      = 20
	maxModelChars = 25
	maxModelRows  = 5
)

var (
	statusGreen = lipgloss.Color("#10b981")
	statusAmber = lipgloss.Color("#f59e0b")
	statusRed   = lipgloss.Color("#ef4444")
	statusGray  = lipgloss.Color("#6b7280")
	accentColor = lipgloss.Color("#7c3aed")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(statusRed)
	spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// View renders the widget.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.panel.State() {
	case StateClosed:
		return m.viewClosed()
	case StateLoading:
		return m.viewLoading()
	case StateError:
		return m.viewError()
	default:
		return m.viewReady()
	}
}

func (m Model) viewClosed() string {
	hint := "enter opens the cost panel · q quits"
	if snap, ok := m.panel.Snapshot(); ok {
		return faintStyle.Render(fmt.Sprintf("🛎️  %s this month · %s", formatKRW(snap.Summary.Monthly), hint))
	}
	return faintStyle.Render("🛎️  " + hint)
}

func (m Model) viewLoading() string {
	return m.box(m.spinner.View() + " Fetching cost data…")
}

func (m Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("⚠ " + m.panel.Err().Error()))

	if _, ok := m.panel.Snapshot(); ok {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("showing last known costs"))
		b.WriteString("\n\n")
		b.WriteString(m.renderSnapshot())
	}
	return m.box(b.String())
}

func (m Model) viewReady() string {
	return m.box(m.renderSnapshot())
}

func (m Model) renderSnapshot() string {
	snap, ok := m.panel.Snapshot()
	if !ok {
		return labelStyle.Render("no usage recorded yet")
	}

	sum := snap.Summary
	var b strings.Builder

	dot := lipgloss.NewStyle().Foreground(StatusColor(sum.Budget.Status)).Render("●")
	b.WriteString(titleStyle.Render("🛎️ API Budget") + " " + dot + "\n\n")

	b.WriteString(row("Today", formatUSD(sum.Today.USD)+"  "+formatKRW(sum.Today)))
	b.WriteString(row("Month", formatUSD(sum.Monthly.USD)+"  "+formatKRW(sum.Monthly)))
	b.WriteString(row("All time", formatUSD(sum.AllTime.USD)+"  "+formatKRW(sum.AllTime)))
	b.WriteString("\n")

	pct := sum.Budget.UsedPct
	bar := lipgloss.NewStyle().Foreground(BarColor(pct)).Render(renderBar(pct, barWidth))
	b.WriteString(fmt.Sprintf("%s %.1f%%\n", bar, pct))
	b.WriteString(labelStyle.Render(fmt.Sprintf("of %s원 monthly budget", humanize.Commaf(sum.Budget.LimitKRW))) + "\n")

	if len(snap.Models.Models) > 0 {
		b.WriteString("\n" + labelStyle.Render("Top models") + "\n")
		for i, mc := range snap.Models.Models {
			if i == maxModelRows {
				break
			}
			b.WriteString(fmt.Sprintf("%-*s %s\n", maxModelChars, truncateModel(mc.Model), mc.CostKRWFmt))
		}
	}

	b.WriteString("\n" + faintStyle.Render(m.footer()))
	return b.String()
}

func (m Model) footer() string {
	parts := []string{"enter close", "r refresh", "q quit"}
	if at := m.panel.UpdatedAt(); !at.IsZero() {
		parts = append([]string{"updated " + at.Format("15:04:05")}, parts...)
	}
	return strings.Join(parts, " · ")
}

func (m Model) box(content string) string {
	width := defaultWidth
	if m.width > 0 && m.width-2 < width {
		width = m.width - 2
	}
	return panelStyle.Width(width).Render(content)
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label)), valueStyle.Render(value))
}

// BarColor picks the budget bar color for a spend percentage.
func BarColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 100:
		return statusRed
	case pct >= 80:
		return statusAmber
	default:
		return statusGreen
	}
}

// StatusColor maps the server-reported budget status to a color. The
// status string is authoritative; the percentage is never re-derived
// client-side.
func StatusColor(status model.BudgetStatus) lipgloss.Color {
	switch status {
	case model.BudgetOK:
		return statusGreen
	case model.BudgetWarn:
		return statusAmber
	case model.BudgetOver:
		return statusRed
	default:
		return statusGray
	}
}

// renderBar draws a fixed-width fill bar. Any positive spend shows at
// least one filled cell.
func renderBar(pct float64, width int) string {
	filled := int(math.Round(pct / 100 * float64(width)))
	if pct > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncateModel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxModelChars {
		return name
	}
	return string(runes[:maxModelChars-1]) + "…"
}

func formatUSD(usd float64) string {
	return fmt.Sprintf("$%.4f", usd)
}

// formatKRW prefers the server-rendered string so the widget and any
// embedded dashboard show identical amounts.
func formatKRW(a model.Amount) string {
	if a.KRWFmt != "" {
		return a.KRWFmt
	}
	return humanize.Commaf(math.Round(a.KRW)) + "원"
}
