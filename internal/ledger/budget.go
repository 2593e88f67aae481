package ledger

import (
	"math"

	"github.com/yjpartners/valet/internal/model"
)

// BudgetPct converts monthly USD spend into percent of the won budget,
// rounded to one decimal.
func BudgetPct(monthlyUSD, rate, limitKRW float64) float64 {
	if limitKRW <= 0 {
		return 0
	}
	pct := monthlyUSD * rate / limitKRW * 100
	return math.Round(pct*10) / 10
}

// BudgetStatusFor classifies a used percentage: over at 100, warn at
// warnPct, ok below that.
func BudgetStatusFor(pct, warnPct float64) model.BudgetStatus {
	switch {
	case pct >= 100:
		return model.BudgetOver
	case pct >= warnPct:
		return model.BudgetWarn
	default:
		return model.BudgetOK
	}
}
