package costapi

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatKRW renders a USD amount in won for display: comma-grouped
// whole won from one thousand up, one decimal place below that.
func FormatKRW(usd, rate float64) string {
	krw := usd * rate
	if krw >= 1000 {
		return humanize.Commaf(math.Round(krw)) + "원"
	}
	return fmt.Sprintf("%.1f원", krw)
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

func round2(v float64) float64 { return math.Round(v*1e2) / 1e2 }

func round0(v float64) float64 { return math.Round(v) }
