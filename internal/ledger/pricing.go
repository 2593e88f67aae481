package ledger

import (
	"log/slog"
	"math"
	"strings"
)

// modelPrice is a USD price per 1,000 tokens.
type modelPrice struct {
	id     string
	input  float64
	output float64
}

// priceTable holds the per-1,000-token USD prices we bill against.
// Order matters: the substring fallback in lookupPrice scans top to
// bottom, so dated variants sit above their undated families.
var priceTable = []modelPrice{
	// Gemini
	{"gemini-2.5-pro", 0.00125, 0.0100},
	{"gemini-2.5-flash", 0.00015, 0.0035},
	{"gemini-2.0-flash", 0.00010, 0.0004},
	{"gemini-2.0-flash-lite", 0, 0},
	{"gemini-1.5-pro", 0.00125, 0.005},
	{"gemini-1.5-flash", 0.000075, 0.0003},

	// Claude
	{"claude-sonnet-4-20250514", 0.003, 0.015},
	{"claude-3-7-sonnet-20250219", 0.003, 0.015},
	{"claude-3-5-sonnet-20241022", 0.003, 0.015},
	{"claude-3-5-sonnet-20240620", 0.003, 0.015},
	{"claude-3-5-haiku-20241022", 0.0008, 0.004},
	{"claude-3-opus-20240229", 0.015, 0.075},
	{"claude-3-sonnet-20240229", 0.003, 0.015},
	{"claude-3-haiku-20240307", 0.00025, 0.00125},

	// OpenAI
	{"gpt-4o", 0.0025, 0.010},
	{"gpt-4o-mini", 0.00015, 0.0006},
	{"gpt-4-turbo", 0.010, 0.030},
	{"gpt-4", 0.030, 0.060},
	{"gpt-3.5-turbo", 0.0005, 0.0015},
}

// CalcCost prices one call in USD, rounded to 8 decimals. Unknown
// models cost zero and log a warning so typos surface without
// breaking recording.
func CalcCost(modelID string, inputTokens, outputTokens int64) float64 {
	price, ok := lookupPrice(modelID)
	if !ok {
		slog.Warn("Unknown model, recording zero cost", "model", modelID)
		return 0
	}
	cost := float64(inputTokens)/1000*price.input + float64(outputTokens)/1000*price.output
	return math.Round(cost*1e8) / 1e8
}

// KnownModels returns the priced model ids in table order.
func KnownModels() []string {
	ids := make([]string, 0, len(priceTable))
	for _, p := range priceTable {
		ids = append(ids, p.id)
	}
	return ids
}

// lookupPrice resolves a model id to its price row: exact match first,
// then the first row related by substring in either direction, which
// lets dated ids like "gpt-4o-2024-08-06" find their family.
func lookupPrice(modelID string) (modelPrice, bool) {
	for _, p := range priceTable {
		if p.id == modelID {
			return p, true
		}
	}
	for _, p := range priceTable {
		if strings.Contains(modelID, p.id) || strings.Contains(p.id, modelID) {
			return p, true
		}
	}
	return modelPrice{}, false
}
