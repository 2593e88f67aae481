package model

import "time"

// UsageRecord is one recorded API call: the tokens spent and the cost
// they priced out to at record time.
type UsageRecord struct {
	Timestamp    time.Time
	Project      string
	Model        string
	ID           int64
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// ModelUsage aggregates recorded calls for a single model.
type ModelUsage struct {
	Model        string
	Calls        int64
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// ProjectUsage aggregates recorded calls for a single project.
type ProjectUsage struct {
	Project string
	Calls   int64
	CostUSD float64
}

// DailyUsage is one day's spend within a reporting window.
type DailyUsage struct {
	Date    string
	Calls   int64
	CostUSD float64
}

// BudgetStatus classifies monthly spend against the configured limit.
type BudgetStatus string

// Budget statuses, ordered from comfortable to blown.
const (
	BudgetOK   BudgetStatus = "ok"
	BudgetWarn BudgetStatus = "warn"
	BudgetOver BudgetStatus = "over"
)

// Amount is a cost expressed in both currencies as the cost API serves
// it. KRWFmt carries the won display string ("12,345원").
type Amount struct {
	KRWFmt string  `json:"krw_fmt"`
	USD    float64 `json:"usd"`
	KRW    float64 `json:"krw"`
}

// Budget reports where monthly spend sits against the configured
// limit.
type Budget struct {
	Status   BudgetStatus `json:"status"`
	LimitKRW float64      `json:"limit_krw"`
	UsedPct  float64      `json:"used_pct"`
}

// CostSummary is the /api/cost/summary payload.
type CostSummary struct {
	Timestamp    string  `json:"timestamp"`
	Today        Amount  `json:"today"`
	Monthly      Amount  `json:"monthly"`
	AllTime      Amount  `json:"alltime"`
	Budget       Budget  `json:"budget"`
	ExchangeRate float64 `json:"exchange_rate"`
}

// ModelCost is one model's row in the /api/cost/models payload.
type ModelCost struct {
	Model        string  `json:"model"`
	CostKRWFmt   string  `json:"cost_krw_fmt"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	CostKRW      float64 `json:"cost_krw"`
}

// ModelCosts is the /api/cost/models payload.
type ModelCosts struct {
	Models       []ModelCost `json:"models"`
	ExchangeRate float64     `json:"exchange_rate"`
}
