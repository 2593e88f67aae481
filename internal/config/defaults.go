package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults for every tunable valet reads from configuration. The won
// budget is 50,000원 a month with a warning at 80%.
const (
	DefaultBudgetLimitKRW = 50000.0
	DefaultBudgetWarnPct  = 80.0

	DefaultExchangeURL      = "https://open.er-api.com/v6/latest/USD"
	DefaultExchangeFallback = 1380.0

	DefaultServeHost = "0.0.0.0"
	DefaultServePort = 5050

	DefaultAPIBaseURL = "http://localhost:5050"
)

// SetDefaults registers a default for every config key valet reads.
// Config file values, environment variables, and flags all override
// these.
func SetDefaults() {
	viper.SetDefault("ledger.path", filepath.Join(DataDir(), "usage.db"))
	viper.SetDefault("ledger.project", "default")

	viper.SetDefault("budget.limit_krw", DefaultBudgetLimitKRW)
	viper.SetDefault("budget.warn_pct", DefaultBudgetWarnPct)

	viper.SetDefault("exchange.url", DefaultExchangeURL)
	viper.SetDefault("exchange.fallback_rate", DefaultExchangeFallback)
	viper.SetDefault("exchange.cache_path", filepath.Join(CacheDir(), "exchange-rate.json"))

	viper.SetDefault("rules.path", filepath.Join(Dir(), "rules.yaml"))

	viper.SetDefault("serve.host", DefaultServeHost)
	viper.SetDefault("serve.port", DefaultServePort)

	viper.SetDefault("api.base_url", DefaultAPIBaseURL)

	viper.SetDefault("drive.token_path", filepath.Join(Dir(), "drive-token.json"))
}
