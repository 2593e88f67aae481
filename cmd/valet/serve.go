package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/cli"
	"github.com/yjpartners/valet/internal/common"
	"github.com/yjpartners/valet/internal/config"
	"github.com/yjpartners/valet/internal/costapi"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cost API",
		Long: `Run the read-only JSON API over the usage ledger. The status
widget and any embedded dashboard poll it for summaries, breakdowns,
and the budget position.`,
		RunE: runServe,
	}

	// Flags
	cmd.Flags().String("host", config.DefaultServeHost, "listen host")
	cmd.Flags().Int("port", config.DefaultServePort, "listen port")

	// Bind to viper
	_ = viper.BindPFlag("serve.host", cmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("serve.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	port := viper.GetInt("serve.port")
	if port < 1 || port > 65535 {
		return common.NewUserError(
			fmt.Sprintf("serve.port must be between 1 and 65535, got %d", port),
			common.ErrInvalidConfig,
		)
	}

	l, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := costapi.New(l, newExchangeClient(), costapi.Config{
		Host:           viper.GetString("serve.host"),
		Port:           port,
		BudgetLimitKRW: viper.GetFloat64("budget.limit_krw"),
		BudgetWarnPct:  viper.GetFloat64("budget.warn_pct"),
	})

	slog.Info(cli.FormatTitle("Cost API at your service"))
	return srv.Run(ctx)
}
