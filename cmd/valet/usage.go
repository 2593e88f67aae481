package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/cli"
	"github.com/yjpartners/valet/internal/costapi"
	"github.com/yjpartners/valet/internal/ledger"
	"github.com/yjpartners/valet/internal/model"
)

func usageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Track what the AI models are costing",
		Long: `💸 API Usage Ledger

Every model call lands in a local SQLite ledger. Record calls as they
happen, then pull reports in dollars and won with budget tracking.`,
	}

	// Add subcommands
	cmd.AddCommand(usageRecordCmd())
	cmd.AddCommand(usageReportCmd())
	cmd.AddCommand(usageHistoryCmd())

	return cmd
}

func usageRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one model call",
		Long: `Record a single API call in the ledger. Cost is computed from the
built-in price table; unknown models record at zero cost.`,
		RunE: runUsageRecord,
	}

	// Flags
	cmd.Flags().StringP("model", "m", "", "model identifier (required)")
	cmd.Flags().Int64P("input", "i", 0, "input tokens")
	cmd.Flags().Int64P("output", "o", 0, "output tokens")
	cmd.Flags().StringP("project", "p", "", "project label (default: configured ledger.project)")
	_ = cmd.MarkFlagRequired("model")

	// Bind to viper
	_ = viper.BindPFlag("usage.model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("usage.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("usage.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("usage.project", cmd.Flags().Lookup("project"))

	return cmd
}

func runUsageRecord(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	l, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	project := viper.GetString("usage.project")
	if project == "" {
		project = viper.GetString("ledger.project")
	}

	modelID := viper.GetString("usage.model")
	in := viper.GetInt64("usage.input")
	out := viper.GetInt64("usage.output")

	cost, err := l.Record(ctx, project, modelID, in, out)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s: %d in / %d out = $%.6f", modelID, in, out, cost)))
	return nil
}

func usageReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the spend dashboard",
		Long:  `Today, this month, and all-time spend, the budget position, and per-model and per-project breakdowns.`,
		RunE:  runUsageReport,
	}
}

func runUsageReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	l, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	today, err := l.TodayTotal(ctx)
	if err != nil {
		return fmt.Errorf("failed to total today's spend: %w", err)
	}
	monthly, err := l.MonthlyTotal(ctx)
	if err != nil {
		return fmt.Errorf("failed to total this month's spend: %w", err)
	}
	allTime, err := l.AllTimeTotal(ctx)
	if err != nil {
		return fmt.Errorf("failed to total all-time spend: %w", err)
	}

	rate := newExchangeClient().Rate(ctx)
	limit := viper.GetFloat64("budget.limit_krw")
	pct := ledger.BudgetPct(monthly, rate, limit)
	status := ledger.BudgetStatusFor(pct, viper.GetFloat64("budget.warn_pct"))

	content := strings.Join([]string{
		fmt.Sprintf("Today:       $%.4f  %s", today, costapi.FormatKRW(today, rate)),
		fmt.Sprintf("This month:  $%.4f  %s", monthly, costapi.FormatKRW(monthly, rate)),
		fmt.Sprintf("All time:    $%.4f  %s", allTime, costapi.FormatKRW(allTime, rate)),
		"",
		budgetLine(pct, limit, status),
		cli.SubtleStyle.Render(fmt.Sprintf("Exchange rate: %.2f KRW/USD", rate)),
	}, "\n")

	slog.Info(cli.RenderBox(cli.MoneyIcon+" API Spend", content))

	models, err := l.ModelBreakdown(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to break down models: %w", err)
	}
	if len(models) > 0 {
		fmt.Println(cli.SubtitleStyle.Render(cli.ChartIcon + " By model (all time)"))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "MODEL\tCALLS\tIN/OUT TOKENS\tUSD\tKRW\n")
		for _, mu := range models {
			fmt.Fprintf(w, "%s\t%d\t%d/%d\t$%.4f\t%s\n",
				mu.Model, mu.Calls, mu.InputTokens, mu.OutputTokens,
				mu.CostUSD, costapi.FormatKRW(mu.CostUSD, rate))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	projects, err := l.ProjectBreakdown(ctx)
	if err != nil {
		return fmt.Errorf("failed to break down projects: %w", err)
	}
	if len(projects) > 1 {
		fmt.Println()
		fmt.Println(cli.SubtitleStyle.Render("By project"))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "PROJECT\tCALLS\tUSD\n")
		for _, pu := range projects {
			fmt.Fprintf(w, "%s\t%d\t$%.4f\n", pu.Project, pu.Calls, pu.CostUSD)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func budgetLine(pct, limit float64, status model.BudgetStatus) string {
	line := fmt.Sprintf("Budget: %.1f%% of %s", pct, costapi.FormatKRW(limit, 1))

	switch status {
	case model.BudgetOver:
		return cli.StyleError(line + " — over budget!")
	case model.BudgetWarn:
		return cli.StyleWarning(line + " — nearly there")
	default:
		return cli.StyleSuccess(line)
	}
}

func usageHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recorded calls",
		RunE:  runUsageHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "number of records to show")
	_ = viper.BindPFlag("usage.history_limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func runUsageHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	l, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	records, err := l.History(ctx, viper.GetInt("usage.history_limit"))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println(cli.InfoStyle.Render("No usage recorded yet. Use 'valet usage record' to add calls."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tPROJECT\tMODEL\tIN\tOUT\tUSD\n")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t$%.6f\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Project, r.Model, r.InputTokens, r.OutputTokens, r.CostUSD)
	}
	return w.Flush()
}
