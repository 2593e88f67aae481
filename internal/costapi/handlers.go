package costapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yjpartners/valet/internal/ledger"
	"github.com/yjpartners/valet/internal/model"
)

// periodModel is the per-model row inside the today and monthly
// responses.
type periodModel struct {
	Model        string  `json:"model"`
	Calls        int64   `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	CostKRW      float64 `json:"cost_krw"`
}

type todayResponse struct {
	Date         string        `json:"date"`
	TotalUSD     float64       `json:"total_usd"`
	TotalKRW     float64       `json:"total_krw"`
	TotalKRWFmt  string        `json:"total_krw_fmt"`
	Models       []periodModel `json:"models"`
	ExchangeRate float64       `json:"exchange_rate"`
}

type dailyRow struct {
	Date    string  `json:"date"`
	Calls   int64   `json:"calls"`
	CostUSD float64 `json:"cost_usd"`
	CostKRW float64 `json:"cost_krw"`
}

type monthlyResponse struct {
	Month          string             `json:"month"`
	TotalUSD       float64            `json:"total_usd"`
	TotalKRW       float64            `json:"total_krw"`
	TotalKRWFmt    string             `json:"total_krw_fmt"`
	BudgetLimitKRW float64            `json:"budget_limit_krw"`
	BudgetPct      float64            `json:"budget_pct"`
	BudgetStatus   model.BudgetStatus `json:"budget_status"`
	Models         []periodModel      `json:"models"`
	Daily          []dailyRow         `json:"daily"`
	ExchangeRate   float64            `json:"exchange_rate"`
}

type historyRow struct {
	ID           int64   `json:"id"`
	Timestamp    string  `json:"timestamp"`
	Project      string  `json:"project"`
	Model        string  `json:"model"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

type historyResponse struct {
	Records []historyRow `json:"records"`
	Count   int          `json:"count"`
}

type projectRow struct {
	Project string  `json:"project"`
	Calls   int64   `json:"calls"`
	CostUSD float64 `json:"cost_usd"`
	CostKRW float64 `json:"cost_krw"`
}

type projectsResponse struct {
	Projects     []projectRow `json:"projects"`
	ExchangeRate float64      `json:"exchange_rate"`
}

func (s *Server) handleBanner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "valet cost API",
		"endpoints": []string{
			"/api/cost/summary",
			"/api/cost/today",
			"/api/cost/monthly",
			"/api/cost/history",
			"/api/cost/models",
			"/api/cost/projects",
		},
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	ctx := c.Request.Context()

	today, err := s.ledger.TodayTotal(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	monthly, err := s.ledger.MonthlyTotal(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	allTime, err := s.ledger.AllTimeTotal(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	rate := s.rates.Rate(ctx)
	pct := ledger.BudgetPct(monthly, rate, s.cfg.BudgetLimitKRW)

	c.JSON(http.StatusOK, model.CostSummary{
		Timestamp: time.Now().Format(time.RFC3339),
		Today:     s.amount(today, rate),
		Monthly:   s.amount(monthly, rate),
		AllTime:   s.amount(allTime, rate),
		Budget: model.Budget{
			Status:   ledger.BudgetStatusFor(pct, s.cfg.BudgetWarnPct),
			LimitKRW: s.cfg.BudgetLimitKRW,
			UsedPct:  pct,
		},
		ExchangeRate: round2(rate),
	})
}

func (s *Server) handleToday(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()
	since := ledger.DayStart(now)

	total, err := s.ledger.SumSince(ctx, since)
	if err != nil {
		s.fail(c, err)
		return
	}
	breakdown, err := s.ledger.ModelBreakdown(ctx, since)
	if err != nil {
		s.fail(c, err)
		return
	}

	rate := s.rates.Rate(ctx)

	c.JSON(http.StatusOK, todayResponse{
		Date:         now.Format("2006-01-02"),
		TotalUSD:     round6(total),
		TotalKRW:     round0(total * rate),
		TotalKRWFmt:  FormatKRW(total, rate),
		Models:       periodModels(breakdown, rate),
		ExchangeRate: round2(rate),
	})
}

func (s *Server) handleMonthly(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()
	since := ledger.MonthStart(now)

	total, err := s.ledger.SumSince(ctx, since)
	if err != nil {
		s.fail(c, err)
		return
	}
	breakdown, err := s.ledger.ModelBreakdown(ctx, since)
	if err != nil {
		s.fail(c, err)
		return
	}
	daily, err := s.ledger.DailySince(ctx, since)
	if err != nil {
		s.fail(c, err)
		return
	}

	rate := s.rates.Rate(ctx)
	pct := ledger.BudgetPct(total, rate, s.cfg.BudgetLimitKRW)

	days := make([]dailyRow, 0, len(daily))
	for _, d := range daily {
		days = append(days, dailyRow{
			Date:    d.Date,
			Calls:   d.Calls,
			CostUSD: round6(d.CostUSD),
			CostKRW: round0(d.CostUSD * rate),
		})
	}

	c.JSON(http.StatusOK, monthlyResponse{
		Month:          now.Format("2006-01"),
		TotalUSD:       round6(total),
		TotalKRW:       round0(total * rate),
		TotalKRWFmt:    FormatKRW(total, rate),
		BudgetLimitKRW: s.cfg.BudgetLimitKRW,
		BudgetPct:      pct,
		BudgetStatus:   ledger.BudgetStatusFor(pct, s.cfg.BudgetWarnPct),
		Models:         periodModels(breakdown, rate),
		Daily:          days,
		ExchangeRate:   round2(rate),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := s.ledger.History(ctx, 50)
	if err != nil {
		s.fail(c, err)
		return
	}

	rows := make([]historyRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, historyRow{
			ID:           r.ID,
			Timestamp:    r.Timestamp.Format("2006-01-02 15:04:05"),
			Project:      r.Project,
			Model:        r.Model,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			CostUSD:      round6(r.CostUSD),
		})
	}

	c.JSON(http.StatusOK, historyResponse{Records: rows, Count: len(rows)})
}

func (s *Server) handleModels(c *gin.Context) {
	ctx := c.Request.Context()

	breakdown, err := s.ledger.ModelBreakdown(ctx, "")
	if err != nil {
		s.fail(c, err)
		return
	}

	rate := s.rates.Rate(ctx)

	rows := make([]model.ModelCost, 0, len(breakdown))
	for _, mu := range breakdown {
		rows = append(rows, model.ModelCost{
			Model:        mu.Model,
			CostKRWFmt:   FormatKRW(mu.CostUSD, rate),
			InputTokens:  mu.InputTokens,
			OutputTokens: mu.OutputTokens,
			CostUSD:      round6(mu.CostUSD),
			CostKRW:      round0(mu.CostUSD * rate),
		})
	}

	c.JSON(http.StatusOK, model.ModelCosts{
		Models:       rows,
		ExchangeRate: round2(rate),
	})
}

func (s *Server) handleProjects(c *gin.Context) {
	ctx := c.Request.Context()

	breakdown, err := s.ledger.ProjectBreakdown(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	rate := s.rates.Rate(ctx)

	rows := make([]projectRow, 0, len(breakdown))
	for _, pu := range breakdown {
		rows = append(rows, projectRow{
			Project: pu.Project,
			Calls:   pu.Calls,
			CostUSD: round6(pu.CostUSD),
			CostKRW: round0(pu.CostUSD * rate),
		})
	}

	c.JSON(http.StatusOK, projectsResponse{
		Projects:     rows,
		ExchangeRate: round2(rate),
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	slog.Error("Cost API query failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) amount(usd, rate float64) model.Amount {
	return model.Amount{
		KRWFmt: FormatKRW(usd, rate),
		USD:    round6(usd),
		KRW:    round0(usd * rate),
	}
}

func periodModels(breakdown []model.ModelUsage, rate float64) []periodModel {
	rows := make([]periodModel, 0, len(breakdown))
	for _, mu := range breakdown {
		rows = append(rows, periodModel{
			Model:        mu.Model,
			Calls:        mu.Calls,
			InputTokens:  mu.InputTokens,
			OutputTokens: mu.OutputTokens,
			CostUSD:      round6(mu.CostUSD),
			CostKRW:      round0(mu.CostUSD * rate),
		})
	}
	return rows
}
