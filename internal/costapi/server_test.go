package costapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjpartners/valet/internal/ledger"
	"github.com/yjpartners/valet/internal/testutil"
)

// fixedRate is a RateSource pinned to a constant for deterministic
// KRW math.
type fixedRate float64

func (f fixedRate) Rate(context.Context) float64 { return float64(f) }

func newTestServer(t *testing.T, rate, limitKRW float64) (*Server, *ledger.Ledger) {
	t.Helper()

	l := testutil.SetupLedger(t)
	s := New(l, fixedRate(rate), Config{
		Host:           "127.0.0.1",
		Port:           0,
		BudgetLimitKRW: limitKRW,
		BudgetWarnPct:  80,
	})
	return s, l
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSummary(t *testing.T) {
	s, l := newTestServer(t, 1400, 200000)

	// 1M in + 1M out on gpt-4 costs $90.
	testutil.SeedUsage(t, l, time.Now(), "default", "gpt-4", 1_000_000, 1_000_000)

	w := get(t, s, "/api/cost/summary")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)

	today := body["today"].(map[string]any)
	assert.InDelta(t, 90.0, today["usd"], 1e-9)
	assert.InDelta(t, 126000.0, today["krw"], 1e-9)
	assert.Equal(t, "126,000원", today["krw_fmt"])

	monthly := body["monthly"].(map[string]any)
	assert.InDelta(t, 90.0, monthly["usd"], 1e-9)

	allTime := body["alltime"].(map[string]any)
	assert.InDelta(t, 90.0, allTime["usd"], 1e-9)

	budget := body["budget"].(map[string]any)
	assert.Equal(t, "ok", budget["status"])
	assert.InDelta(t, 200000.0, budget["limit_krw"], 1e-9)
	assert.InDelta(t, 63.0, budget["used_pct"], 1e-9)

	assert.InDelta(t, 1400.0, body["exchange_rate"], 1e-9)
	assert.NotEmpty(t, body["timestamp"])
}

func TestSummary_BudgetStatusBoundaries(t *testing.T) {
	// $90 at rate 1000 is 90,000 KRW of monthly spend.
	tests := []struct {
		name     string
		limitKRW float64
		wantPct  float64
		want     string
	}{
		{name: "under warn threshold", limitKRW: 112613, wantPct: 79.9, want: "ok"},
		{name: "at warn threshold", limitKRW: 112500, wantPct: 80.0, want: "warn"},
		{name: "at limit", limitKRW: 90000, wantPct: 100.0, want: "over"},
		{name: "past limit", limitKRW: 45000, wantPct: 200.0, want: "over"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, l := newTestServer(t, 1000, tt.limitKRW)
			testutil.SeedUsage(t, l, time.Now(), "default", "gpt-4", 1_000_000, 1_000_000)

			body := decode(t, get(t, s, "/api/cost/summary"))
			budget := body["budget"].(map[string]any)

			assert.InDelta(t, tt.wantPct, budget["used_pct"], 1e-9)
			assert.Equal(t, tt.want, budget["status"])
		})
	}
}

func TestToday_ExcludesEarlierDays(t *testing.T) {
	s, l := newTestServer(t, 1000, 50000)

	now := time.Now()
	testutil.SeedUsage(t, l, now, "default", "gpt-4o", 1000, 1000)
	testutil.SeedUsage(t, l, now.AddDate(0, 0, -1), "default", "gpt-4", 1_000_000, 1_000_000)

	body := decode(t, get(t, s, "/api/cost/today"))

	assert.Equal(t, now.Format("2006-01-02"), body["date"])
	assert.InDelta(t, 0.0125, body["total_usd"], 1e-9)
	assert.InDelta(t, 13.0, body["total_krw"], 1e-9)
	assert.Equal(t, "12.5원", body["total_krw_fmt"])

	models := body["models"].([]any)
	require.Len(t, models, 1)
	assert.Equal(t, "gpt-4o", models[0].(map[string]any)["model"])
}

func TestMonthly(t *testing.T) {
	s, l := newTestServer(t, 1000, 100000)

	now := time.Now()
	testutil.SeedUsage(t, l, now, "default", "gpt-4", 1_000_000, 1_000_000)
	testutil.SeedUsage(t, l, now, "default", "gpt-4o-mini", 1000, 1000)

	body := decode(t, get(t, s, "/api/cost/monthly"))

	assert.Equal(t, now.Format("2006-01"), body["month"])
	assert.InDelta(t, 90.00075, body["total_usd"], 1e-9)
	assert.InDelta(t, 100000.0, body["budget_limit_krw"], 1e-9)
	assert.InDelta(t, 90.0, body["budget_pct"], 1e-9)
	assert.Equal(t, "warn", body["budget_status"])

	models := body["models"].([]any)
	require.Len(t, models, 2)
	assert.Equal(t, "gpt-4", models[0].(map[string]any)["model"])
	assert.InDelta(t, 1, models[0].(map[string]any)["calls"], 1e-9)

	daily := body["daily"].([]any)
	require.Len(t, daily, 1)
	day := daily[0].(map[string]any)
	assert.Equal(t, now.Format("2006-01-02"), day["date"])
	assert.InDelta(t, 2, day["calls"], 1e-9)
}

func TestHistory_NewestFirstCappedAt50(t *testing.T) {
	s, l := newTestServer(t, 1000, 50000)

	for i := 1; i <= 55; i++ {
		testutil.SeedUsage(t, l, time.Now(), fmt.Sprintf("project-%d", i), "gpt-4o", 100, 100)
	}

	body := decode(t, get(t, s, "/api/cost/history"))

	assert.InDelta(t, 50, body["count"], 1e-9)
	records := body["records"].([]any)
	require.Len(t, records, 50)

	first := records[0].(map[string]any)
	assert.Equal(t, "project-55", first["project"])
	assert.InDelta(t, 55, first["id"], 1e-9)

	_, err := time.Parse("2006-01-02 15:04:05", first["timestamp"].(string))
	assert.NoError(t, err)
}

func TestModels_AllTime(t *testing.T) {
	s, l := newTestServer(t, 1400, 50000)

	old := time.Date(2020, 1, 15, 9, 0, 0, 0, time.Local)
	testutil.SeedUsage(t, l, old, "default", "gpt-4", 1_000_000, 1_000_000)
	testutil.SeedUsage(t, l, time.Now(), "default", "gpt-4o", 1000, 1000)

	body := decode(t, get(t, s, "/api/cost/models"))

	models := body["models"].([]any)
	require.Len(t, models, 2)

	top := models[0].(map[string]any)
	assert.Equal(t, "gpt-4", top["model"])
	assert.InDelta(t, 90.0, top["cost_usd"], 1e-9)
	assert.InDelta(t, 126000.0, top["cost_krw"], 1e-9)
	assert.Equal(t, "126,000원", top["cost_krw_fmt"])
}

func TestModels_EmptySerializesAsArray(t *testing.T) {
	s, _ := newTestServer(t, 1400, 50000)

	w := get(t, s, "/api/cost/models")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"models":[]`)
}

func TestProjects(t *testing.T) {
	s, l := newTestServer(t, 1000, 50000)

	testutil.SeedUsage(t, l, time.Now(), "tax-archive", "gpt-4", 1_000_000, 1_000_000)
	testutil.SeedUsage(t, l, time.Now(), "inbox", "gpt-4o", 1000, 1000)

	body := decode(t, get(t, s, "/api/cost/projects"))

	projects := body["projects"].([]any)
	require.Len(t, projects, 2)
	assert.Equal(t, "tax-archive", projects[0].(map[string]any)["project"])
	assert.Equal(t, "inbox", projects[1].(map[string]any)["project"])
}

func TestBanner(t *testing.T) {
	s, _ := newTestServer(t, 1400, 50000)

	w := get(t, s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/cost/summary")
}

func TestCORSHeaders(t *testing.T) {
	s, _ := newTestServer(t, 1400, 50000)

	w := get(t, s, "/api/cost/summary")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/cost/summary", nil)
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFormatKRW(t *testing.T) {
	tests := []struct {
		name string
		usd  float64
		rate float64
		want string
	}{
		{name: "grouped above one thousand", usd: 1, rate: 1400, want: "1,400원"},
		{name: "large amount", usd: 90, rate: 1400, want: "126,000원"},
		{name: "one decimal below one thousand", usd: 0.5, rate: 1000, want: "500.0원"},
		{name: "small amount", usd: 0.0125, rate: 1400, want: "17.5원"},
		{name: "just under the threshold", usd: 0.9999, rate: 1000, want: "999.9원"},
		{name: "zero", usd: 0, rate: 1400, want: "0.0원"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKRW(tt.usd, tt.rate))
		})
	}
}
