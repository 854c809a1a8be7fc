package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/aristath/riskboard/internal/database"
	"github.com/aristath/riskboard/internal/modules/analysis"
	"github.com/aristath/riskboard/internal/modules/charts"
	"github.com/aristath/riskboard/internal/modules/financials"
	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/aristath/riskboard/internal/modules/quiz"
	"github.com/aristath/riskboard/internal/modules/risk"
)

type stubBars struct{}

func (stubBars) GetDailyBars(context.Context, string, time.Time, time.Time) ([]marketdata.DailyBar, error) {
	return nil, marketdata.ErrNoData
}

type stubQuotes struct{}

func (stubQuotes) GetQuote(context.Context, string) (*marketdata.Quote, error) {
	return nil, marketdata.ErrNoData
}

type stubFundamentals struct{}

func (stubFundamentals) GetYearlyFinancials(context.Context, string) ([]marketdata.YearlyFinancials, error) {
	return nil, marketdata.ErrNoData
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zerolog.Nop()

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "riskboard.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pricesService := prices.NewService(
		prices.NewRepository(db.Conn(), logger),
		prices.NewCache(db.Conn(), logger),
		stubBars{},
		logger,
	)
	financialsService := financials.NewService(
		financials.NewRepository(db.Conn(), logger),
		stubFundamentals{},
		logger,
	)

	return New(Config{
		Log:        logger,
		DB:         db,
		Port:       0,
		DevMode:    true,
		Risk:       risk.NewService(pricesService, logger),
		Analysis:   analysis.NewService(pricesService, stubQuotes{}, financialsService, logger),
		Charts:     charts.NewService(pricesService, logger),
		Financials: financialsService,
		Quiz:       quiz.NewService(quiz.NewRepository(db.Conn(), logger), logger),
	})
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"service":"riskboard"`)
}

func TestSystemStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/api/system/status")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"status":"healthy"`)
	assert.Contains(t, body, `"uptime_seconds"`)
	assert.Contains(t, body, `"cpu_percent"`)
	assert.Contains(t, body, `"price_rows":0`)
	assert.Contains(t, body, `"timestamp"`)
}

func TestDashboardServedAtRoot(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "RISKBOARD")
}

func TestUnknownPathFallsBackToDashboard(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/some/client/route")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestUnknownAPIPathStays404(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/api/does-not-exist")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModuleRoutesAreWired(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/quiz/questions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "describe you as a risk taker")

	req := httptest.NewRequest(http.MethodPost, "/api/risk/var",
		strings.NewReader(`{"returns":[0.01,-0.02,0.015,-0.01,0.02]}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"historical_var"`)
	assert.Contains(t, rec.Body.String(), `"parametric_var"`)
}

func TestRequestsWithoutHistoryReport502(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/api/tickers/AAPL")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream_unavailable")
}
