package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/aristath/riskboard/internal/modules/analysis"
	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	rows        []prices.DailyPrice
	lastDays    int
	lastEnd     time.Time
	lastTickers []string
}

func (s *stubHistory) History(ctx context.Context, ticker string, days int, end time.Time) ([]prices.DailyPrice, error) {
	s.lastTickers = append(s.lastTickers, ticker)
	s.lastDays = days
	s.lastEnd = end
	return s.rows, nil
}

type stubQuotes struct{}

func (s *stubQuotes) GetQuote(ctx context.Context, ticker string) (*marketdata.Quote, error) {
	price := 105.0
	eps := 7.0
	return &marketdata.Quote{Symbol: ticker, Price: &price, ForwardEPS: &eps}, nil
}

type stubEPS struct{}

func (s *stubEPS) EPSByYear(ctx context.Context, ticker string) (map[int]float64, error) {
	return map[int]float64{2024: 5.0}, nil
}

func sampleRows() []prices.DailyPrice {
	volume := int64(1500)
	return []prices.DailyPrice{
		{Ticker: "AAPL", Date: "2024-01-02", Open: 99, High: 103, Low: 98, Close: 100, Volume: &volume},
		{Ticker: "AAPL", Date: "2024-01-03", Open: 100, High: 106, Low: 99, Close: 104, Volume: &volume},
	}
}

func setupRouter(source *stubHistory) *chi.Mux {
	service := analysis.NewService(source, &stubQuotes{}, &stubEPS{}, zerolog.Nop())
	handler := NewHandler(service, zerolog.Nop())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func getJSON(t *testing.T, router *chi.Mux, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestMetricsEndpoint(t *testing.T) {
	source := &stubHistory{rows: sampleRows()}
	router := setupRouter(source)

	rec, envelope := getJSON(t, router, "/api/tickers/aapl?days=90")

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "AAPL", data["ticker"], "ticker should be upper-cased")
	assert.Equal(t, 104.0, data["latest_price"])
	assert.Equal(t, 2.0, data["record_count"])
	assert.Equal(t, 90, source.lastDays)
}

func TestHistoryEndpoint(t *testing.T) {
	source := &stubHistory{rows: sampleRows()}
	router := setupRouter(source)

	rec, envelope := getJSON(t, router, "/api/tickers/AAPL/history?days=30&end=2024-01-03")

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "2024-01-02", first["date"])
	assert.Equal(t, 30, source.lastDays)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), source.lastEnd)
}

func TestHistoryEndpointRejectsBadEnd(t *testing.T) {
	router := setupRouter(&stubHistory{rows: sampleRows()})

	rec, envelope := getJSON(t, router, "/api/tickers/AAPL/history?end=tomorrow")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "invalid_argument", errObj["kind"])
}

func TestIndicatorsEndpoint(t *testing.T) {
	rows := make([]prices.DailyPrice, 30)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = prices.DailyPrice{
			Ticker: "AAPL",
			Date:   day.AddDate(0, 0, i).Format("2006-01-02"),
			Close:  100 + float64(i),
		}
	}
	router := setupRouter(&stubHistory{rows: rows})

	rec, envelope := getJSON(t, router, "/api/tickers/AAPL/indicators?window=5")

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, 5.0, data["window"])

	wma := data["wma"].([]any)
	require.Len(t, wma, 30)
	assert.Nil(t, wma[0])
	assert.NotNil(t, wma[4])
}

func TestIndicatorsEndpointNoHistory(t *testing.T) {
	router := setupRouter(&stubHistory{})

	rec, envelope := getJSON(t, router, "/api/tickers/GHOST/indicators")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "insufficient_data", errObj["kind"])
}

func TestValuationEndpoint(t *testing.T) {
	router := setupRouter(&stubHistory{rows: sampleRows()})

	rec, envelope := getJSON(t, router, "/api/tickers/AAPL/valuation")

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, 105.0, data["current_price"])
	assert.Equal(t, 7.0, data["forward_eps"])
	assert.InDelta(t, 15.0, data["forward_pe"].(float64), 1e-9)

	historic := data["historic_pe"].([]any)
	require.Len(t, historic, 2)
	assert.InDelta(t, 20.0, historic[0].(float64), 1e-9)
}
