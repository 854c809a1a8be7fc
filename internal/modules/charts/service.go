// Package charts renders PNG line charts of stored price history.
package charts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/rs/zerolog"
	charts "github.com/vicanso/go-charts/v2"
)

const (
	chartWidth  = 1000
	chartHeight = 600
	xAxisSplits = 8
)

// PriceHistory serves daily price windows
type PriceHistory interface {
	History(ctx context.Context, ticker string, days int, end time.Time) ([]prices.DailyPrice, error)
}

// Service renders charts from price history
type Service struct {
	prices PriceHistory
	log    zerolog.Logger
}

// NewService creates a new chart service
func NewService(prices PriceHistory, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		log:    log.With().Str("service", "charts").Logger(),
	}
}

// PriceChart renders the ticker's close series with its EMA50 and EMA200
// overlays as a PNG.
func (s *Service) PriceChart(ctx context.Context, ticker string, days int) ([]byte, error) {
	rows, err := s.prices.History(ctx, ticker, days, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("charting %s needs at least two data points: %w", ticker, formulas.ErrInsufficientData)
	}

	labels := make([]string, len(rows))
	closes := make([]float64, len(rows))
	ema50 := make([]float64, len(rows))
	ema200 := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.Date
		closes[i] = row.Close
		// Early rows without a smoothed value fall back to the close so
		// the overlay stays drawable.
		ema50[i] = derefOr(row.EMA50, row.Close)
		ema200[i] = derefOr(row.EMA200, row.Close)
	}

	yMin, yMax := paddedRange(closes)
	names := []string{ticker, "EMA50", "EMA200"}

	seriesList := charts.NewSeriesListDataFromValues([][]float64{closes, ema50, ema200}, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(ticker),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: xAxisSplits}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render price chart: %w", err)
	}
	return painter.Bytes()
}

// CompareChart renders the cumulative yield of several tickers on one
// normalized percentage axis, aligned over their shared trading days.
func (s *Service) CompareChart(ctx context.Context, tickers []string, days int) ([]byte, error) {
	if len(tickers) < 2 {
		return nil, fmt.Errorf("comparison needs at least two tickers: %w", formulas.ErrInvalidArgument)
	}

	seriesByTicker := make([]map[string]float64, len(tickers))
	for i, ticker := range tickers {
		rows, err := s.prices.History(ctx, ticker, days, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("failed to load history for %s: %w", ticker, err)
		}
		byDate := make(map[string]float64, len(rows))
		for _, row := range rows {
			byDate[row.Date] = row.Close
		}
		seriesByTicker[i] = byDate
	}

	var shared []string
	for date := range seriesByTicker[0] {
		common := true
		for _, byDate := range seriesByTicker[1:] {
			if _, ok := byDate[date]; !ok {
				common = false
				break
			}
		}
		if common {
			shared = append(shared, date)
		}
	}
	sort.Strings(shared)
	if len(shared) < 2 {
		return nil, fmt.Errorf("tickers share only %d trading days: %w", len(shared), formulas.ErrInsufficientData)
	}

	columns := make(map[string][]float64, len(tickers))
	for i, ticker := range tickers {
		aligned := make([]float64, len(shared))
		for j, date := range shared {
			aligned[j] = seriesByTicker[i][date]
		}
		columns[ticker] = aligned
	}

	yields, err := formulas.CumulativeYieldTable(columns, formulas.MethodSimple)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, len(tickers))
	var flat []float64
	for i, ticker := range tickers {
		values[i] = yields[ticker]
		flat = append(flat, yields[ticker]...)
	}
	yMin, yMax := paddedRange(flat)

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = tickers[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Cumulative yield %"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: shared, BoundaryGap: charts.FalseFlag(), SplitNumber: xAxisSplits}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: tickers}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render comparison chart: %w", err)
	}
	return painter.Bytes()
}

func derefOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func paddedRange(values []float64) (float64, float64) {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	pad := (max - min) * 0.05
	if pad == 0 {
		pad = 1
	}
	return min - pad, max + pad
}
