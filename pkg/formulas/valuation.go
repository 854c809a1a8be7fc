package formulas

import (
	"fmt"
	"math"
	"time"
)

// EPSReport is a single earnings-per-share figure. Quarterly reports
// carry the year they belong to; YearlyEPS sums them per year.
type EPSReport struct {
	Year int
	EPS  float64
}

// YearlyEPS aggregates report rows into one EPS figure per year.
// Multiple rows for the same year (quarterly reports) are summed.
func YearlyEPS(reports []EPSReport) map[int]float64 {
	yearly := make(map[int]float64, len(reports))
	for _, r := range reports {
		yearly[r.Year] += r.EPS
	}
	return yearly
}

// HistoricPERatio computes the price-to-earnings ratio of each price
// observation against the most recent annual EPS available at or
// before that observation's year.
//
// Args:
//
//	dates: Observation dates, aligned with closes
//	closes: Closing prices
//	eps: Annual EPS figures keyed by year (see YearlyEPS)
//
// Returns:
//
//	P/E per observation. EPS years are forward-filled across gaps but
//	never looked up ahead: observations before the first EPS year are
//	NaN, as are ratios against a zero EPS (infinities are sanitized to
//	NaN). Fails with ErrInvalidArgument when dates and closes differ in
//	length and with ErrInsufficientData when no EPS figures are given.
func HistoricPERatio(dates []time.Time, closes []float64, eps map[int]float64) ([]float64, error) {
	if len(dates) != len(closes) {
		return nil, fmt.Errorf("dates (%d) and closes (%d) must have the same length: %w",
			len(dates), len(closes), ErrInvalidArgument)
	}
	if len(eps) == 0 {
		return nil, fmt.Errorf("at least one annual EPS figure is required: %w", ErrInsufficientData)
	}

	minYear, maxYear := epsYearBounds(eps)
	for _, d := range dates {
		if y := d.Year(); y > maxYear {
			maxYear = y
		}
	}

	// Forward-fill EPS over the continuous year range so every
	// observation year maps to the last reported figure.
	filled := make(map[int]float64, maxYear-minYear+1)
	last := math.NaN()
	for y := minYear; y <= maxYear; y++ {
		if v, ok := eps[y]; ok {
			last = v
		}
		filled[y] = last
	}

	out := make([]float64, len(closes))
	for i, d := range dates {
		e, ok := filled[d.Year()]
		if !ok || math.IsNaN(e) {
			out[i] = math.NaN()
			continue
		}
		ratio := closes[i] / e
		if math.IsInf(ratio, 0) {
			ratio = math.NaN()
		}
		out[i] = ratio
	}
	return out, nil
}

// ForwardPERatio computes price divided by a forward EPS estimate.
// Estimates at or below zero have no meaningful valuation and yield NaN.
func ForwardPERatio(currentPrice, forwardEPS float64) float64 {
	if forwardEPS <= 0 {
		return math.NaN()
	}
	return currentPrice / forwardEPS
}

// ForwardPERatioSeries computes forward P/E elementwise over aligned
// price and estimate series. Entries with estimates at or below zero
// are NaN. Fails with ErrInvalidArgument on length mismatch.
func ForwardPERatioSeries(prices, forwardEPS []float64) ([]float64, error) {
	if len(prices) != len(forwardEPS) {
		return nil, fmt.Errorf("prices (%d) and forward EPS (%d) must have the same length: %w",
			len(prices), len(forwardEPS), ErrInvalidArgument)
	}

	out := make([]float64, len(prices))
	for i := range prices {
		out[i] = ForwardPERatio(prices[i], forwardEPS[i])
	}
	return out, nil
}

func epsYearBounds(eps map[int]float64) (minYear, maxYear int) {
	first := true
	for y := range eps {
		if first {
			minYear, maxYear = y, y
			first = false
			continue
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	return minYear, maxYear
}
