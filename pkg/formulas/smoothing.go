package formulas

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
)

// WeightedMovingAverage smooths a series over a trailing window.
//
// Args:
//
//	series: Ordered observations, oldest first
//	window: Trailing window size, at least 1
//	weights: Optional explicit weights, most-recent-first; nil selects
//	  linearly increasing weights (most recent observation heaviest)
//	  normalized to sum to 1 over the window
//
// Returns:
//
//	A series aligned to the input length. The first window-1 slots have
//	insufficient history and stay NaN. Explicit weights must have
//	exactly window elements, else ErrInvalidArgument.
func WeightedMovingAverage(series []float64, window int, weights []float64) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("window size must be at least 1, got %d: %w", window, ErrInvalidArgument)
	}
	if weights != nil && len(weights) != window {
		return nil, fmt.Errorf("length of weights (%d) must match window size (%d): %w",
			len(weights), window, ErrInvalidArgument)
	}

	out := make([]float64, len(series))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(series) < window {
		return out, nil
	}

	if weights == nil {
		// Linearly increasing weights are exactly the classic WMA.
		wma := talib.Wma(series, window)
		copy(out[window-1:], wma[window-1:])
		return out, nil
	}

	// weights[0] applies to the most recent observation in the window.
	for i := window - 1; i < len(series); i++ {
		sum := 0.0
		for j := 0; j < window; j++ {
			sum += weights[j] * series[i-j]
		}
		out[i] = sum
	}
	return out, nil
}

// ExponentialWeightedMovingAverage smooths a series with exponentially
// decaying weights.
//
// Args:
//
//	series: Ordered observations, oldest first
//	window: Span used to derive alpha when none is given, at least 1
//	alpha: Optional smoothing factor in (0, 1]; nil derives the
//	  conventional alpha = 2/(window+1)
//
// Returns:
//
//	The recurrence ewma[0] = series[0],
//	ewma[i] = alpha*series[i] + (1-alpha)*ewma[i-1], aligned to the
//	input length.
func ExponentialWeightedMovingAverage(series []float64, window int, alpha *float64) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("window size must be at least 1, got %d: %w", window, ErrInvalidArgument)
	}

	a := 2.0 / (float64(window) + 1.0)
	if alpha != nil {
		if *alpha <= 0 || *alpha > 1 {
			return nil, fmt.Errorf("alpha must be between 0 and 1, got %v: %w", *alpha, ErrInvalidArgument)
		}
		a = *alpha
	}

	out := make([]float64, len(series))
	if len(series) == 0 {
		return out, nil
	}

	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = a*series[i] + (1-a)*out[i-1]
	}
	return out, nil
}

// CumulativeYield computes the total percentage return of each
// observation relative to the first one.
//
// Args:
//
//	prices: Ordered price observations, oldest first
//	method: "simple" for (p[i]-p[0])/p[0]*100, "log" for
//	  (exp(cumsum(log returns)) - 1) * 100
//
// Returns:
//
//	A series aligned to the input length whose first element is exactly
//	0. Fails with ErrInvalidArgument for an unknown method.
func CumulativeYield(prices []float64, method string) ([]float64, error) {
	if method != MethodSimple && method != MethodLog {
		return nil, fmt.Errorf("method must be either 'simple' or 'log', got %q: %w", method, ErrInvalidArgument)
	}

	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out, nil
	}
	out[0] = 0

	if method == MethodSimple {
		base := prices[0]
		for i := 1; i < len(prices); i++ {
			out[i] = (prices[i] - base) / base * 100
		}
		return out, nil
	}

	cumulative := 0.0
	for i := 1; i < len(prices); i++ {
		cumulative += math.Log(prices[i] / prices[i-1])
		out[i] = (math.Exp(cumulative) - 1) * 100
	}
	return out, nil
}

// CumulativeYieldTable applies CumulativeYield independently to each
// column of a table of price series, each column using its own first
// value as baseline. The input map is not modified.
func CumulativeYieldTable(columns map[string][]float64, method string) (map[string][]float64, error) {
	if method != MethodSimple && method != MethodLog {
		return nil, fmt.Errorf("method must be either 'simple' or 'log', got %q: %w", method, ErrInvalidArgument)
	}

	out := make(map[string][]float64, len(columns))
	for name, prices := range columns {
		yields, err := CumulativeYield(prices, method)
		if err != nil {
			return nil, err
		}
		out[name] = yields
	}
	return out, nil
}
