package formulas

import (
	"fmt"
	"math"
)

// Return and VaR method identifiers accepted by the engines.
const (
	MethodLog        = "log"
	MethodSimple     = "simple"
	MethodHistorical = "historical"
	MethodParametric = "parametric"
)

// CalculateReturns converts a price series into a return series.
//
// Args:
//
//	prices: Ordered price observations, oldest first
//	method: "log" for ln(p[i]/p[i-1]), "simple" for p[i]/p[i-1] - 1
//
// Returns:
//
//	A series of the same length as prices. Index 0 has no prior price
//	and is NaN. Fails with ErrInvalidArgument for an unknown method.
func CalculateReturns(prices []float64, method string) ([]float64, error) {
	if method != MethodLog && method != MethodSimple {
		return nil, fmt.Errorf("method must be either 'log' or 'simple', got %q: %w", method, ErrInvalidArgument)
	}

	returns := make([]float64, len(prices))
	if len(prices) == 0 {
		return returns, nil
	}

	returns[0] = math.NaN()
	for i := 1; i < len(prices); i++ {
		if method == MethodLog {
			returns[i] = math.Log(prices[i] / prices[i-1])
			continue
		}
		returns[i] = prices[i]/prices[i-1] - 1
	}
	return returns, nil
}
