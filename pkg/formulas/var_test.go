package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleReturns is the canonical ten-observation daily return sample
// used across the VaR tests.
func sampleReturns() []float64 {
	return []float64{0.01, -0.02, 0.015, -0.01, 0.02, 0.0, -0.015, 0.01, 0.005, -0.01}
}

func TestHistoricalVaR(t *testing.T) {
	tests := []struct {
		name            string
		returns         []float64
		confidenceLevel float64
		investment      float64
		want            float64
		tolerance       float64
	}{
		{
			name:            "canonical sample at 95 percent",
			returns:         sampleReturns(),
			confidenceLevel: 0.95,
			investment:      10000,
			// 5th percentile by linear interpolation: rank 0.45 between
			// -0.02 and -0.015 gives -0.01775.
			want:      177.5,
			tolerance: 1e-9,
		},
		{
			name:            "unit investment",
			returns:         sampleReturns(),
			confidenceLevel: 0.95,
			investment:      1,
			want:            0.01775,
			tolerance:       1e-12,
		},
		{
			name:            "all positive returns still non-negative",
			returns:         []float64{0.01, 0.02, 0.03, 0.04},
			confidenceLevel: 0.95,
			investment:      1000,
			want:            11.5, // |0.01 + 0.15*(0.02-0.01)| * 1000
			tolerance:       1e-9,
		},
		{
			name:            "single observation",
			returns:         []float64{-0.05},
			confidenceLevel: 0.99,
			investment:      100,
			want:            5,
			tolerance:       1e-12,
		},
		{
			name:            "zero investment",
			returns:         sampleReturns(),
			confidenceLevel: 0.95,
			investment:      0,
			want:            0,
			tolerance:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HistoricalVaR(tt.returns, tt.confidenceLevel, tt.investment)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.tolerance)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestParametricVaR(t *testing.T) {
	// mu = 0.0005, sigma = 0.0136321 (N-1), z = Phi^-1(0.05) = -1.6449:
	// 10000 * |0.0005 - 1.6449*0.0136321| = 219.23 approximately.
	got, err := ParametricVaR(sampleReturns(), 0.95, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 219.23, got, 0.05)
	assert.GreaterOrEqual(t, got, 0.0)
}

func TestParametricVaRAllNegativeReturns(t *testing.T) {
	got, err := ParametricVaR([]float64{-0.01, -0.02, -0.03, -0.015}, 0.95, 5000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 0.0)
}

func TestVaRConfidenceLevelValidation(t *testing.T) {
	tests := []struct {
		name            string
		confidenceLevel float64
	}{
		{name: "zero", confidenceLevel: 0},
		{name: "one", confidenceLevel: 1},
		{name: "negative", confidenceLevel: -0.5},
		{name: "above one", confidenceLevel: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HistoricalVaR(sampleReturns(), tt.confidenceLevel, 1000)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), "confidence level must be between 0 and 1")

			_, err = ParametricVaR(sampleReturns(), tt.confidenceLevel, 1000)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestVaRNegativeInvestment(t *testing.T) {
	_, err := HistoricalVaR(sampleReturns(), 0.95, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParametricVaR(sampleReturns(), 0.95, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVaRInsufficientData(t *testing.T) {
	_, err := HistoricalVaR([]float64{}, 0.95, 1000)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// NaN-only input reduces to an empty sample.
	_, err = HistoricalVaR([]float64{math.NaN()}, 0.95, 1000)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// The sample standard deviation needs two observations.
	_, err = ParametricVaR([]float64{0.01}, 0.95, 1000)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestVaRMonotonicInConfidence(t *testing.T) {
	confidences := []float64{0.80, 0.85, 0.90, 0.95, 0.99}

	prevHistorical := -1.0
	prevParametric := -1.0
	for _, cl := range confidences {
		historical, err := HistoricalVaR(sampleReturns(), cl, 10000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, historical, prevHistorical,
			"historical VaR decreased at confidence %v", cl)
		prevHistorical = historical

		parametric, err := ParametricVaR(sampleReturns(), cl, 10000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, parametric, prevParametric,
			"parametric VaR decreased at confidence %v", cl)
		prevParametric = parametric
	}
}

func TestVaRScalesLinearlyInInvestment(t *testing.T) {
	baseHistorical, err := HistoricalVaR(sampleReturns(), 0.95, 10000)
	require.NoError(t, err)
	doubleHistorical, err := HistoricalVaR(sampleReturns(), 0.95, 20000)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, doubleHistorical/baseHistorical, 1e-9)

	baseParametric, err := ParametricVaR(sampleReturns(), 0.95, 10000)
	require.NoError(t, err)
	doubleParametric, err := ParametricVaR(sampleReturns(), 0.95, 20000)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, doubleParametric/baseParametric, 1e-9)
}

func TestVaRSkipsLeadingNaN(t *testing.T) {
	// A return series straight from CalculateReturns carries NaN at
	// index 0; the engines must ignore it rather than poison the sample.
	prices := []float64{100, 101, 99, 102, 100, 103, 101, 104, 102, 105, 103}
	returns, err := CalculateReturns(prices, MethodLog)
	require.NoError(t, err)

	got, err := HistoricalVaR(returns, 0.95, 1000)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))

	got, err = ParametricVaR(returns, 0.95, 1000)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name      string
		sorted    []float64
		q         float64
		want      float64
		tolerance float64
	}{
		{name: "median of even sample", sorted: []float64{1, 2, 3, 4}, q: 50, want: 2.5, tolerance: 1e-12},
		{name: "median of odd sample", sorted: []float64{1, 2, 3}, q: 50, want: 2, tolerance: 1e-12},
		{name: "zeroth percentile is minimum", sorted: []float64{1, 2, 3, 4}, q: 0, want: 1, tolerance: 0},
		{name: "hundredth percentile is maximum", sorted: []float64{1, 2, 3, 4}, q: 100, want: 4, tolerance: 0},
		{name: "interpolated rank", sorted: []float64{10, 20, 30, 40, 50}, q: 37.5, want: 25, tolerance: 1e-12},
		{name: "single element", sorted: []float64{7}, q: 83, want: 7, tolerance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.sorted, tt.q), tt.tolerance)
		})
	}
}
