// Package formulas implements the quantitative metrics core: return
// series, Value at Risk (historical and parametric), portfolio
// aggregation, moving averages, cumulative yield, and P/E valuation
// helpers.
//
// Every function is a pure transform: no I/O, no retained state, and
// input slices are never mutated. Missing values are represented as
// math.NaN(). A return series has the same length as its price series
// with NaN at index 0, and moving averages leave NaN where the trailing
// window has insufficient history.
package formulas
