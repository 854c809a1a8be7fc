package formulas

import "errors"

// Error kinds returned by the metrics core. Callers branch with
// errors.Is; the wrapped message carries the offending parameter and
// constraint.
var (
	// ErrInvalidArgument marks out-of-range confidence levels,
	// unrecognized method strings, mismatched weight/asset counts and
	// invalid windows or alphas. Raised before any computation runs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientData marks samples with fewer observations than a
	// statistic requires, such as a standard deviation of a
	// single-element series or a percentile of an empty one.
	ErrInsufficientData = errors.New("insufficient data")
)
