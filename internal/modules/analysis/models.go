package analysis

import "math"

// TickerMetrics summarizes a ticker's stored price window. It backs the
// dashboard and terminal metrics panels.
type TickerMetrics struct {
	Ticker      string   `json:"ticker"`
	LatestPrice float64  `json:"latest_price"`
	Change      float64  `json:"change"`
	ChangePct   float64  `json:"change_pct"`
	Volume      *int64   `json:"volume"`
	AvgVolume   *float64 `json:"avg_volume"`
	PeriodHigh  float64  `json:"period_high"`
	PeriodLow   float64  `json:"period_low"`
	FirstDate   string   `json:"first_date"`
	LastDate    string   `json:"last_date"`
	RecordCount int      `json:"record_count"`
}

// IndicatorSeries carries smoothing and momentum overlays for one
// ticker, aligned to Dates. Slots without enough history are null.
type IndicatorSeries struct {
	Ticker          string     `json:"ticker"`
	Window          int        `json:"window"`
	Dates           []string   `json:"dates"`
	Close           []float64  `json:"close"`
	WMA             []*float64 `json:"wma"`
	EWMA            []*float64 `json:"ewma"`
	CumulativeYield []*float64 `json:"cumulative_yield"`
	RSI             []*float64 `json:"rsi"`
}

// Valuation carries the historic P/E series plus the forward multiple
// derived from the latest quote.
type Valuation struct {
	Ticker       string     `json:"ticker"`
	Dates        []string   `json:"dates"`
	HistoricPE   []*float64 `json:"historic_pe"`
	CurrentPrice float64    `json:"current_price"`
	ForwardEPS   *float64   `json:"forward_eps"`
	ForwardPE    *float64   `json:"forward_pe"`
}

// nullable maps NaN slots to nil so the series survives JSON encoding.
func nullable(series []float64) []*float64 {
	out := make([]*float64, len(series))
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		value := v
		out[i] = &value
	}
	return out
}

// nullableAfterWarmup additionally blanks the first warmup slots, for
// indicators that emit placeholder zeros until they have enough history.
func nullableAfterWarmup(series []float64, warmup int) []*float64 {
	out := nullable(series)
	for i := 0; i < warmup && i < len(out); i++ {
		out[i] = nil
	}
	return out
}
