// Package prices stores and serves daily price history, keeping the local
// database in sync with the upstream market data provider.
package prices

// DailyPrice represents a stored daily OHLCV row with derived columns
type DailyPrice struct {
	Ticker    string   `json:"ticker" msgpack:"ticker"`
	Date      string   `json:"date" msgpack:"date"` // YYYY-MM-DD
	Open      float64  `json:"open" msgpack:"open"`
	High      float64  `json:"high" msgpack:"high"`
	Low       float64  `json:"low" msgpack:"low"`
	Close     float64  `json:"close" msgpack:"close"`
	Volume    *int64   `json:"volume,omitempty" msgpack:"volume,omitempty"`
	Dividends float64  `json:"dividends" msgpack:"dividends"`
	EMA50     *float64 `json:"ema50,omitempty" msgpack:"ema50,omitempty"`
	EMA200    *float64 `json:"ema200,omitempty" msgpack:"ema200,omitempty"`
	Yield     *float64 `json:"yield,omitempty" msgpack:"yield,omitempty"` // cumulative % since window start
}

// Closes extracts the close column from a price series
func Closes(series []DailyPrice) []float64 {
	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Close
	}
	return closes
}
