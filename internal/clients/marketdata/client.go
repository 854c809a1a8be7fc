// Package marketdata fetches quotes, daily price history and fundamentals
// from upstream market data providers.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoData indicates the upstream provider has no rows for the requested
// ticker and range. Callers map this to their own not-found handling.
var ErrNoData = errors.New("no market data available")

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	fmpBaseURL     = "https://financialmodelingprep.com/api/v3"

	maxRetries = 3
	userAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client is a market data API client
type Client struct {
	baseURL   string
	fmpAPIKey string
	client    *http.Client
	log       zerolog.Logger
}

// NewClient creates a new market data client. An empty baseURL selects the
// default public endpoint; fmpAPIKey may be empty, disabling the
// fundamentals fallback.
func NewClient(baseURL, fmpAPIKey string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		fmpAPIKey: fmpAPIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// chartResponse represents the response from the chart API
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetDailyBars fetches daily OHLCV bars for a ticker between start and end
// (inclusive), oldest first. Dividend events are folded into the bar of
// their ex-date. Returns ErrNoData when the provider has nothing for the
// range.
func (c *Client) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]DailyBar, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("period1", strconv.FormatInt(start.Unix(), 10))
	params.Add("period2", strconv.FormatInt(end.Add(24*time.Hour).Unix(), 10))
	params.Add("events", "div")

	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(ticker) + "?" + params.Encode()

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily bars: %w", err)
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("%w: upstream error: %v", ErrNoData, result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty chart result for %s", ErrNoData, ticker)
	}

	chartData := result.Chart.Result[0]
	if len(chartData.Indicators.Quote) == 0 || len(chartData.Timestamp) == 0 {
		return nil, fmt.Errorf("%w: no quote rows for %s", ErrNoData, ticker)
	}
	quote := chartData.Indicators.Quote[0]

	// Index dividend events by calendar day so they can be folded into
	// the matching bar.
	dividends := make(map[string]float64, len(chartData.Events.Dividends))
	for _, div := range chartData.Events.Dividends {
		day := time.Unix(div.Date, 0).UTC().Format("2006-01-02")
		dividends[day] += div.Amount
	}

	bars := make([]DailyBar, 0, len(chartData.Timestamp))
	for i, ts := range chartData.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}
		// The provider marks holidays and halts with all-zero rows.
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		date := time.Unix(ts, 0).UTC()
		volume := int64(0)
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}

		bars = append(bars, DailyBar{
			Date:      date,
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    volume,
			Dividends: dividends[date.Format("2006-01-02")],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: all rows empty for %s", ErrNoData, ticker)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.log.Debug().
		Str("ticker", ticker).
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("count", len(bars)).
		Msg("Fetched daily bars")

	return bars, nil
}

// quoteResponse represents the response from the quote API
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuote fetches current quote information for a ticker
func (c *Client) GetQuote(ctx context.Context, ticker string) (*Quote, error) {
	params := url.Values{}
	params.Add("symbols", ticker)
	params.Add("fields", "symbol,regularMarketPrice,epsForward,epsTrailingTwelveMonths,"+
		"marketCap,longName,currency")

	reqURL := c.baseURL + "/v7/finance/quote?" + params.Encode()

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("upstream error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote for %s", ErrNoData, ticker)
	}

	info := result.QuoteResponse.Result[0]
	return &Quote{
		Symbol:      ticker,
		Price:       getFloat64(info, "regularMarketPrice"),
		ForwardEPS:  getFloat64(info, "epsForward"),
		TrailingEPS: getFloat64(info, "epsTrailingTwelveMonths"),
		MarketCap:   getInt64(info, "marketCap"),
		LongName:    getStringPtr(info, "longName"),
		Currency:    getStringPtr(info, "currency"),
	}, nil
}

// getWithRetry performs a GET request with browser headers and exponential
// backoff on failure
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		body, err := c.get(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		// A 404 will not heal with retries.
		if errors.Is(err, ErrNoData) {
			return nil, err
		}
		lastErr = err

		if attempt < maxRetries-1 {
			waitTime := time.Duration(1<<uint(attempt)) * time.Second // exponential backoff
			c.log.Warn().Err(err).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Request failed, retrying")

			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: status 404", ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getInt64(m map[string]interface{}, key string) *int64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			i := int64(v)
			return &i
		case int:
			i := int64(v)
			return &i
		case int64:
			return &v
		}
	}
	return nil
}

func getStringPtr(m map[string]interface{}, key string) *string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
