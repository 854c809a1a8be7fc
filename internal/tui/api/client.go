// Package api is the HTTP client the terminal UI uses to talk to the
// Riskboard server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Response types

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Service string `json:"service"`
}

type Metrics struct {
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

type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type VaRReport struct {
	VaR                  float64 `json:"var"`
	DailyVolatility      float64 `json:"daily_volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	Method               string  `json:"method"`
	ConfidenceLevel      float64 `json:"confidence_level"`
	InvestmentValue      float64 `json:"investment_value"`
	SampleSize           int     `json:"sample_size"`
}

// Internal helpers

// envelope is the response wrapper every /api endpoint uses.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("API returned %d", resp.StatusCode)
	}
	if env.Error != nil {
		return fmt.Errorf("%s", env.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned %d", resp.StatusCode)
	}
	return json.Unmarshal(env.Data, target)
}

func (c *Client) get(path string, params url.Values, target any) error {
	u := c.baseURL + path
	if params != nil {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *Client) post(path string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, target)
}

// Endpoints

// Health hits the unenveloped liveness endpoint.
func (c *Client) Health() (Health, error) {
	var h Health
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return h, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return h, fmt.Errorf("API returned %d", resp.StatusCode)
	}
	return h, json.NewDecoder(resp.Body).Decode(&h)
}

func (c *Client) Metrics(ticker string, days int) (Metrics, error) {
	var m Metrics
	params := url.Values{"days": {fmt.Sprint(days)}}
	return m, c.get("/api/tickers/"+ticker, params, &m)
}

func (c *Client) History(ticker string, days int) ([]PricePoint, error) {
	var points []PricePoint
	params := url.Values{"days": {fmt.Sprint(days)}}
	return points, c.get("/api/tickers/"+ticker+"/history", params, &points)
}

func (c *Client) PortfolioVaR(ticker string, days int, method string) (VaRReport, error) {
	var report VaRReport
	body := map[string]any{
		"tickers": []string{ticker},
		"weights": []float64{1.0},
		"days":    days,
		"method":  method,
	}
	return report, c.post("/api/risk/var/portfolio", body, &report)
}
