package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/riskboard/internal/tui/api"
	"github.com/aristath/riskboard/internal/tui/theme"
)

// History window the panels and the chart describe.
const lookbackDays = 365

// A ticker load fans out into this many requests.
const requestsPerLoad = 4

type Model struct {
	client *api.Client
	apiURL string

	// Data
	connected bool
	ticker    string
	metrics   *api.Metrics
	history   []api.PricePoint
	histVaR   *api.VaRReport
	paramVaR  *api.VaRReport

	// UI state
	width   int
	height  int
	ready   bool
	pending int
	errMsg  string

	// Components
	input   textinput.Model
	spinner spinner.Model
}

// Messages

type healthMsg struct {
	health api.Health
	err    error
}

type metricsMsg struct {
	ticker  string
	metrics api.Metrics
	err     error
}

type historyMsg struct {
	ticker string
	points []api.PricePoint
	err    error
}

type varMsg struct {
	ticker string
	method string
	report api.VaRReport
	err    error
}

func NewModel(client *api.Client, apiURL string) Model {
	input := textinput.New()
	input.Placeholder = "AAPL"
	input.Prompt = "› "
	input.CharLimit = 12
	input.Width = 16
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Default.Primary)),
	)

	return Model{
		client:  client,
		apiURL:  apiURL,
		input:   input,
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, fetchHealth(m.client))
}

// Commands

func fetchHealth(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		h, err := c.Health()
		return healthMsg{h, err}
	}
}

func fetchTicker(c *api.Client, ticker string) []tea.Cmd {
	return []tea.Cmd{
		fetchMetrics(c, ticker),
		fetchHistory(c, ticker),
		fetchVaR(c, ticker, "historical"),
		fetchVaR(c, ticker, "parametric"),
	}
}

func fetchMetrics(c *api.Client, ticker string) tea.Cmd {
	return func() tea.Msg {
		metrics, err := c.Metrics(ticker, lookbackDays)
		return metricsMsg{ticker, metrics, err}
	}
}

func fetchHistory(c *api.Client, ticker string) tea.Cmd {
	return func() tea.Msg {
		points, err := c.History(ticker, lookbackDays)
		return historyMsg{ticker, points, err}
	}
}

func fetchVaR(c *api.Client, ticker, method string) tea.Cmd {
	return func() tea.Msg {
		report, err := c.PortfolioVaR(ticker, lookbackDays, method)
		return varMsg{ticker, method, report, err}
	}
}
