package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		if m.input.Focused() {
			switch {
			case msg.Type == tea.KeyCtrlC:
				return m, tea.Quit
			case key.Matches(msg, keys.Cancel):
				// Keep the input up until something is loaded.
				if m.ticker != "" {
					m.input.Blur()
				}
			case msg.Type == tea.KeyEnter:
				ticker := strings.ToUpper(strings.TrimSpace(m.input.Value()))
				if ticker != "" {
					m.input.Blur()
					cmds = append(cmds, m.load(ticker)...)
				}
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
			break
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			if m.ticker != "" {
				cmds = append(cmds, m.load(m.ticker)...)
			}
		case key.Matches(msg, keys.Search):
			m.input.SetValue("")
			m.input.Focus()
			cmds = append(cmds, textinput.Blink)
		}

	case spinner.TickMsg:
		if m.pending > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case healthMsg:
		m.connected = msg.err == nil

	case metricsMsg:
		if msg.ticker == m.ticker {
			m.pending--
			if msg.err != nil {
				m.errMsg = msg.err.Error()
			} else {
				m.metrics = &msg.metrics
			}
		}

	case historyMsg:
		if msg.ticker == m.ticker {
			m.pending--
			if msg.err != nil {
				m.errMsg = msg.err.Error()
			} else {
				m.history = msg.points
			}
		}

	case varMsg:
		if msg.ticker == m.ticker {
			m.pending--
			if msg.err != nil {
				m.errMsg = msg.err.Error()
			} else if msg.method == "parametric" {
				report := msg.report
				m.paramVaR = &report
			} else {
				report := msg.report
				m.histVaR = &report
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// load resets the panels and fans out the requests for a ticker.
// Responses for a previously requested ticker are dropped on arrival.
func (m *Model) load(ticker string) []tea.Cmd {
	m.ticker = ticker
	m.metrics = nil
	m.history = nil
	m.histVaR = nil
	m.paramVaR = nil
	m.errMsg = ""
	m.pending = requestsPerLoad

	cmds := fetchTicker(m.client, ticker)
	return append(cmds, m.spinner.Tick)
}
