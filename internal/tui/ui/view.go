package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/aristath/riskboard/internal/tui/api"
	"github.com/aristath/riskboard/internal/tui/theme"
)

// Side-by-side panels need at least this many columns.
const wideLayoutMin = 96

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	t := theme.Default
	pad := lipgloss.NewStyle().Padding(0, 2)

	sections := []string{
		pad.Render(m.viewBanner()),
		pad.Render(m.viewStatus()),
		"",
		pad.Render(m.viewPrompt()),
	}

	if m.pending > 0 {
		sections = append(sections, pad.Render(m.spinner.View()+" loading "+m.ticker))
	} else if m.errMsg != "" {
		sections = append(sections, pad.Render(
			lipgloss.NewStyle().Foreground(t.Error).Render(m.errMsg)))
	}

	if m.metrics != nil || m.histVaR != nil {
		sections = append(sections, "", pad.Render(m.viewPanels()))
	}
	if len(m.history) > 1 {
		sections = append(sections, "", pad.Render(m.viewChart()))
	}

	sections = append(sections, "", pad.Render(m.viewFooter()))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(strings.Join(sections, "\n"))
}

func (m Model) viewBanner() string {
	t := theme.Default
	banner := figure.NewFigure("RISKBOARD", "", true).String()
	banner = strings.TrimRight(banner, "\n")
	return theme.GradientText(banner, t.Primary, t.Accent)
}

func (m Model) viewStatus() string {
	t := theme.Default
	if !m.connected {
		return lipgloss.NewStyle().Foreground(t.Error).
			Render(fmt.Sprintf("● offline, cannot reach API at %s", m.apiURL))
	}
	return lipgloss.NewStyle().Foreground(t.Success).Render("● online") +
		lipgloss.NewStyle().Foreground(t.Muted).Render("  "+m.apiURL)
}

func (m Model) viewPrompt() string {
	t := theme.Default
	if m.input.Focused() {
		hint := lipgloss.NewStyle().Foreground(t.Muted).Render("  ENTER load")
		return m.input.View() + hint
	}
	label := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(m.ticker)
	window := lipgloss.NewStyle().Foreground(t.Muted).Render(fmt.Sprintf("  · %d day window", lookbackDays))
	return label + window
}

func (m Model) viewPanels() string {
	metrics := m.viewMetricsPanel()
	risk := m.viewVaRPanel()

	if m.width >= wideLayoutMin {
		gap := lipgloss.NewStyle().Width(6).Render("")
		return lipgloss.JoinHorizontal(lipgloss.Top, metrics, gap, risk)
	}
	return lipgloss.JoinVertical(lipgloss.Left, metrics, "", risk)
}

func (m Model) viewMetricsPanel() string {
	t := theme.Default
	if m.metrics == nil {
		return ""
	}
	mt := m.metrics

	changeColor := t.Success
	sign := "+"
	if mt.Change < 0 {
		changeColor = t.Error
		sign = ""
	}
	change := lipgloss.NewStyle().Foreground(changeColor).
		Render(fmt.Sprintf("%s%.2f (%s%.2f%%)", sign, mt.Change, sign, mt.ChangePct))

	volume := "—"
	if mt.Volume != nil {
		volume = formatThousands(float64(*mt.Volume))
	}
	avgVolume := "—"
	if mt.AvgVolume != nil {
		avgVolume = formatThousands(*mt.AvgVolume)
	}

	lines := []string{
		panelTitle("MARKET"),
		kv("latest", fmt.Sprintf("%.2f", mt.LatestPrice)+"  "+change),
		kv("period high", fmt.Sprintf("%.2f", mt.PeriodHigh)),
		kv("period low", fmt.Sprintf("%.2f", mt.PeriodLow)),
		kv("volume", volume),
		kv("avg volume", avgVolume),
		kv("records", fmt.Sprintf("%d  (%s → %s)", mt.RecordCount, mt.FirstDate, mt.LastDate)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewVaRPanel() string {
	t := theme.Default
	if m.histVaR == nil && m.paramVaR == nil {
		return ""
	}

	loss := lipgloss.NewStyle().Foreground(t.Warning)
	lines := []string{panelTitle("VALUE AT RISK · 95%")}

	if m.histVaR != nil {
		lines = append(lines, kv("historical", loss.Render(formatThousands(m.histVaR.VaR))))
	}
	if m.paramVaR != nil {
		lines = append(lines, kv("parametric", loss.Render(formatThousands(m.paramVaR.VaR))))
	}
	if report := m.varDetails(); report != nil {
		lines = append(lines,
			kv("daily vol", fmt.Sprintf("%.3f%%", report.DailyVolatility*100)),
			kv("annual vol", fmt.Sprintf("%.2f%%", report.AnnualizedVolatility*100)),
			kv("annual return", fmt.Sprintf("%.2f%%", report.AnnualizedReturn*100)),
			kv("sharpe", fmt.Sprintf("%.3f", report.SharpeRatio)),
			kv("observations", fmt.Sprintf("%d", report.SampleSize)),
			kv("investment", formatThousands(report.InvestmentValue)),
		)
	}
	return strings.Join(lines, "\n")
}

// varDetails picks whichever report arrived; the distribution figures
// are identical between the two methods.
func (m Model) varDetails() *api.VaRReport {
	if m.histVaR != nil {
		return m.histVaR
	}
	return m.paramVaR
}

func (m Model) viewChart() string {
	t := theme.Default

	closes := make([]float64, len(m.history))
	for i, p := range m.history {
		closes[i] = p.Close
	}

	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}

	// Green above the window's opening close, red below it.
	baseline := closes[0]
	chart := RenderAreaChart(closes, baseline, chartWidth, 8, t.Success, t.Error)

	title := panelTitle(fmt.Sprintf("CLOSE  %s → %s", m.history[0].Date, m.history[len(m.history)-1].Date))
	return title + "\n" + chart
}

func (m Model) viewFooter() string {
	t := theme.Default
	return lipgloss.NewStyle().Foreground(t.Muted).
		Render("q quit · r refresh · / new ticker")
}

func panelTitle(text string) string {
	t := theme.Default
	return lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(text)
}

func kv(label, value string) string {
	t := theme.Default
	l := lipgloss.NewStyle().Foreground(t.Muted).Width(15).Render(label)
	return l + lipgloss.NewStyle().Foreground(t.Text).Render(value)
}

// formatThousands renders a value with comma separators and no decimals.
func formatThousands(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}
