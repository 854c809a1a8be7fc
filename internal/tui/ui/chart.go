package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Eighth-height block elements, index 0 (empty) through 8 (full cell).
var blocks = [9]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderAreaChart draws a filled area chart of data using Unicode block
// elements, width columns wide and height rows tall. Columns whose value
// sits below baseline are drawn in belowColor, the rest in aboveColor.
func RenderAreaChart(data []float64, baseline float64, width, height int, aboveColor, belowColor lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	cols := downsample(data, width)

	lo, hi := cols[0], cols[0]
	for _, v := range cols {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	above := lipgloss.NewStyle().Foreground(aboveColor)
	below := lipgloss.NewStyle().Foreground(belowColor)

	// Each row holds 8 sub-levels; every column gets at least one so a
	// flat series still draws a visible floor.
	levels := make([]int, len(cols))
	maxLevel := height * 8
	for i, v := range cols {
		l := int((v-lo)/span*float64(maxLevel-1)) + 1
		if l > maxLevel {
			l = maxLevel
		}
		levels[i] = l
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		floor := (height - 1 - row) * 8

		var sb strings.Builder
		for i, level := range levels {
			fill := level - floor
			switch {
			case fill <= 0:
				sb.WriteRune(' ')
			default:
				if fill > 8 {
					fill = 8
				}
				style := above
				if cols[i] < baseline {
					style = below
				}
				sb.WriteString(style.Render(string(blocks[fill])))
			}
		}
		rows = append(rows, sb.String())
	}

	// Drop blank rows above the highest peak.
	for len(rows) > 1 && strings.TrimSpace(rows[0]) == "" {
		rows = rows[1:]
	}
	return strings.Join(rows, "\n")
}

// downsample shrinks data to at most n points by averaging equal buckets.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	out := make([]float64, n)
	for i := range out {
		start := i * len(data) / n
		end := (i + 1) * len(data) / n

		sum := 0.0
		for _, v := range data[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
