package ui

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Render without escape sequences so assertions see bare runes.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestDownsampleAveragesBuckets(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, []float64{1.5, 3.5, 5.5, 7.5}, downsample(data, 4))
}

func TestDownsampleShortInputIsCopied(t *testing.T) {
	data := []float64{10, 20, 30}
	out := downsample(data, 8)
	require.Equal(t, []float64{10, 20, 30}, out)

	data[0] = 99
	assert.Equal(t, 10.0, out[0])
}

func TestRenderAreaChartDimensions(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}

	chart := RenderAreaChart(data, 0, 20, 4, lipgloss.Color("2"), lipgloss.Color("1"))
	lines := strings.Split(chart, "\n")

	// The max value reaches the top row, so nothing gets trimmed.
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 20, utf8.RuneCountInString(line))
	}

	bottom := lines[len(lines)-1]
	assert.NotContains(t, bottom, " ", "every column draws at least one block")
}

func TestRenderAreaChartFlatSeries(t *testing.T) {
	data := []float64{5, 5, 5, 5, 5}

	chart := RenderAreaChart(data, 0, 5, 3, lipgloss.Color("2"), lipgloss.Color("1"))

	// A flat series collapses to a single floor row.
	assert.Equal(t, strings.Repeat("▁", 5), chart)
}

func TestRenderAreaChartEmptyInput(t *testing.T) {
	assert.Empty(t, RenderAreaChart(nil, 0, 10, 4, lipgloss.Color("2"), lipgloss.Color("1")))
	assert.Empty(t, RenderAreaChart([]float64{1}, 0, 0, 4, lipgloss.Color("2"), lipgloss.Color("1")))
	assert.Empty(t, RenderAreaChart([]float64{1}, 0, 10, 0, lipgloss.Color("2"), lipgloss.Color("1")))
}
