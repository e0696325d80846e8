package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// plotValue maps a value onto the chart: NaN, infinities and negatives plot as 0.
func plotValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// yAxis picks a tick step, ceiling and row layout for a chart of maxVal
// drawn in at most height rows.
type yAxis struct {
	tickStep    float64
	ceiling     float64
	rows        int
	rowsPerTick int
	labelW      int
}

func newYAxis(maxVal float64, height int) yAxis {
	if maxVal <= 0 {
		maxVal = 1
	}
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 2)

	return yAxis{
		tickStep:    tickStep,
		ceiling:     ceiling,
		rows:        rowsPerTick * numIntervals,
		rowsPerTick: rowsPerTick,
		labelW:      max(len(formatChartLabel(ceiling))+1, 4),
	}
}

// label returns the tick label for a row (1 = bottom), or "".
func (y yAxis) label(row int) string {
	if row%y.rowsPerTick != 0 {
		return ""
	}
	return formatChartLabel(y.tickStep * float64(row/y.rowsPerTick))
}

// BarChart renders a vertical bar chart with one bar per value.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, plotValue(v))
	}
	y := newYAxis(maxVal, height)

	chartW := max(width-y.labelW-1, 5)
	n := len(values)

	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		maxN := max((chartW+1)/3, 2)
		sampled := make([]float64, maxN)
		var sampledLabels []string
		if len(labels) == n {
			sampledLabels = make([]string, maxN)
		}
		for i := range sampled {
			srcIdx := i * (n - 1) / (maxN - 1)
			sampled[i] = values[srcIdx]
			if sampledLabels != nil {
				sampledLabels[i] = labels[srcIdx]
			}
		}
		values = sampled
		labels = sampledLabels
		n = maxN
		barW = 2
	}
	barW = min(barW, 8)
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := y.rows; row >= 1; row-- {
		rowTop := y.ceiling * float64(row) / float64(y.rows)
		rowBottom := y.ceiling * float64(row-1) / float64(y.rows)

		barColor := color
		if float64(row)/float64(y.rows) > 0.8 {
			barColor = t.AccentBright
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", y.labelW, y.label(row))))
		b.WriteString(axisStyle.Render("│"))

		for i, raw := range values {
			v := plotValue(raw)
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", y.labelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", y.labelW+1)))
		b.WriteString(axisStyle.Render(axisLabels(labels, barW, gap, axisLen)))
	}

	return b.String()
}

// axisLabels lays labels out under slots of slotW columns separated by gap,
// skipping any label that would overlap the previous one.
func axisLabels(labels []string, slotW, gap, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * (slotW + gap)
		if pos <= lastEnd || pos >= axisLen {
			continue
		}
		r := []rune(lbl)
		room := axisLen - pos
		if len(r) > room {
			if room < 3 {
				continue
			}
			r = []rune(cli.Truncate(lbl, room))
		}
		copy(buf[pos:], r)
		lastEnd = pos + len(r)
	}
	return strings.TrimRight(string(buf), " ")
}

// Series is one line of a LineChart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// LineChart plots several series over shared x positions, one point per
// label, with a legend underneath. Later series draw over earlier ones where
// points collide.
func LineChart(series []Series, labels []string, width, height int) string {
	n := len(labels)
	if n == 0 || len(series) == 0 {
		return ""
	}
	t := theme.Active

	maxVal := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			maxVal = max(maxVal, plotValue(v))
		}
	}
	y := newYAxis(maxVal, max(height, 3))
	chartW := max(width-y.labelW-1, 5)

	slotW := chartW
	if n > 1 {
		slotW = max((chartW-(n-1))/n, 1)
	}
	axisLen := min(n*slotW+(n-1), chartW)

	type cell struct {
		r     rune
		color lipgloss.Color
	}
	grid := make([][]cell, y.rows)
	for i := range grid {
		grid[i] = make([]cell, axisLen)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	rowOf := func(v float64) int {
		r := int(math.Round(plotValue(v) / y.ceiling * float64(y.rows)))
		return min(max(r, 1), y.rows)
	}
	colOf := func(i int) int {
		return min(i*(slotW+1)+slotW/2, axisLen-1)
	}

	for _, s := range series {
		prevCol, prevRow := -1, 0
		for i := 0; i < n && i < len(s.Values); i++ {
			col, row := colOf(i), rowOf(s.Values[i])
			if prevCol >= 0 {
				// Interpolate between points so the trend reads as a line.
				for c := prevCol + 1; c < col; c++ {
					frac := float64(c-prevCol) / float64(col-prevCol)
					r := prevRow + int(math.Round(frac*float64(row-prevRow)))
					grid[y.rows-r][c] = cell{r: '·', color: s.Color}
				}
			}
			grid[y.rows-row][col] = cell{r: '●', color: s.Color}
			prevCol, prevRow = col, row
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, line := range grid {
		row := y.rows - i
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", y.labelW, y.label(row))))
		b.WriteString(axisStyle.Render("│"))
		for _, c := range line {
			if c.r == ' ' {
				b.WriteString(blank.Render(" "))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.color).Background(t.Surface).Render(string(c.r)))
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", y.labelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", y.labelW+1)))
	b.WriteString(axisStyle.Render(axisLabels(labels, slotW, 1, axisLen)))
	b.WriteString("\n")
	b.WriteString(Legend(series))

	return b.String()
}

// Legend renders "● name" entries for each series on one line.
func Legend(series []Series) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	parts := make([]string, 0, len(series))
	for _, s := range series {
		dot := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("●")
		parts = append(parts, dot+muted.Render(" "+s.Name))
	}
	return strings.Join(parts, muted.Render("   "))
}

// Share is one segment of a ShareBar.
type Share struct {
	Label string
	Count int
	Color lipgloss.Color
}

// ShareBar renders the segments as one stacked horizontal bar of the given
// width followed by a legend line per segment with count and percentage.
func ShareBar(shares []Share, width int) string {
	t := theme.Active
	total := 0
	for _, s := range shares {
		total += s.Count
	}

	empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	if total == 0 {
		b.WriteString(empty.Render(strings.Repeat("░", width)))
	} else {
		used := 0
		for i, s := range shares {
			segW := int(math.Round(float64(s.Count) / float64(total) * float64(width)))
			if i == len(shares)-1 {
				segW = width - used
			}
			segW = min(max(segW, 0), width-used)
			used += segW
			b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render(strings.Repeat("█", segW)))
		}
	}
	for _, s := range shares {
		b.WriteString("\n")
		dot := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("■")
		b.WriteString(dot + muted.Render(fmt.Sprintf(" %-8s %s", s.Label, cli.FormatShare(s.Count, total))))
	}
	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
