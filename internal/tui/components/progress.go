package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a load-progress bar for a 0-1 fraction with percentage.
func ProgressBar(frac float64, width int) string {
	t := theme.Active
	frac = clamp01(frac)

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(frac) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", frac*100))
}

// TargetBar renders a project's target-vs-achieved bar. pct is the 0-100
// progress value; the bar fills to 100 and the label shows the real number.
func TargetBar(pct float64, status model.Status, width int) string {
	t := theme.Active

	color := t.ProgressColor(pct)
	if status == model.StatusUnknown {
		color = t.TextDim
	}

	filled := int(math.Round(clamp01(pct/100) * float64(width)))

	filledStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	b.WriteString(pctStyle.Render(fmt.Sprintf(" %4.0f%%", pct)))
	return b.String()
}

// StatusTag renders "✓ On Track", "! At Risk" or "? Unknown".
func StatusTag(status model.Status) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.StatusColor(status)).Background(t.Surface).Bold(true)
	icon := "?"
	switch status {
	case model.StatusOnTrack:
		icon = "✓"
	case model.StatusAtRisk:
		icon = "!"
	}
	return style.Render(icon + " " + status.String())
}

// CategoryTag renders a category in its tag color.
func CategoryTag(c model.Category) string {
	t := theme.Active
	label := string(c)
	if label == "" {
		label = "-"
	}
	return lipgloss.NewStyle().Foreground(t.CategoryColor(c)).Background(t.Surface).Bold(true).Render(label)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
