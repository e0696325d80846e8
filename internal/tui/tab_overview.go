package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/tui/components"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderOverviewTab shows the KPI cards and the three charts. Both cover
// every record; filters only narrow the projects table.
func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.summary
	var b strings.Builder

	// Row 1: KPI cards
	riskColor := t.Green
	if s.AtRisk > 0 {
		riskColor = t.Red
	}
	cards := []components.KPI{
		{Label: "Total Projects", Value: cli.FormatNumber(int64(s.Total)), Hint: fmt.Sprintf("%d value streams", len(pipeline.ValueStreams(a.records)))},
		{Label: "Capex Projects", Value: cli.FormatNumber(int64(s.Capex)), Hint: cli.FormatShare(s.Capex, s.Total), Color: t.Blue},
		{Label: "Opex Projects", Value: cli.FormatNumber(int64(s.Opex)), Hint: cli.FormatShare(s.Opex, s.Total), Color: t.Orange},
		{Label: "At Risk Projects", Value: cli.FormatNumber(int64(s.AtRisk)), Hint: "[a] to list", Color: riskColor},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}

	// Row 2: category share + resources per project
	shareCard := func(w int) string {
		dist := pipeline.CategoryDistribution(a.records)
		shares := make([]components.Share, len(dist))
		for i, d := range dist {
			shares[i] = components.Share{Label: string(d.Category), Count: d.Count, Color: t.CategoryColor(d.Category)}
		}
		return components.ContentCard("Capex vs Opex", components.ShareBar(shares, components.CardInnerWidth(w)), w)
	}
	resourcesCard := func(w int) string {
		res := pipeline.ResourcesByProject(a.records)
		if len(res) == 0 {
			return components.ContentCard("Resources per Project", a.emptyChart(), w)
		}
		vals := make([]float64, len(res))
		labels := make([]string, len(res))
		for i, r := range res {
			vals[i] = r.ResourceCount
			labels[i] = r.ProjectName
		}
		return components.ContentCard("Resources per Project",
			components.BarChart(vals, labels, t.Accent, components.CardInnerWidth(w), chartH), w)
	}

	if a.isCompactLayout() {
		b.WriteString(shareCard(cw))
		b.WriteString("\n")
		b.WriteString(resourcesCard(cw))
	} else {
		leftW := components.LayoutRow(cw, 3)[0]
		rightW := cw - leftW
		b.WriteString(components.CardRow([]string{shareCard(leftW), resourcesCard(rightW)}))
	}
	b.WriteString("\n")

	// Row 3: hours trend, one point per project
	hours := pipeline.HoursSeries(a.records)
	if len(hours) == 0 {
		b.WriteString(components.ContentCard("Hours Trend", a.emptyChart(), cw))
		return b.String()
	}
	labels := make([]string, len(hours))
	weekly := make([]float64, len(hours))
	monthly := make([]float64, len(hours))
	quarterly := make([]float64, len(hours))
	for i, h := range hours {
		labels[i] = h.ProjectName
		weekly[i] = h.WeeklyHours
		monthly[i] = h.MonthlyHours
		quarterly[i] = h.QuarterlyHours
	}
	series := []components.Series{
		{Name: "Weekly", Values: weekly, Color: t.Green},
		{Name: "Monthly", Values: monthly, Color: t.Blue},
		{Name: "Quarterly", Values: quarterly, Color: t.Magenta},
	}
	b.WriteString(components.ContentCard("Hours Trend",
		components.LineChart(series, labels, components.CardInnerWidth(cw), chartH), cw))

	return b.String()
}

func (a App) emptyChart() string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No projects loaded")
}
