package cmd

import (
	"fmt"
	"math"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Category share, resources per project and hours trend",
	RunE:  runCharts,
}

func init() {
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(_ *cobra.Command, _ []string) error {
	_, records, err := loadRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\n  No projects loaded.")
		return nil
	}

	const barWidth = 40

	fmt.Println()
	fmt.Println(cli.RenderTitle("CAPEX VS OPEX"))
	fmt.Println()
	for _, d := range pipeline.CategoryDistribution(records) {
		pct := float64(d.Count) / float64(len(records)) * 100
		fmt.Printf("  %-6s %s %s\n", d.Category, cli.RenderPercentBar(pct, barWidth), cli.FormatShare(d.Count, len(records)))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RESOURCES PER PROJECT"))
	fmt.Println()
	res := pipeline.ResourcesByProject(records)
	maxRes := 0.0
	for _, r := range res {
		if r.ResourceCount > maxRes && !math.IsInf(r.ResourceCount, 1) {
			maxRes = r.ResourceCount
		}
	}
	for _, r := range res {
		fmt.Printf("  %-18s │ %6s │ %s\n",
			cli.Truncate(r.ProjectName, 18),
			cli.FormatValue(r.ResourceCount),
			cli.RenderHorizontalBar(r.ResourceCount, maxRes, barWidth))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HOURS TREND"))
	fmt.Println()
	hours := pipeline.HoursSeries(records)
	weekly := make([]float64, len(hours))
	monthly := make([]float64, len(hours))
	quarterly := make([]float64, len(hours))
	for i, h := range hours {
		weekly[i] = h.WeeklyHours
		monthly[i] = h.MonthlyHours
		quarterly[i] = h.QuarterlyHours
	}
	fmt.Printf("  Weekly     %s\n", cli.RenderSparkline(weekly))
	fmt.Printf("  Monthly    %s\n", cli.RenderSparkline(monthly))
	fmt.Printf("  Quarterly  %s\n", cli.RenderSparkline(quarterly))
	fmt.Println()
	fmt.Println("  One point per project, in import order.")
	return nil
}
