package cmd

import (
	"fmt"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Project counts by category and risk",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	_, records, err := loadRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\n  No projects loaded.")
		fmt.Println("  Import a file with --csv or --json, or drop --no-seed.")
		return nil
	}

	s := pipeline.Summarize(records)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CAPEX / OPEX  %d projects", s.Total)))
	fmt.Println()

	rows := [][]string{
		{"Total Projects", cli.FormatNumber(int64(s.Total))},
		{"Capex Projects", cli.FormatShare(s.Capex, s.Total)},
		{"Opex Projects", cli.FormatShare(s.Opex, s.Total)},
		{"At Risk Projects", cli.FormatShare(s.AtRisk, s.Total)},
		{"---"},
		{"Value Streams", cli.FormatNumber(int64(len(pipeline.ValueStreams(records))))},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
		Align:   []cli.Align{cli.AlignLeft, cli.AlignRight},
	}))

	// Categories other than Capex and Opex still count toward the total
	if other := s.Total - s.Capex - s.Opex; other > 0 {
		fmt.Printf("\n  %s projects have another category\n", cli.FormatShare(other, s.Total))
	}
	return nil
}
