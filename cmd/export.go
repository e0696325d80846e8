package cmd

import (
	"fmt"

	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/report"

	"github.com/spf13/cobra"
)

var exportFilter filterFlags

var exportCmd = &cobra.Command{
	Use:   "export FILE.xlsx",
	Short: "Write the filtered projects, summary and at-risk list to a workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportFilter.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	_, records, err := loadRecords()
	if err != nil {
		return err
	}
	rows := pipeline.Apply(records, exportFilter.query())
	if err := report.WriteFile(args[0], rows); err != nil {
		return fmt.Errorf("exporting workbook: %w", err)
	}
	fmt.Printf("\n  Wrote %d projects to %s\n", len(rows), args[0])
	return nil
}
