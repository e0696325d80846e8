package cmd

import (
	"fmt"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "Value streams and their sub streams",
	RunE:  runStreams,
}

func init() {
	rootCmd.AddCommand(streamsCmd)
}

func runStreams(_ *cobra.Command, _ []string) error {
	_, records, err := loadRecords()
	if err != nil {
		return err
	}
	streams := pipeline.ValueStreams(records)
	if len(streams) == 0 {
		fmt.Println("\n  No projects loaded.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("VALUE STREAMS  %d", len(streams))))
	fmt.Println()

	var rows [][]string
	for i, vs := range streams {
		if i > 0 {
			rows = append(rows, []string{"---"})
		}
		count := cli.FormatNumber(int64(len(pipeline.Apply(records, pipeline.Query{ValueStream: vs}))))
		subs := pipeline.SubStreams(records, vs)
		if len(subs) == 0 {
			rows = append(rows, []string{vs, "", count})
			continue
		}
		for j, sub := range subs {
			if j == 0 {
				rows = append(rows, []string{vs, sub, count})
				continue
			}
			rows = append(rows, []string{"", sub, ""})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Value Stream", "Sub Stream", "Projects"},
		Rows:    rows,
		Align:   []cli.Align{cli.AlignLeft, cli.AlignLeft, cli.AlignRight},
	}))
	return nil
}
