package cmd

import (
	"fmt"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"

	"github.com/spf13/cobra"
)

// filterFlags binds the table filter flags shared by projects and export.
type filterFlags struct {
	search      string
	category    string
	valueStream string
	subStream   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Project name contains (case-insensitive)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category, e.g. Capex or Opex")
	cmd.Flags().StringVar(&f.valueStream, "value-stream", "", "Value stream (exact)")
	cmd.Flags().StringVar(&f.subStream, "sub-stream", "", "Sub stream (exact)")
}

func (f filterFlags) query() pipeline.Query {
	return pipeline.Query{
		Search:      f.search,
		Category:    model.Category(f.category),
		ValueStream: f.valueStream,
		SubStream:   f.subStream,
	}
}

var (
	projectsFilter   filterFlags
	projectsPage     int
	projectsPageSize int
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Filtered, paginated project table",
	RunE:  runProjects,
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Projects whose achieved value is below target",
	RunE:  runRisk,
}

func init() {
	projectsFilter.register(projectsCmd)
	projectsCmd.Flags().IntVarP(&projectsPage, "page", "p", 1, "Page number")
	projectsCmd.Flags().IntVarP(&projectsPageSize, "page-size", "l", 0, "Rows per page (default from config)")
	rootCmd.AddCommand(projectsCmd, riskCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	cfg, records, err := loadRecords()
	if err != nil {
		return err
	}
	size := projectsPageSize
	if size <= 0 {
		size = cfg.General.PageSize
	}

	q := projectsFilter.query()
	rows, info := pipeline.Paginate(pipeline.Apply(records, q), projectsPage, size)
	if info.Total == 0 {
		if q.Empty() {
			fmt.Println("\n  No projects loaded.")
		} else {
			fmt.Println("\n  No projects match the filters.")
		}
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTS  %d of %d", info.Total, len(records))))
	fmt.Println()
	fmt.Print(cli.RenderTable(projectTable(rows)))
	fmt.Printf("\n  Page %d of %d  (rows %d-%d)\n", info.Page, info.Pages, info.Start+1, info.End)
	return nil
}

func runRisk(_ *cobra.Command, _ []string) error {
	_, records, err := loadRecords()
	if err != nil {
		return err
	}
	risky := pipeline.AtRisk(records)
	if len(risky) == 0 {
		fmt.Println("\n  No projects are at risk.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("AT RISK  %d of %d projects", len(risky), len(records))))
	fmt.Println()
	fmt.Print(cli.RenderTable(projectTable(risky)))
	return nil
}

// projectTable lays out the project columns shared by projects and risk.
func projectTable(records []model.Project) cli.Table {
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{
			cli.Truncate(p.ProjectName, 20),
			cli.Truncate(p.ValueStream, 20),
			cli.Truncate(p.SubStream, 18),
			string(p.Category),
			cli.FormatValue(p.ResourceCount),
			cli.FormatValue(p.Target),
			cli.FormatValue(p.Achieved),
			cli.FormatPercent(p.ProgressPercent()),
			p.Status().String(),
		})
	}
	return cli.Table{
		Headers: []string{"Project", "Value Stream", "Sub Stream", "Category", "Res", "Target", "Achieved", "Progress", "Status"},
		Rows:    rows,
		Align: []cli.Align{
			cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignLeft,
			cli.AlignRight, cli.AlignRight, cli.AlignRight, cli.AlignRight, cli.AlignLeft,
		},
	}
}
