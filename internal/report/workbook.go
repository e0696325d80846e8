// Package report writes project records to an .xlsx workbook.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SheetProjects = "Projects"
	SheetSummary  = "Summary"
	SheetAtRisk   = "At Risk"
)

// ProjectHeaders are the column headers of the Projects and At Risk sheets.
var ProjectHeaders = []string{
	"Value Stream", "Sub Stream", "Project Name", "Value Stream Lead",
	"Engineering Manager", "Task Name", "Resources", "Weekly Hours",
	"Monthly Hours", "Quarterly Hours", "Category", "Target", "Achieved",
	"Progress %", "Status",
}

// Build assembles the workbook for records: every record on Projects, the
// KPI counts and category distribution on Summary, and the at-risk subset on
// At Risk. Unreadable numbers are left as empty cells.
func Build(records []model.Project) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetProjects); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDE7F0"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writeProjects(f, SheetProjects, records, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating sheet %s: %w", SheetSummary, err)
	}
	if err := writeSummary(f, records, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetAtRisk); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating sheet %s: %w", SheetAtRisk, err)
	}
	if err := writeProjects(f, SheetAtRisk, pipeline.AtRisk(records), headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile builds the workbook and saves it at path.
func WriteFile(path string, records []model.Project) error {
	f, err := Build(records)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, records []model.Project) error {
	f, err := Build(records)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeProjects(f *excelize.File, sheet string, records []model.Project, headerStyle int) error {
	if err := writeHeader(f, sheet, ProjectHeaders, headerStyle); err != nil {
		return err
	}

	for i, p := range records {
		row := []any{
			p.ValueStream, p.SubStream, p.ProjectName, p.ValueStreamLead,
			p.EngineeringManager, p.TaskName,
			cellNumber(p.ResourceCount), cellNumber(p.WeeklyHours),
			cellNumber(p.MonthlyHours), cellNumber(p.QuarterlyHours),
			string(p.Category), cellNumber(p.Target), cellNumber(p.Achieved),
			p.ProgressPercent(), p.Status().String(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}

	for i, header := range ProjectHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		width := 14.0
		if len(header) > 12 {
			width = 22
		}
		if err := f.SetColWidth(sheet, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, records []model.Project, headerStyle int) error {
	if err := writeHeader(f, SheetSummary, []string{"Metric", "Count"}, headerStyle); err != nil {
		return err
	}

	s := pipeline.Summarize(records)
	rows := [][]any{
		{"Total Projects", s.Total},
		{"Capex Projects", s.Capex},
		{"Opex Projects", s.Opex},
		{"At Risk Projects", s.AtRisk},
		{},
	}
	for _, c := range pipeline.CategoryDistribution(records) {
		rows = append(rows, []any{string(c.Category), c.Count})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+2, err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 20)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// cellNumber leaves NaN and infinite values blank; excelize cannot store them.
func cellNumber(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
