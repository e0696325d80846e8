// Package source parses CSV and JSON project imports into model records.
package source

import (
	"encoding/json"
	"errors"

	"github.com/theirongolddev/cxdash/internal/model"
)

// Format identifies an import adapter variant.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Import failures. Either one aborts the whole import.
var (
	ErrInvalidFormat = errors.New("source: invalid format")
	ErrInvalidShape  = errors.New("source: expected an array of objects")
)

// Adapter turns raw import bytes into project records.
type Adapter interface {
	Format() Format
	Parse(data []byte) (Batch, error)
}

// Batch is the output of one successful Parse.
type Batch struct {
	Records []model.Project
	// Raw is the parsed JSON array exactly as received. Empty for CSV.
	Raw json.RawMessage
	// Warnings counts numeric fields that could not be read as numbers.
	Warnings int
}

// Wire field names. The aliases are misspellings written by older exports.
const (
	fieldValueStream        = "valueStream"
	fieldSubStream          = "subStream"
	fieldProjectName        = "projectName"
	fieldValueStreamLead    = "valueStreamLead"
	fieldEngineeringManager = "engineeringManager"
	fieldTaskName           = "taskName"
	fieldResourceCount      = "resourceCount"
	fieldWeeklyHours        = "weeklyHours"
	fieldMonthlyHours       = "monthlyHours"
	fieldQuarterlyHours     = "quarterlyHours"
	fieldCategory           = "category"
	fieldTarget             = "target"
	fieldAchieved           = "achieved"
)

var aliases = map[string]string{
	fieldMonthlyHours:   "montlyHours",
	fieldQuarterlyHours: "quaterlyHours",
	fieldCategory:       "catagaory",
}

// textField and numField bind a wire name to a record field.
type textField struct {
	name string
	set  func(*model.Project, string)
}

type numField struct {
	name string
	set  func(*model.Project, float64)
}

var textFields = []textField{
	{fieldValueStream, func(p *model.Project, v string) { p.ValueStream = v }},
	{fieldSubStream, func(p *model.Project, v string) { p.SubStream = v }},
	{fieldProjectName, func(p *model.Project, v string) { p.ProjectName = v }},
	{fieldValueStreamLead, func(p *model.Project, v string) { p.ValueStreamLead = v }},
	{fieldEngineeringManager, func(p *model.Project, v string) { p.EngineeringManager = v }},
	{fieldTaskName, func(p *model.Project, v string) { p.TaskName = v }},
	{fieldCategory, func(p *model.Project, v string) { p.Category = model.Category(v) }},
}

var numFields = []numField{
	{fieldResourceCount, func(p *model.Project, v float64) { p.ResourceCount = v }},
	{fieldWeeklyHours, func(p *model.Project, v float64) { p.WeeklyHours = v }},
	{fieldMonthlyHours, func(p *model.Project, v float64) { p.MonthlyHours = v }},
	{fieldQuarterlyHours, func(p *model.Project, v float64) { p.QuarterlyHours = v }},
	{fieldTarget, func(p *model.Project, v float64) { p.Target = v }},
	{fieldAchieved, func(p *model.Project, v float64) { p.Achieved = v }},
}

// lookup resolves name, then its alias, against a presence check.
func lookup[V any](name string, get func(string) (V, bool)) (V, bool) {
	if v, ok := get(name); ok {
		return v, true
	}
	if alt, ok := aliases[name]; ok {
		return get(alt)
	}
	var zero V
	return zero, false
}

// Notice returns the user-facing title and message for an import error.
func Notice(err error) (title, body string) {
	switch {
	case errors.Is(err, ErrInvalidShape):
		return "Invalid JSON", "Please provide an array of objects."
	case errors.Is(err, ErrInvalidFormat):
		return "Error", "Invalid JSON format."
	default:
		return "Error", err.Error()
	}
}

// ForFormat returns the adapter for f.
func ForFormat(f Format) (Adapter, error) {
	switch f {
	case FormatCSV:
		return CSV{}, nil
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, errors.New("source: unknown format " + string(f))
	}
}
