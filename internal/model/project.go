// Package model defines domain types for cxdash project records and summaries.
package model

import "math"

// Category classifies a project's spend. Values are not validated on import.
type Category string

// Known categories. Anything else is carried through as-is.
const (
	Capex Category = "Capex"
	Opex  Category = "Opex"
)

// Categories lists the known categories in display order.
var Categories = []Category{Capex, Opex}

// Project is one row of the dashboard. Numeric fields are float64 so a value
// that could not be read as a number survives as NaN instead of failing the row.
type Project struct {
	ValueStream        string
	SubStream          string
	ProjectName        string
	ValueStreamLead    string
	EngineeringManager string
	TaskName           string
	ResourceCount      float64
	WeeklyHours        float64
	MonthlyHours       float64
	QuarterlyHours     float64
	Category           Category
	Target             float64
	Achieved           float64
}

// Status is the target-vs-achieved verdict for a project.
type Status int

const (
	StatusUnknown Status = iota
	StatusOnTrack
	StatusAtRisk
)

func (s Status) String() string {
	switch s {
	case StatusOnTrack:
		return "On Track"
	case StatusAtRisk:
		return "At Risk"
	default:
		return "Unknown"
	}
}

// IsAtRisk reports whether achieved is strictly below target.
// Comparisons against NaN are false, so unreadable numbers are never at risk.
func (p Project) IsAtRisk() bool {
	return p.Achieved < p.Target
}

// Status returns OnTrack, AtRisk, or Unknown when either operand is NaN.
func (p Project) Status() Status {
	if math.IsNaN(p.Achieved) || math.IsNaN(p.Target) {
		return StatusUnknown
	}
	if p.Achieved >= p.Target {
		return StatusOnTrack
	}
	return StatusAtRisk
}

// ProgressPercent returns round-half-up(100 * achieved / target).
//
// The result is always finite: non-finite operands give 0, and a zero target
// gives 100 when achieved is non-negative and 0 otherwise.
func (p Project) ProgressPercent() float64 {
	a, t := p.Achieved, p.Target
	if !finite(a) || !finite(t) {
		return 0
	}
	if t == 0 {
		if a >= 0 {
			return 100
		}
		return 0
	}
	pct := math.Floor(100*a/t + 0.5)
	if !finite(pct) {
		return 0
	}
	return pct
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
