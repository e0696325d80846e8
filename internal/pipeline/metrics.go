// Package pipeline derives dashboard metrics, filters records, and runs imports.
package pipeline

import "github.com/theirongolddev/cxdash/internal/model"

// Summarize computes the KPI card counts for records.
func Summarize(records []model.Project) model.Summary {
	var s model.Summary
	for _, p := range records {
		s.Total++
		switch p.Category {
		case model.Capex:
			s.Capex++
		case model.Opex:
			s.Opex++
		}
		if p.IsAtRisk() {
			s.AtRisk++
		}
	}
	return s
}

// CountByCategory returns the number of records with exactly category c.
func CountByCategory(records []model.Project, c model.Category) int {
	n := 0
	for _, p := range records {
		if p.Category == c {
			n++
		}
	}
	return n
}

// AtRiskCount returns the number of records with achieved < target.
func AtRiskCount(records []model.Project) int {
	n := 0
	for _, p := range records {
		if p.IsAtRisk() {
			n++
		}
	}
	return n
}

// AtRisk returns the at-risk records in store order.
func AtRisk(records []model.Project) []model.Project {
	out := []model.Project{}
	for _, p := range records {
		if p.IsAtRisk() {
			out = append(out, p)
		}
	}
	return out
}

// CategoryDistribution returns exactly one entry per known category, in
// model.Categories order, including categories with a zero count.
func CategoryDistribution(records []model.Project) []model.CategoryCount {
	out := make([]model.CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, model.CategoryCount{Category: c, Count: CountByCategory(records, c)})
	}
	return out
}

// ResourcesByProject projects each record to its resource count, in order.
func ResourcesByProject(records []model.Project) []model.ProjectResources {
	out := make([]model.ProjectResources, 0, len(records))
	for _, p := range records {
		out = append(out, model.ProjectResources{ProjectName: p.ProjectName, ResourceCount: p.ResourceCount})
	}
	return out
}

// HoursSeries projects each record to its three hours values, in order.
func HoursSeries(records []model.Project) []model.HoursPoint {
	out := make([]model.HoursPoint, 0, len(records))
	for _, p := range records {
		out = append(out, model.HoursPoint{
			ProjectName:    p.ProjectName,
			WeeklyHours:    p.WeeklyHours,
			MonthlyHours:   p.MonthlyHours,
			QuarterlyHours: p.QuarterlyHours,
		})
	}
	return out
}
