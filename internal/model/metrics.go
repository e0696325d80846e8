package model

// Summary holds the KPI card counts for a record set.
type Summary struct {
	Total  int
	Capex  int
	Opex   int
	AtRisk int
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category Category
	Count    int
}

// ProjectResources is one bar of the resources-per-project chart.
type ProjectResources struct {
	ProjectName   string
	ResourceCount float64
}

// HoursPoint is one x position of the hours trend chart.
type HoursPoint struct {
	ProjectName    string
	WeeklyHours    float64
	MonthlyHours   float64
	QuarterlyHours float64
}
