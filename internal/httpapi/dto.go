package httpapi

import (
	"math"
	"time"

	"github.com/theirongolddev/cxdash/internal/model"
)

// ProjectDTO is the wire form of a project. Numbers that could not be read
// on import are null.
type ProjectDTO struct {
	ValueStream        string   `json:"valueStream"`
	SubStream          string   `json:"subStream"`
	ProjectName        string   `json:"projectName"`
	ValueStreamLead    string   `json:"valueStreamLead"`
	EngineeringManager string   `json:"engineeringManager"`
	TaskName           string   `json:"taskName"`
	ResourceCount      *float64 `json:"resourceCount"`
	WeeklyHours        *float64 `json:"weeklyHours"`
	MonthlyHours       *float64 `json:"monthlyHours"`
	QuarterlyHours     *float64 `json:"quarterlyHours"`
	Category           string   `json:"category"`
	Target             *float64 `json:"target"`
	Achieved           *float64 `json:"achieved"`
	ProgressPercent    float64  `json:"progress_percent"`
	Status             string   `json:"status"`
}

func projectDTO(p model.Project) ProjectDTO {
	return ProjectDTO{
		ValueStream:        p.ValueStream,
		SubStream:          p.SubStream,
		ProjectName:        p.ProjectName,
		ValueStreamLead:    p.ValueStreamLead,
		EngineeringManager: p.EngineeringManager,
		TaskName:           p.TaskName,
		ResourceCount:      number(p.ResourceCount),
		WeeklyHours:        number(p.WeeklyHours),
		MonthlyHours:       number(p.MonthlyHours),
		QuarterlyHours:     number(p.QuarterlyHours),
		Category:           string(p.Category),
		Target:             number(p.Target),
		Achieved:           number(p.Achieved),
		ProgressPercent:    p.ProgressPercent(),
		Status:             p.Status().String(),
	}
}

func projectDTOs(records []model.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(records))
	for i, p := range records {
		out[i] = projectDTO(p)
	}
	return out
}

// number maps NaN and infinities to nil so they encode as null.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// CategoryCountDTO is one slice of the category distribution.
type CategoryCountDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func categoryDTOs(dist []model.CategoryCount) []CategoryCountDTO {
	out := make([]CategoryCountDTO, len(dist))
	for i, d := range dist {
		out[i] = CategoryCountDTO{Category: string(d.Category), Count: d.Count}
	}
	return out
}

// SummaryDTO is served at /v1/summary.
type SummaryDTO struct {
	Total      int                `json:"total"`
	Capex      int                `json:"capex"`
	Opex       int                `json:"opex"`
	AtRisk     int                `json:"at_risk"`
	Categories []CategoryCountDTO `json:"categories"`
}

// ProjectPage is served at /v1/projects.
type ProjectPage struct {
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
	Total int          `json:"total"`
	Items []ProjectDTO `json:"items"`
}

// ResourcesDTO is one bar of the resources chart.
type ResourcesDTO struct {
	ProjectName   string   `json:"projectName"`
	ResourceCount *float64 `json:"resourceCount"`
}

// HoursDTO is one point of the hours trend.
type HoursDTO struct {
	ProjectName    string   `json:"projectName"`
	WeeklyHours    *float64 `json:"weeklyHours"`
	MonthlyHours   *float64 `json:"monthlyHours"`
	QuarterlyHours *float64 `json:"quarterlyHours"`
}

// FiltersDTO lists the options for each filter.
type FiltersDTO struct {
	Categories   []string `json:"categories"`
	ValueStreams []string `json:"value_streams"`
	SubStreams   []string `json:"sub_streams"`
}

// ImportResponse is returned by the import endpoints.
type ImportResponse struct {
	BatchID  string `json:"batch_id"`
	Count    int    `json:"count"`
	Warnings int    `json:"warnings"`
}

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the reply of POST /v1/chat.
type ChatResponse struct {
	Answer string `json:"answer"`
	Failed bool   `json:"failed,omitempty"`
}

// Event types.
const (
	EventImport        = "import"
	EventForwarded     = "forwarded"
	EventForwardFailed = "forward_failed"
)

// Event records one import or forward outcome.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	BatchID   string    `json:"batch_id"`
	Format    string    `json:"format,omitempty"`
	Count     int       `json:"count,omitempty"`
	Warnings  int       `json:"warnings,omitempty"`
	Error     string    `json:"error,omitempty"`
}
