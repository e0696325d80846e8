package pipeline

import (
	"strings"

	"github.com/theirongolddev/cxdash/internal/model"
)

// Query is the active filter set. An empty field places no constraint.
type Query struct {
	Search      string
	Category    model.Category
	ValueStream string
	SubStream   string
}

// Empty reports whether q filters nothing.
func (q Query) Empty() bool {
	return q == Query{}
}

// WithValueStream sets the value stream. Changing it clears the sub stream,
// since the old sub stream may not exist under the new value stream.
func (q Query) WithValueStream(vs string) Query {
	if vs != q.ValueStream {
		q.SubStream = ""
	}
	q.ValueStream = vs
	return q
}

// Match reports whether p passes every constraint in q.
func (q Query) Match(p model.Project) bool {
	if q.Search != "" && !containsIgnoreCase(p.ProjectName, q.Search) {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.ValueStream != "" && p.ValueStream != q.ValueStream {
		return false
	}
	if q.SubStream != "" && p.SubStream != q.SubStream {
		return false
	}
	return true
}

// Apply returns the records matching q, preserving their relative order.
func Apply(records []model.Project, q Query) []model.Project {
	out := make([]model.Project, 0, len(records))
	for _, p := range records {
		if q.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ValueStreams returns the distinct value streams in first-seen order.
func ValueStreams(records []model.Project) []string {
	return distinct(records, func(p model.Project) (string, bool) {
		return p.ValueStream, true
	})
}

// SubStreams returns the distinct sub streams among records under valueStream,
// or among all records when valueStream is empty.
func SubStreams(records []model.Project, valueStream string) []string {
	return distinct(records, func(p model.Project) (string, bool) {
		return p.SubStream, valueStream == "" || p.ValueStream == valueStream
	})
}

// CategoriesIn returns the distinct categories present, known ones first.
func CategoriesIn(records []model.Project) []model.Category {
	out := append([]model.Category(nil), model.Categories...)
	seen := map[model.Category]bool{model.Capex: true, model.Opex: true}
	for _, p := range records {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func distinct(records []model.Project, key func(model.Project) (string, bool)) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, p := range records {
		k, ok := key(p)
		if !ok || k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// PageInfo describes one page of a paginated view. Start and End are
// zero-based offsets into the full list, End exclusive.
type PageInfo struct {
	Page  int
	Pages int
	Total int
	Start int
	End   int
}

// Paginate returns the records on page (1-based), clamped into range.
// There is always at least one page, even when records is empty.
func Paginate(records []model.Project, page, size int) ([]model.Project, PageInfo) {
	if size < 1 {
		size = 1
	}
	total := len(records)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return records[start:end], PageInfo{Page: page, Pages: pages, Total: total, Start: start, End: end}
}
