package pipeline

import (
	"math"
	"testing"

	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/source"
)

func records() []model.Project {
	return []model.Project{
		{ProjectName: "Alpha", ValueStream: "Payments", SubStream: "Billing", Category: model.Capex, Target: 10, Achieved: 5, ResourceCount: 3},
		{ProjectName: "beta", ValueStream: "Payments", SubStream: "Refunds", Category: model.Opex, Target: 10, Achieved: 10, ResourceCount: 2},
		{ProjectName: "Gamma", ValueStream: "AOR", SubStream: "CLM", Category: model.Capex, Target: math.NaN(), Achieved: 1, ResourceCount: math.NaN()},
		{ProjectName: "ALPHABET", ValueStream: "AOR", SubStream: "Billing", Category: "capex", Target: 0, Achieved: -1},
	}
}

func names(ps []model.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ProjectName
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSummarize(t *testing.T) {
	s := Summarize(records())
	if s.Total != 4 || s.Capex != 2 || s.Opex != 1 {
		t.Errorf("Summarize = %+v", s)
	}
	// Alpha (5<10) and ALPHABET (-1<0); NaN target never counts.
	if s.AtRisk != 2 {
		t.Errorf("AtRisk = %d, want 2", s.AtRisk)
	}
	if AtRiskCount(records()) != s.AtRisk {
		t.Errorf("AtRiskCount disagrees with Summarize")
	}
	if got := names(AtRisk(records())); !equalStrings(got, []string{"Alpha", "ALPHABET"}) {
		t.Errorf("AtRisk = %v", got)
	}
}

func TestAtRiskCount_Empty(t *testing.T) {
	if n := AtRiskCount(nil); n != 0 {
		t.Errorf("AtRiskCount(nil) = %d", n)
	}
	if got := AtRisk(nil); got == nil || len(got) != 0 {
		t.Errorf("AtRisk(nil) = %v, want empty non-nil", got)
	}
}

func TestCategoryDistribution_FixedOrder(t *testing.T) {
	for _, in := range [][]model.Project{nil, records(), {{Category: model.Opex}}} {
		d := CategoryDistribution(in)
		if len(d) != 2 || d[0].Category != model.Capex || d[1].Category != model.Opex {
			t.Fatalf("CategoryDistribution = %+v", d)
		}
	}
	d := CategoryDistribution(records())
	if d[0].Count != 2 || d[1].Count != 1 {
		t.Errorf("counts = %d/%d", d[0].Count, d[1].Count)
	}
}

func TestChartProjections(t *testing.T) {
	res := ResourcesByProject(records())
	if len(res) != 4 || res[0].ProjectName != "Alpha" || res[0].ResourceCount != 3 {
		t.Errorf("ResourcesByProject = %+v", res)
	}
	if !math.IsNaN(res[2].ResourceCount) {
		t.Errorf("NaN should propagate, got %v", res[2].ResourceCount)
	}

	in := []model.Project{{ProjectName: "P", WeeklyHours: 1, MonthlyHours: 2, QuarterlyHours: 3}}
	hs := HoursSeries(in)
	if len(hs) != 1 || hs[0] != (model.HoursPoint{ProjectName: "P", WeeklyHours: 1, MonthlyHours: 2, QuarterlyHours: 3}) {
		t.Errorf("HoursSeries = %+v", hs)
	}
}

func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	in := records()
	got := Apply(in, Query{})
	if !equalStrings(names(got), names(in)) {
		t.Errorf("Apply(empty) = %v", names(got))
	}
	if !(Query{}).Empty() {
		t.Error("Query{}.Empty() = false")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"search case-insensitive", Query{Search: "alp"}, []string{"Alpha", "ALPHABET"}},
		{"category exact", Query{Category: model.Capex}, []string{"Alpha", "Gamma"}},
		{"value stream", Query{ValueStream: "AOR"}, []string{"Gamma", "ALPHABET"}},
		{"sub stream", Query{SubStream: "Billing"}, []string{"Alpha", "ALPHABET"}},
		{"and", Query{Search: "a", ValueStream: "Payments", Category: model.Opex}, []string{"beta"}},
		{"no match", Query{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(records(), tt.q))
			if !equalStrings(got, tt.want) {
				t.Errorf("Apply(%+v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestWithValueStream_ResetsSubStream(t *testing.T) {
	q := Query{ValueStream: "Payments", SubStream: "Billing"}

	same := q.WithValueStream("Payments")
	if same.SubStream != "Billing" {
		t.Errorf("same value stream should keep sub stream, got %q", same.SubStream)
	}
	changed := q.WithValueStream("AOR")
	if changed.ValueStream != "AOR" || changed.SubStream != "" {
		t.Errorf("WithValueStream(AOR) = %+v", changed)
	}
	cleared := q.WithValueStream("")
	if cleared.SubStream != "" {
		t.Errorf("clearing value stream should clear sub stream")
	}
}

func TestStreamOptions(t *testing.T) {
	if got := ValueStreams(records()); !equalStrings(got, []string{"Payments", "AOR"}) {
		t.Errorf("ValueStreams = %v", got)
	}
	if got := SubStreams(records(), "Payments"); !equalStrings(got, []string{"Billing", "Refunds"}) {
		t.Errorf("SubStreams(Payments) = %v", got)
	}
	if got := SubStreams(records(), ""); !equalStrings(got, []string{"Billing", "Refunds", "CLM"}) {
		t.Errorf("SubStreams(all) = %v", got)
	}
	if got := CategoriesIn(records()); len(got) != 3 || got[2] != "capex" {
		t.Errorf("CategoriesIn = %v", got)
	}
}

func TestPaginate(t *testing.T) {
	in := make([]model.Project, 12)
	page, info := Paginate(in, 3, 5)
	if len(page) != 2 || info.Pages != 3 || info.Start != 10 || info.End != 12 {
		t.Errorf("page 3 = %d items, %+v", len(page), info)
	}
	_, info = Paginate(in, 99, 5)
	if info.Page != 3 {
		t.Errorf("page should clamp to 3, got %d", info.Page)
	}
	page, info = Paginate(nil, 1, 5)
	if len(page) != 0 || info.Pages != 1 || info.Total != 0 {
		t.Errorf("empty = %d items, %+v", len(page), info)
	}
}

func TestSeedMatchesDashboardCounts(t *testing.T) {
	s := Summarize(source.Seed())
	if s.Total != 4 || s.Capex != 2 || s.Opex != 2 || s.AtRisk != 3 {
		t.Errorf("seed summary = %+v", s)
	}
}
