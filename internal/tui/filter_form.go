package tui

import (
	"slices"

	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// filterValues holds the filter form answers. openValueStream is the value
// stream in effect when the form opened.
type filterValues struct {
	search      string
	category    string
	valueStream string
	subStream   string

	openValueStream string
}

// query turns the answers into a filter query. A changed value stream always
// clears the sub stream, as does a sub stream that is not under it.
func (v filterValues) query(records []model.Project) pipeline.Query {
	q := pipeline.Query{
		Search:      v.search,
		Category:    model.Category(v.category),
		ValueStream: v.openValueStream,
	}.WithValueStream(v.valueStream)
	if q.ValueStream == v.openValueStream && slices.Contains(pipeline.SubStreams(records, q.ValueStream), v.subStream) {
		q.SubStream = v.subStream
	}
	return q
}

func anyOption() huh.Option[string] { return huh.NewOption("(any)", "") }

// subStreamOptions lists the sub streams of the selected value stream. After
// the value stream changes only "(any)" is offered; the new sub streams are
// picked once the filter is applied.
func subStreamOptions(vals *filterValues, records []model.Project) []huh.Option[string] {
	if vals.valueStream != vals.openValueStream {
		return []huh.Option[string]{huh.NewOption("(any) reopen to pick a sub stream", "")}
	}
	return stringOptions(pipeline.SubStreams(records, vals.valueStream))
}

func stringOptions(values []string) []huh.Option[string] {
	opts := []huh.Option[string]{anyOption()}
	for _, v := range values {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

// newFilterForm builds the filter dialog. The sub stream options follow the
// selected value stream.
func newFilterForm(vals *filterValues, records []model.Project) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name contains").
				Value(&vals.search),
			huh.NewSelect[string]().
				Title("Category").
				Options(stringOptions(categoryOptions(records))...).
				Value(&vals.category),
			huh.NewSelect[string]().
				Title("Value stream").
				Options(stringOptions(pipeline.ValueStreams(records))...).
				Value(&vals.valueStream),
			huh.NewSelect[string]().
				Title("Sub stream").
				OptionsFunc(func() []huh.Option[string] {
					return subStreamOptions(vals, records)
				}, &vals.valueStream).
				Value(&vals.subStream),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func (a App) openFilterForm() (tea.Model, tea.Cmd, bool) {
	*a.filterVals = filterValues{
		search:      a.query.Search,
		category:    string(a.query.Category),
		valueStream: a.query.ValueStream,
		subStream:   a.query.SubStream,

		openValueStream: a.query.ValueStream,
	}
	a.filterForm = newFilterForm(a.filterVals, a.records).WithWidth(a.modalWidth())
	return a, a.filterForm.Init(), true
}

func (a App) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.filterForm = nil
		return a, nil
	}

	form, cmd := a.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.filterForm = f
	}

	switch a.filterForm.State {
	case huh.StateCompleted:
		a.setQuery(a.filterVals.query(a.records))
		a.filterForm = nil
		return a, nil
	case huh.StateAborted:
		a.filterForm = nil
		return a, nil
	}
	return a, cmd
}
