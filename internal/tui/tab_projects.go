package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/tui/components"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// projectsState holds the projects tab state.
type projectsState struct {
	cursor int // row within the current page
	page   int // 1-based

	searching   bool
	searchInput textinput.Model
	// searchPrev is restored when a search is cancelled with Esc.
	searchPrev string
}

func newSearchInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "project name"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.Width = 40
	ti.SetValue(value)
	return ti
}

// currentPage returns the visible rows and page info for the filtered view.
func (a App) currentPage() ([]model.Project, pipeline.PageInfo) {
	return pipeline.Paginate(a.filtered, a.proj.page, a.pageSize())
}

func (a *App) projectsCursorUp() {
	if a.proj.cursor > 0 {
		a.proj.cursor--
		return
	}
	if a.proj.page > 1 {
		a.proj.page--
		a.proj.cursor = a.pageSize() - 1
		a.recompute()
	}
}

func (a *App) projectsCursorDown() {
	rows, info := a.currentPage()
	if a.proj.cursor < len(rows)-1 {
		a.proj.cursor++
		return
	}
	if info.Page < info.Pages {
		a.proj.page++
		a.proj.cursor = 0
		a.recompute()
	}
}

func (a *App) gotoPage(page int) {
	a.proj.page = page
	a.proj.cursor = 0
	a.recompute()
}

// updateProjectsKey handles projects tab keys. handled is false for keys the
// tab does not use, so global bindings still apply.
func (a App) updateProjectsKey(key string) (tea.Model, tea.Cmd, bool) {
	_, info := a.currentPage()

	switch key {
	case "/":
		a.proj.searching = true
		a.proj.searchPrev = a.query.Search
		a.proj.searchInput = newSearchInput(a.query.Search)
		return a, a.proj.searchInput.Focus(), true
	case "esc":
		if !a.query.Empty() {
			a.setQuery(pipeline.Query{})
		}
		return a, nil, true
	case "X":
		a.setQuery(pipeline.Query{})
		return a, nil, true
	case "c":
		q := a.query
		q.Category = model.Category(cycle(categoryOptions(a.records), string(q.Category)))
		a.setQuery(q)
		return a, nil, true
	case "v":
		next := cycle(pipeline.ValueStreams(a.records), a.query.ValueStream)
		a.setQuery(a.query.WithValueStream(next))
		return a, nil, true
	case "b":
		q := a.query
		q.SubStream = cycle(pipeline.SubStreams(a.records, q.ValueStream), q.SubStream)
		a.setQuery(q)
		return a, nil, true
	case "f":
		return a.openFilterForm()
	case "j", "down":
		a.projectsCursorDown()
		return a, nil, true
	case "k", "up":
		a.projectsCursorUp()
		return a, nil, true
	case "]", "pgdown", "n":
		if info.Page < info.Pages {
			a.gotoPage(info.Page + 1)
		}
		return a, nil, true
	case "[", "pgup", "N":
		if info.Page > 1 {
			a.gotoPage(info.Page - 1)
		}
		return a, nil, true
	case "g", "home":
		a.gotoPage(1)
		return a, nil, true
	case "G", "end":
		a.gotoPage(info.Pages)
		return a, nil, true
	}
	return a, nil, false
}

// updateProjectsSearch handles key events while in search mode. The filter
// follows the input as it is typed.
func (a App) updateProjectsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.proj.searching = false
		a.proj.searchInput.Blur()
		return a, nil
	case "esc":
		q := a.query
		q.Search = a.proj.searchPrev
		a.setQuery(q)
		a.proj.searching = false
		a.proj.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.proj.searchInput, cmd = a.proj.searchInput.Update(msg)
	if v := a.proj.searchInput.Value(); v != a.query.Search {
		q := a.query
		q.Search = v
		a.setQuery(q)
	}
	return a, cmd
}

func categoryOptions(records []model.Project) []string {
	cats := pipeline.CategoriesIn(records)
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// cycle steps through "" followed by options, wrapping back to "".
// A current value missing from options restarts at the first option.
func cycle(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	for i, o := range options {
		if o == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return options[0]
}

func (a App) renderProjectsTab(cw, h int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	innerW := components.CardInnerWidth(cw)
	rows, info := a.currentPage()

	var body strings.Builder
	if a.proj.searching {
		body.WriteString(a.proj.searchInput.View())
		body.WriteString("\n\n")
	}

	if len(rows) == 0 {
		if len(a.records) == 0 {
			body.WriteString(mutedStyle.Render("No projects loaded. Press [i] to paste JSON or [u] to upload a CSV file."))
		} else {
			body.WriteString(mutedStyle.Render("No projects match the current filters. Press [X] to clear them."))
		}
	} else {
		body.WriteString(renderProjectTable(rows, a.proj.cursor, innerW))
	}

	body.WriteString("\n\n")
	pageLine := accentStyle.Render(fmt.Sprintf("Page %d of %d", info.Page, info.Pages))
	if info.Total > 0 {
		pageLine += mutedStyle.Render(fmt.Sprintf("  ·  rows %d-%d of %d", info.Start+1, info.End, info.Total))
	}
	body.WriteString(pageLine)
	body.WriteString("\n")
	body.WriteString(hintStyle.Render("[/] search  [c]ategory  [v]alue stream  su[b] stream  [f]ilters  [X] clear  [ ] page  [j/k] select"))

	title := "Projects"
	if !a.query.Empty() {
		title = fmt.Sprintf("Projects (%d of %d)", len(a.filtered), len(a.records))
	}
	table := components.ContentCard(title, body.String(), cw)

	if len(rows) == 0 || a.proj.cursor >= len(rows) {
		return table
	}

	// Details for the selected row, when there is room below the table
	detail := components.ContentCard("Project Details", renderProjectDetail(rows[a.proj.cursor], innerW), cw)
	if lipgloss.Height(table)+lipgloss.Height(detail) > h {
		return table
	}
	return table + "\n" + detail
}

// column is one column of the project table. render returns an unpadded,
// styled cell no wider than w.
type column struct {
	title  string
	width  int
	right  bool
	render func(p model.Project, w int) string
}

func textColumn(title string, width int, get func(model.Project) string) column {
	return column{title: title, width: width, render: func(p model.Project, w int) string {
		t := theme.Active
		return lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render(cli.Truncate(get(p), w))
	}}
}

func numberColumn(title string, width int, get func(model.Project) float64) column {
	return column{title: title, width: width, right: true, render: func(p model.Project, w int) string {
		t := theme.Active
		v := get(p)
		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		s := cli.FormatValue(v)
		if s == cli.NotANumber {
			style = style.Foreground(t.TextDim)
		}
		return style.Render(cli.Truncate(s, w))
	}}
}

// projectColumns picks the columns that fit in width. The project name
// column absorbs whatever space is left.
func projectColumns(width int) []column {
	barW := 6
	if width >= 110 {
		barW = 10
	}

	fixed := []column{
		{title: "Category", width: 8, render: func(p model.Project, w int) string {
			return components.CategoryTag(model.Category(cli.Truncate(string(p.Category), w)))
		}},
		numberColumn("Target", 7, func(p model.Project) float64 { return p.Target }),
		numberColumn("Achieved", 8, func(p model.Project) float64 { return p.Achieved }),
		{title: "Progress", width: barW + 6, render: func(p model.Project, _ int) string {
			return components.TargetBar(p.ProgressPercent(), p.Status(), barW)
		}},
		{title: "Status", width: 10, render: func(p model.Project, _ int) string {
			return components.StatusTag(p.Status())
		}},
	}

	var extra []column
	if width >= 110 {
		extra = append(extra,
			textColumn("Value Stream", 14, func(p model.Project) string { return p.ValueStream }),
			textColumn("Sub Stream", 12, func(p model.Project) string { return p.SubStream }),
			numberColumn("Res", 4, func(p model.Project) float64 { return p.ResourceCount }),
		)
	}
	if width >= 160 {
		extra = append(extra,
			textColumn("Lead", 14, func(p model.Project) string { return p.ValueStreamLead }),
			textColumn("Manager", 14, func(p model.Project) string { return p.EngineeringManager }),
		)
	}

	used := 2 // cursor marker
	for _, c := range extra {
		used += c.width + 1
	}
	for _, c := range fixed {
		used += c.width + 1
	}
	nameW := max(width-used, 10)

	cols := []column{textColumn("Project", nameW, func(p model.Project) string { return p.ProjectName })}
	cols = append(cols, extra...)
	return append(cols, fixed...)
}

// renderProjectTable renders rows with a header. cursor marks the selected
// row; pass -1 for none.
func renderProjectTable(rows []model.Project, cursor, width int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	cols := projectColumns(width)

	var b strings.Builder
	b.WriteString(space.Render("  "))
	for i, c := range cols {
		if i > 0 {
			b.WriteString(space.Render(" "))
		}
		b.WriteString(padCell(headerStyle.Render(cli.Truncate(c.title, c.width)), c.width, c.right))
	}
	b.WriteString("\n")

	lineW := 2
	for _, c := range cols {
		lineW += c.width + 1
	}
	b.WriteString(sepStyle.Render(strings.Repeat("─", lineW-1)))

	for i, p := range rows {
		b.WriteString("\n")
		if i == cursor {
			b.WriteString(markerStyle.Render("▸ "))
		} else {
			b.WriteString(space.Render("  "))
		}
		for j, c := range cols {
			if j > 0 {
				b.WriteString(space.Render(" "))
			}
			b.WriteString(padCell(c.render(p, c.width), c.width, c.right))
		}
	}
	return b.String()
}

// padCell pads a styled cell to w columns with surface background.
func padCell(cell string, w int, right bool) string {
	gap := w - lipgloss.Width(cell)
	if gap <= 0 {
		return cell
	}
	fill := lipgloss.NewStyle().Background(theme.Active.Surface).Render(strings.Repeat(" ", gap))
	if right {
		return fill + cell
	}
	return cell + fill
}

func renderProjectDetail(p model.Project, w int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	text := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	pairs := []struct{ label, value string }{
		{"Project", text(p.ProjectName)},
		{"Task", text(p.TaskName)},
		{"Value Stream", text(p.ValueStream)},
		{"Sub Stream", text(p.SubStream)},
		{"Lead", text(p.ValueStreamLead)},
		{"Manager", text(p.EngineeringManager)},
		{"Resources", cli.FormatValue(p.ResourceCount)},
		{"Weekly Hours", cli.FormatValue(p.WeeklyHours)},
		{"Monthly Hours", cli.FormatValue(p.MonthlyHours)},
		{"Quarterly Hours", cli.FormatValue(p.QuarterlyHours)},
	}

	// Two columns of label/value pairs
	colW := w / 2
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		left := labelStyle.Render(fmt.Sprintf("%-16s", pairs[i].label)) + valueStyle.Render(cli.Truncate(pairs[i].value, colW-17))
		b.WriteString(padCell(left, colW, false))
		if i+1 < len(pairs) {
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", pairs[i+1].label)))
			b.WriteString(valueStyle.Render(cli.Truncate(pairs[i+1].value, w-colW-17)))
		}
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Progress")))
	b.WriteString(components.TargetBar(p.ProgressPercent(), p.Status(), min(30, max(w-40, 5))))
	b.WriteString(labelStyle.Render("  "))
	b.WriteString(components.StatusTag(p.Status()))
	return b.String()
}
