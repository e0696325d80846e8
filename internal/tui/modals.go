package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/report"
	"github.com/theirongolddev/cxdash/internal/source"
	"github.com/theirongolddev/cxdash/internal/tui/components"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Notice texts shown after a JSON import.
const (
	noticeImportedForwarded = "JSON data imported & posted to API."
	noticeImported          = "JSON data imported."
	noticeInvalidCSV        = "Invalid CSV format."
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAtRisk
	modalJSON
	modalCSV
	modalExport
	modalNotice
)

// modalState tracks the single open dialog, if any.
type modalState struct {
	kind  modalKind
	json  textarea.Model
	path  textinput.Model
	title string
	body  string
	// returnTo is reopened when a notice is dismissed.
	returnTo modalKind
}

type fileReadMsg struct {
	path string
	data []byte
	err  error
}

type forwardDoneMsg struct {
	batchID string
	err     error
}

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

func newModalState() modalState {
	ta := textarea.New()
	ta.Placeholder = `[{"projectName": "Demo", "category": "Capex", "target": 80, "achieved": 60}]`
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(10)

	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 50

	return modalState{json: ta, path: ti}
}

func (m modalState) open() bool { return m.kind != modalNone }

func (m *modalState) resize(width int) {
	inner := max(width-8, 20)
	m.json.SetWidth(inner)
	m.path.Width = inner - 2
}

func (m *modalState) openAtRisk() {
	m.kind = modalAtRisk
}

func (m *modalState) openJSON(width int) tea.Cmd {
	m.kind = modalJSON
	m.resize(width)
	return m.json.Focus()
}

func (m *modalState) openPath(kind modalKind, placeholder string) tea.Cmd {
	m.kind = kind
	m.path.Reset()
	m.path.Placeholder = placeholder
	return m.path.Focus()
}

func (m *modalState) showNotice(title, body string, returnTo modalKind) {
	m.json.Blur()
	m.path.Blur()
	m.kind = modalNotice
	m.title = title
	m.body = body
	m.returnTo = returnTo
}

func (m *modalState) close() {
	m.json.Blur()
	m.path.Blur()
	m.kind = modalNone
	m.returnTo = modalNone
}

func (a App) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return a.forwardToModalInput(msg)
	}

	switch a.modal.kind {
	case modalAtRisk:
		switch key.String() {
		case "esc", "enter", "q", "a":
			a.modal.close()
		}
		return a, nil

	case modalNotice:
		switch key.String() {
		case "esc", "enter", "q", " ":
			back := a.modal.returnTo
			a.modal.close()
			if back == modalJSON {
				a.modal.kind = modalJSON
				return a, a.modal.json.Focus()
			}
		}
		return a, nil

	case modalJSON:
		switch key.String() {
		case "esc":
			a.modal.close()
			return a, nil
		case "ctrl+s":
			return a.submitJSON()
		}

	case modalCSV, modalExport:
		switch key.String() {
		case "esc":
			a.modal.close()
			return a, nil
		case "enter":
			return a.submitPath()
		}
	}

	return a.forwardToModalInput(msg)
}

func (a App) forwardToModalInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.modal.kind {
	case modalJSON:
		a.modal.json, cmd = a.modal.json.Update(msg)
	case modalCSV, modalExport:
		a.modal.path, cmd = a.modal.path.Update(msg)
	}
	return a, cmd
}

// submitJSON imports the pasted text. A rejected payload leaves the store
// and the text untouched; an accepted one clears the text, closes the dialog
// and forwards the array in the background.
func (a App) submitJSON() (tea.Model, tea.Cmd) {
	res, err := pipeline.Ingest(a.store, source.JSON{}, []byte(a.modal.json.Value()))
	if err != nil {
		a.log.Warn("json import rejected", "err", err)
		title, body := source.Notice(err)
		a.modal.showNotice(title, body, modalJSON)
		return a, nil
	}

	a.log.Info("json import", "batch", res.BatchID, "count", res.Count, "warnings", res.Warnings)
	a.reload()
	a.modal.json.Reset()

	if a.canForward() {
		a.modal.showNotice("Success", noticeImportedForwarded, modalNone)
		return a, forwardCmd(a.remote, res)
	}
	a.modal.showNotice("Success", noticeImported, modalNone)
	return a, nil
}

func (a App) submitPath() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(a.modal.path.Value())
	if path == "" {
		return a, nil
	}
	kind := a.modal.kind
	a.modal.close()

	if kind == modalExport {
		a.flash = "exporting..."
		return a, exportCmd(path, a.filtered)
	}
	return a, readFileCmd(path)
}

// ingestFile appends a CSV file read by readFileCmd. Success shows no
// dialog, only a status bar message.
func (a App) ingestFile(msg fileReadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.Warn("reading csv", "path", msg.path, "err", msg.err)
		a.modal.showNotice("Error", msg.err.Error(), modalNone)
		return a, nil
	}

	res, err := pipeline.Ingest(a.store, source.CSV{}, msg.data)
	if err != nil {
		a.log.Warn("csv import rejected", "path", msg.path, "err", err)
		body := noticeInvalidCSV
		if !errors.Is(err, source.ErrInvalidFormat) {
			body = err.Error()
		}
		a.modal.showNotice("Error", body, modalNone)
		return a, nil
	}

	a.log.Info("csv import", "path", msg.path, "batch", res.BatchID, "count", res.Count, "warnings", res.Warnings)
	a.reload()
	a.flash = fmt.Sprintf("imported %d records from %s", res.Count, filepath.Base(msg.path))
	return a, nil
}

// canForward reports whether JSON imports are posted to the import endpoint.
func (a App) canForward() bool {
	return a.cfg.Remote.ForwardImports && a.remote != nil && a.remote.CanForward()
}

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // user-chosen import file
		return fileReadMsg{path: path, data: data, err: err}
	}
}

func forwardCmd(c *remote.Client, res pipeline.ImportResult) tea.Cmd {
	return func() tea.Msg {
		err := c.ForwardProjects(context.Background(), res.Raw)
		return forwardDoneMsg{batchID: res.BatchID, err: err}
	}
}

func exportCmd(path string, records []model.Project) tea.Cmd {
	return func() tea.Msg {
		err := report.WriteFile(path, records)
		return exportDoneMsg{path: path, rows: len(records), err: err}
	}
}

func (a App) renderModal() string {
	t := theme.Active
	w := a.modalWidth()

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch a.modal.kind {
	case modalAtRisk:
		w = a.contentWidth() - 4
		risky := pipeline.AtRisk(a.records)
		var body string
		if len(risky) == 0 {
			body = mutedStyle.Render("No projects are at risk.")
		} else {
			body = renderProjectTable(risky, -1, components.CardInnerWidth(w)-2)
		}
		body += "\n\n" + hintStyle.Render("[Esc] close")
		return components.Modal("At Risk Projects", body, w)

	case modalJSON:
		body := mutedStyle.Render("Paste a JSON array of project objects.") + "\n\n" +
			a.modal.json.View() + "\n\n" +
			hintStyle.Render("[Ctrl+S] import  [Esc] cancel")
		return components.Modal("Import JSON Data", body, w)

	case modalCSV:
		body := mutedStyle.Render("Path to a CSV file with a header row:") + "\n\n" +
			a.modal.path.View() + "\n\n" +
			hintStyle.Render("[Enter] upload  [Esc] cancel")
		return components.Modal("Upload CSV File", body, w)

	case modalExport:
		body := mutedStyle.Render(fmt.Sprintf("Writes %d filtered rows, the summary and the at-risk list.", len(a.filtered))) + "\n\n" +
			a.modal.path.View() + "\n\n" +
			hintStyle.Render("[Enter] export  [Esc] cancel")
		return components.Modal("Export Workbook", body, w)

	case modalNotice:
		body := textStyle.Render(a.modal.body) + "\n\n" + hintStyle.Render("[Enter] OK")
		return components.Modal(a.modal.title, body, min(w, 60))
	}
	return ""
}
