// Package tui provides the interactive Bubble Tea dashboard for cxdash.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/config"
	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/source"
	"github.com/theirongolddev/cxdash/internal/store"
	"github.com/theirongolddev/cxdash/internal/tui/components"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabProjects
	tabChat
	tabSettings
)

// DataLoadedMsg is sent when the startup imports finish.
type DataLoadedMsg struct {
	Records  []model.Project
	Imported int
	// Imports are the startup file batches; JSON ones are forwarded.
	Imports  []pipeline.ImportResult
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports import file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Options configures a new App.
type Options struct {
	Store  store.Store
	Remote *remote.Client
	Config config.Config
	// ConfigPath is where settings and the setup form save to.
	ConfigPath string
	Logger     *slog.Logger
	// ImportPaths are CSV/JSON files imported at startup, with progress.
	ImportPaths []string
	// NeedSetup shows the first-run setup form once data has loaded.
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	// Collaborators
	store  store.Store
	remote *remote.Client
	cfg    config.Config
	cfgPth string
	log    *slog.Logger

	// Data
	records  []model.Project
	filtered []model.Project
	summary  model.Summary
	loaded   bool
	loadTime time.Duration
	loadErr  error
	imported int

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string

	// Filter state
	query pipeline.Query

	// Per-tab state
	proj     projectsState
	chat     chatState
	settings settingsState

	// Dialogs
	modal      modalState
	filterForm *huh.Form
	filterVals *filterValues

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	importPaths []string
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.Path()
	}

	return App{
		store:       opts.Store,
		remote:      opts.Remote,
		cfg:         opts.Config,
		cfgPth:      cfgPath,
		log:         logger,
		needSetup:   opts.NeedSetup,
		importPaths: opts.ImportPaths,
		spinner:     sp,
		proj:        projectsState{page: 1},
		chat:        newChatState(),
		modal:       newModalState(),
		filterVals:  &filterValues{},
		setupVals:   &setupValues{},
		loadSub:     make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.store, a.importPaths, a.loadSub),
		a.spinner.Tick,
	)
}

// reload re-reads the store and recomputes every derived view.
func (a *App) reload() {
	records, err := a.store.All()
	if err != nil {
		a.log.Error("reading store", "err", err)
		return
	}
	a.records = records
	a.recompute()
}

// recompute refreshes the summary and the filtered view after a store or
// filter change, and clamps the projects cursor into the new bounds.
func (a *App) recompute() {
	a.summary = pipeline.Summarize(a.records)
	a.filtered = pipeline.Apply(a.records, a.query)

	_, info := pipeline.Paginate(a.filtered, a.proj.page, a.pageSize())
	a.proj.page = info.Page
	rows := info.End - info.Start
	if a.proj.cursor >= rows {
		a.proj.cursor = rows - 1
	}
	if a.proj.cursor < 0 {
		a.proj.cursor = 0
	}
}

// setQuery applies a new filter and returns to the first page.
func (a *App) setQuery(q pipeline.Query) {
	a.query = q
	a.proj.page = 1
	a.proj.cursor = 0
	a.recompute()
}

func (a App) pageSize() int {
	if a.cfg.General.PageSize < 1 {
		return config.DefaultConfig().General.PageSize
	}
	return a.cfg.General.PageSize
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to active forms
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.filterForm != nil {
			a.filterForm = a.filterForm.WithWidth(a.modalWidth())
		}
		a.modal.resize(a.modalWidth())
		a.syncChatViewport(false)
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.filterForm != nil || a.modal.open() {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			switch a.activeTab {
			case tabProjects:
				a.projectsCursorUp()
			case tabChat:
				a.chat.viewport.ScrollUp(3)
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			switch a.activeTab {
			case tabProjects:
				a.projectsCursorDown()
			case tabChat:
				a.chat.viewport.ScrollDown(3)
			}
			return a, nil

		case tea.MouseButtonLeft:
			// Check if click is in tab bar area (first 2 lines)
			if msg.Y <= 1 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					return a.switchTab(tab)
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.imported = msg.Imported
		var cmds []tea.Cmd
		if msg.Err != nil {
			a.log.Error("startup import failed", "err", msg.Err)
			a.flash = "startup import failed"
			a.reload()
		} else {
			a.records = msg.Records
			a.recompute()
			if a.canForward() {
				for _, imp := range msg.Imports {
					if imp.Format == source.FormatJSON && len(imp.Raw) > 0 {
						cmds = append(cmds, forwardCmd(a.remote, imp))
					}
				}
			}
		}

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupForm = newSetupForm(a.setupVals, a.cfg)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			cmds = append(cmds, a.setupForm.Init())
		}
		return a, tea.Batch(cmds...)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		if a.chat.session.Busy() {
			var cmd tea.Cmd
			a.chat.spinner, cmd = a.chat.spinner.Update(msg)
			a.syncChatViewport(false)
			return a, cmd
		}
		return a, nil

	case chatReplyMsg:
		return a.resolveChat(msg)

	case fileReadMsg:
		return a.ingestFile(msg)

	case forwardDoneMsg:
		if msg.err != nil {
			a.log.Warn("forwarding import failed", "batch", msg.batchID, "err", msg.err)
			a.flash = "import not forwarded"
		} else {
			a.log.Info("import forwarded", "batch", msg.batchID)
		}
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.log.Error("export failed", "path", msg.path, "err", msg.err)
			a.modal.showNotice("Error", "Export failed: "+msg.err.Error(), modalNone)
			return a, nil
		}
		a.flash = fmt.Sprintf("exported %d rows to %s", msg.rows, msg.path)
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.filterForm != nil {
		return a.updateFilterForm(msg)
	}
	if a.modal.open() {
		return a.updateModal(msg)
	}
	if a.activeTab == tabChat {
		var cmd tea.Cmd
		a.chat.input, cmd = a.chat.input.Update(msg)
		return a, cmd
	}
	if a.proj.searching {
		var cmd tea.Cmd
		a.proj.searchInput, cmd = a.proj.searchInput.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// Forms and dialogs intercept all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.filterForm != nil {
		return a.updateFilterForm(msg)
	}
	if a.modal.open() {
		return a.updateModal(msg)
	}

	// Text inputs own the keyboard while focused
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == tabProjects && a.proj.searching {
		return a.updateProjectsSearch(msg)
	}
	if a.activeTab == tabChat {
		return a.updateChatKey(msg)
	}

	// Help toggle
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}

	// Dismiss help
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.flash = ""

	// Dialog shortcuts, available from every tab except chat
	switch key {
	case "a":
		a.modal.openAtRisk()
		return a, nil
	case "i":
		return a, a.modal.openJSON(a.modalWidth())
	case "u":
		return a, a.modal.openPath(modalCSV, "path/to/projects.csv")
	case "e":
		return a, a.modal.openPath(modalExport, "cxdash-export.xlsx")
	}

	// Projects tab has its own keybindings
	if a.activeTab == tabProjects {
		if m, cmd, handled := a.updateProjectsKey(key); handled {
			return m, cmd
		}
	}

	// Settings tab navigation (non-editing mode)
	if a.activeTab == tabSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	if key == "q" {
		return a, tea.Quit
	}

	// Tab navigation
	switch key {
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

// switchTab activates tab idx. Entering the chat tab focuses its input.
func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabChat {
		a.syncChatViewport(false)
		return a, a.chat.input.Focus()
	}
	a.chat.input.Blur()
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.saveSetupConfig(); err != nil {
			a.log.Error("saving setup config", "err", err)
			a.flash = "setup not saved"
		}
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) modalWidth() int {
	w := a.contentWidth() * 2 / 3
	return min(max(w, 60), a.contentWidth())
}

// contentHeight is the height left for tab content between the header and
// the status bar.
func (a App) contentHeight() int {
	return max(a.height-3, minContentHeight)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	if a.filterForm != nil {
		return a.viewOverlay(components.Modal("Filters", a.filterForm.View(), a.modalWidth()))
	}

	if a.modal.open() {
		return a.viewOverlay(a.renderModal())
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cxdash needs at least %d columns.\n  Current width: %d\n",
		a.width,
		minTerminalWidth,
		a.width,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cxdash"))
	b.WriteString(subtitleStyle.Render(" · Capex/Opex Dashboard"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(w-30, 20), 40)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Importing files\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Loading projects..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Blue).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o p t x", "Jump to tab"},
			{"← → Tab", "Previous / Next tab"},
			{"j k", "Move through rows"},
			{"[ ]", "Previous / Next page"},
			{"g G", "First / Last page"},
		}},
		{"Projects", []struct{ key, desc string }{
			{"/", "Search project names"},
			{"c", "Cycle category filter"},
			{"v", "Cycle value stream filter"},
			{"b", "Cycle sub stream filter"},
			{"f", "Open filter form"},
			{"X", "Clear all filters"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"a", "At risk projects"},
			{"i", "Import JSON"},
			{"u", "Upload CSV file"},
			{"e", "Export workbook"},
			{"Esc", "Back / Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("In the chat tab, type and press Enter. Tab or Esc leaves it."))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.viewOverlay(components.Modal("◈ Keyboard Shortcuts", b.String(), 64))
}

// viewOverlay centers a dialog over the background.
func (a App) viewOverlay(card string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Render header (tab bar + filter pill)
	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterPill(w)

	// 2. Render status bar
	right := fmt.Sprintf("%s projects", cli.FormatNumber(int64(len(a.records))))
	if !a.query.Empty() {
		right = fmt.Sprintf("%d of %s", len(a.filtered), right)
	}
	statusBar := components.RenderStatusBar(w, a.flash, right)

	// 3. Calculate content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := max(h-headerH-statusH, minContentHeight)

	// 4. Render tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabProjects:
		content = a.renderProjectsTab(cw, contentH)
	case tabChat:
		content = a.renderChatTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	// 8. Stack vertically
	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderFilterPill shows the active filters under the tab bar.
func (a App) renderFilterPill(w int) string {
	t := theme.Active
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	parts := []string{}
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, pillStyle.Render(label+" ")+accentStyle.Render(value))
		}
	}
	add("search", a.query.Search)
	add("category", string(a.query.Category))
	add("stream", a.query.ValueStream)
	add("sub", a.query.SubStream)

	s := pillStyle.Render(" ")
	if len(parts) == 0 {
		s += pillStyle.Render("no filters")
	} else {
		s += strings.Join(parts, pillStyle.Render(" │ "))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd runs the startup imports in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(st store.Store, paths []string, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Progress callback: non-blocking send so workers aren't stalled.
			// If the channel is full, we skip this update and the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			res, err := pipeline.LoadFiles(st, paths, progressFn)
			if err != nil {
				sub <- DataLoadedMsg{LoadTime: time.Since(start), Err: err}
				return
			}
			records, err := st.All()
			sub <- DataLoadedMsg{
				Records:  records,
				Imported: res.Records,
				Imports:  res.Imports,
				LoadTime: time.Since(start),
				Err:      err,
			}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
