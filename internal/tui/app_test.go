package tui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/cxdash/internal/chat"
	"github.com/theirongolddev/cxdash/internal/config"
	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/source"
	"github.com/theirongolddev/cxdash/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) App {
	t.Helper()

	st := store.NewMemory()
	if err := st.Append(source.Seed()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	records, err := st.All()
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Remote.ForwardImports = false

	a := NewApp(Options{
		Store:      st,
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m, _ = m.Update(DataLoadedMsg{Records: records})
	return m.(App)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(a App, keys ...string) App {
	for _, k := range keys {
		m, _ := a.Update(keyMsg(k))
		a = m.(App)
	}
	return a
}

// pressRun sends keys and runs the commands they return, feeding resulting
// messages back in. Commands that do not return promptly, such as cursor
// blinks, are dropped.
func pressRun(a App, keys ...string) App {
	for _, k := range keys {
		m, cmd := a.Update(keyMsg(k))
		a = drain(m.(App), cmd)
	}
	return a
}

func drain(a App, cmd tea.Cmd) App {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 500; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := runCmd(c)
		if msg == nil {
			continue
		}
		if cmds, ok := cmdSlice(msg); ok {
			queue = append(queue, cmds...)
			continue
		}
		m, next := a.Update(msg)
		a = m.(App)
		queue = append(queue, next)
	}
	return a
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// cmdSlice unpacks batch and sequence messages, which are both []tea.Cmd.
func cmdSlice(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i] = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

func storeLen(t *testing.T, a App) int {
	t.Helper()
	n, err := a.store.Len()
	if err != nil {
		t.Fatalf("store.Len: %v", err)
	}
	return n
}

func TestKeysSwitchTabs(t *testing.T) {
	a := newTestApp(t)

	cases := []struct {
		key  string
		want int
	}{
		{"p", tabProjects},
		{"x", tabSettings},
		{"o", tabOverview},
		{"tab", tabProjects},
		{"t", tabChat},
	}
	for _, tc := range cases {
		a = press(a, tc.key)
		if a.activeTab != tc.want {
			t.Fatalf("after %q active tab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestOverviewShowsKPIs(t *testing.T) {
	a := newTestApp(t)
	if a.summary != (model.Summary{Total: 4, Capex: 2, Opex: 2, AtRisk: 3}) {
		t.Fatalf("summary = %+v", a.summary)
	}
	view := a.View()
	for _, want := range []string{"Total Projects", "At Risk Projects", "Capex vs Opex", "Resources per Project", "Hours Trend"} {
		if !strings.Contains(view, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestJSONImportInvalidLeavesStoreUnchanged(t *testing.T) {
	cases := []struct {
		input, title, body string
	}{
		{"not json", "Error", "Invalid JSON format."},
		{"{}", "Invalid JSON", "Please provide an array of objects."},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			a := press(newTestApp(t), "i")
			if a.modal.kind != modalJSON {
				t.Fatalf("modal = %d, want JSON dialog", a.modal.kind)
			}
			a.modal.json.SetValue(tc.input)
			a = press(a, "ctrl+s")

			if got := storeLen(t, a); got != 4 {
				t.Errorf("store len = %d, want 4", got)
			}
			if a.modal.kind != modalNotice || a.modal.title != tc.title || a.modal.body != tc.body {
				t.Errorf("notice = %q/%q, want %q/%q", a.modal.title, a.modal.body, tc.title, tc.body)
			}

			// Dismissing the notice returns to the dialog with the text intact
			a = press(a, "enter")
			if a.modal.kind != modalJSON {
				t.Errorf("modal = %d after notice, want JSON dialog", a.modal.kind)
			}
			if a.modal.json.Value() != tc.input {
				t.Errorf("text = %q, want %q", a.modal.json.Value(), tc.input)
			}
		})
	}
}

func TestJSONImportAppends(t *testing.T) {
	a := press(newTestApp(t), "i")
	a.modal.json.SetValue(`[{"projectName":"Demo","category":"Capex","target":80,"achieved":60}]`)
	a = press(a, "ctrl+s")

	if got := storeLen(t, a); got != 5 {
		t.Fatalf("store len = %d, want 5", got)
	}
	if a.modal.kind != modalNotice || a.modal.body != noticeImported {
		t.Errorf("notice = %q, want %q", a.modal.body, noticeImported)
	}
	if a.modal.json.Value() != "" {
		t.Errorf("text not cleared: %q", a.modal.json.Value())
	}
	if a.summary.Total != 5 || a.summary.Capex != 3 {
		t.Errorf("summary not recomputed: %+v", a.summary)
	}

	a = press(a, "enter")
	if a.modal.open() {
		t.Errorf("modal still open after dismissing success notice")
	}
}

// forwardingApp is a test app whose JSON imports are posted to a server
// answering with status. The returned func reports the number of posts.
func forwardingApp(t *testing.T, status int) (App, func() int32) {
	t.Helper()
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	a := newTestApp(t)
	a.cfg.Remote.ForwardImports = true
	a.cfg.Remote.ImportURL = srv.URL
	a.remote = remote.NewClient(remote.Options{ImportURL: srv.URL, Timeout: 5 * time.Second})
	return a, posts.Load
}

func TestJSONImportForwardFailure(t *testing.T) {
	a, posts := forwardingApp(t, http.StatusInternalServerError)
	a = press(a, "i")
	a.modal.json.SetValue(`[{"projectName":"Demo","category":"Capex","target":80,"achieved":60}]`)

	m, cmd := a.Update(keyMsg("ctrl+s"))
	a = m.(App)
	if a.modal.body != noticeImportedForwarded {
		t.Errorf("notice = %q, want %q", a.modal.body, noticeImportedForwarded)
	}
	if cmd == nil {
		t.Fatal("expected a forward command")
	}

	m, _ = a.Update(cmd())
	a = m.(App)
	if posts() != 1 {
		t.Errorf("posts = %d, want 1", posts())
	}
	if a.flash != "import not forwarded" {
		t.Errorf("flash = %q, want forward failure", a.flash)
	}
	if got := storeLen(t, a); got != 5 {
		t.Errorf("store len = %d, want the import kept", got)
	}
}

func TestStartupJSONImportsForwarded(t *testing.T) {
	a, posts := forwardingApp(t, http.StatusCreated)
	records, err := a.store.All()
	if err != nil {
		t.Fatal(err)
	}

	m, cmd := a.Update(DataLoadedMsg{
		Records: records,
		Imports: []pipeline.ImportResult{
			{BatchID: "csv", Format: source.FormatCSV, Count: 1},
			{BatchID: "json", Format: source.FormatJSON, Count: 1, Raw: []byte(`[{"projectName":"Demo"}]`)},
		},
	})
	a = drain(m.(App), cmd)

	if posts() != 1 {
		t.Errorf("posts = %d, want 1 for the JSON import only", posts())
	}
	if a.flash != "" {
		t.Errorf("flash = %q after a successful forward", a.flash)
	}
}

func TestCSVFileIngest(t *testing.T) {
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "more.csv")
	data := "projectName,category,resourceCount,target,achieved\nAlpha,Opex,abc,10,5\nBeta,Capex,2,10,20\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := readFileCmd(path)
	m, _ := a.Update(cmd())
	a = m.(App)

	if got := storeLen(t, a); got != 6 {
		t.Fatalf("store len = %d, want 6", got)
	}
	if a.modal.open() {
		t.Errorf("CSV import should not open a dialog")
	}
	if !strings.Contains(a.flash, "imported 2 records") {
		t.Errorf("flash = %q", a.flash)
	}
}

func TestCSVFileIngestInvalid(t *testing.T) {
	a := newTestApp(t)

	m, _ := a.Update(fileReadMsg{path: "bad.csv", data: []byte("projectName\n\"unterminated\n")})
	a = m.(App)

	if got := storeLen(t, a); got != 4 {
		t.Errorf("store len = %d, want 4", got)
	}
	if a.modal.kind != modalNotice || a.modal.body != noticeInvalidCSV {
		t.Errorf("notice = %q, want %q", a.modal.body, noticeInvalidCSV)
	}
}

func TestChatWhitespaceSubmitIgnored(t *testing.T) {
	a := press(newTestApp(t), "t")
	a.chat.input.SetValue("   ")

	m, cmd := a.Update(keyMsg("enter"))
	a = m.(App)

	if cmd != nil {
		t.Error("blank submit should not send a request")
	}
	if a.chat.session.Len() != 0 {
		t.Errorf("log has %d messages, want 0", a.chat.session.Len())
	}
}

func TestChatFailureShowsNotice(t *testing.T) {
	a := press(newTestApp(t), "t")
	a.chat.input.SetValue("how many projects?")

	m, cmd := a.Update(keyMsg("enter"))
	a = m.(App)
	if cmd == nil {
		t.Fatal("submit should send a request")
	}
	if !a.chat.session.Busy() {
		t.Fatal("session should await a reply")
	}
	if a.chat.input.Value() != "" {
		t.Errorf("input not cleared: %q", a.chat.input.Value())
	}

	// A second question while busy is ignored
	a.chat.input.SetValue("again")
	a = press(a, "enter")
	if a.chat.session.Len() != 1 {
		t.Fatalf("log has %d messages, want 1", a.chat.session.Len())
	}

	// No remote client configured: the reply is a failure
	m, _ = a.Update(askCmd(nil, "how many projects?")())
	a = m.(App)

	msgs := a.chat.session.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want 2", len(msgs))
	}
	if msgs[0].Sender != chat.User || msgs[1].Text != chat.FailureNotice || !msgs[1].Failed {
		t.Errorf("unexpected log: %+v", msgs)
	}
	if a.chat.session.Busy() {
		t.Error("session should be idle after the reply")
	}
}

func TestChatKeysDoNotSwitchTabs(t *testing.T) {
	a := press(newTestApp(t), "t", "o", "p")
	if a.activeTab != tabChat {
		t.Fatalf("active tab = %d, want chat", a.activeTab)
	}
	if a.chat.input.Value() != "op" {
		t.Errorf("input = %q, want %q", a.chat.input.Value(), "op")
	}
	a = press(a, "esc")
	if a.activeTab != tabOverview {
		t.Errorf("esc should leave chat, active tab = %d", a.activeTab)
	}
}

func TestValueStreamCycleResetsSubStream(t *testing.T) {
	a := press(newTestApp(t), "p", "v", "b")
	if a.query.ValueStream != "Benefits and Pricing" || a.query.SubStream != "Benefits Journey" {
		t.Fatalf("query = %+v", a.query)
	}

	a = press(a, "v")
	if a.query.ValueStream != "AOR" {
		t.Errorf("value stream = %q, want AOR", a.query.ValueStream)
	}
	if a.query.SubStream != "" {
		t.Errorf("sub stream = %q, want reset", a.query.SubStream)
	}
	if len(a.filtered) != 1 || a.filtered[0].ProjectName != "PRjejewew" {
		t.Errorf("filtered = %+v", a.filtered)
	}

	a = press(a, "X")
	if !a.query.Empty() || len(a.filtered) != 4 {
		t.Errorf("X should clear filters, query = %+v", a.query)
	}
}

func TestFilterFormValueStreamChangeResetsSubStream(t *testing.T) {
	a := press(newTestApp(t), "p", "v", "b")
	if a.query.SubStream != "Benefits Journey" {
		t.Fatalf("query = %+v", a.query)
	}

	// search, category, value stream moved down to AOR, sub stream, submit
	a = pressRun(a, "f", "enter", "enter", "down", "enter", "enter")
	if a.filterForm != nil {
		t.Fatal("filter form should close on submit")
	}
	if a.query.ValueStream != "AOR" {
		t.Errorf("value stream = %q, want AOR", a.query.ValueStream)
	}
	if a.query.SubStream != "" {
		t.Errorf("sub stream = %q, want reset after value stream change", a.query.SubStream)
	}
	if len(a.filtered) != 1 || a.filtered[0].ProjectName != "PRjejewew" {
		t.Errorf("filtered = %+v", a.filtered)
	}
}

func TestFilterFormPicksSubStream(t *testing.T) {
	a := press(newTestApp(t), "p", "v")
	if a.query.ValueStream != "Benefits and Pricing" || a.query.SubStream != "" {
		t.Fatalf("query = %+v", a.query)
	}

	a = pressRun(a, "f", "enter", "enter", "enter", "down", "enter")
	if a.query.ValueStream != "Benefits and Pricing" || a.query.SubStream != "Benefits Journey" {
		t.Errorf("query = %+v, want the picked sub stream", a.query)
	}
}

func TestFilterValuesQuery(t *testing.T) {
	records := source.Seed()
	cases := []struct {
		name string
		vals filterValues
		want pipeline.Query
	}{
		{
			name: "unchanged value stream keeps sub stream",
			vals: filterValues{valueStream: "AOR", subStream: "CLM", openValueStream: "AOR"},
			want: pipeline.Query{ValueStream: "AOR", SubStream: "CLM"},
		},
		{
			name: "changed value stream clears sub stream",
			vals: filterValues{valueStream: "AOR", subStream: "CLM", openValueStream: "Payments"},
			want: pipeline.Query{ValueStream: "AOR"},
		},
		{
			name: "sub stream outside value stream is dropped",
			vals: filterValues{valueStream: "AOR", subStream: "Billing", openValueStream: "AOR"},
			want: pipeline.Query{ValueStream: "AOR"},
		},
		{
			name: "search and category pass through",
			vals: filterValues{search: "pay", category: "Opex"},
			want: pipeline.Query{Search: "pay", Category: model.Opex},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.vals.query(records); got != tc.want {
				t.Errorf("query() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCategoryCycle(t *testing.T) {
	a := press(newTestApp(t), "p", "c")
	if a.query.Category != model.Capex || len(a.filtered) != 2 {
		t.Fatalf("after one press: %q, %d rows", a.query.Category, len(a.filtered))
	}
	a = press(a, "c", "c")
	if a.query.Category != "" {
		t.Errorf("category should wrap to none, got %q", a.query.Category)
	}
}

func TestLiveSearch(t *testing.T) {
	a := press(newTestApp(t), "p", "/", "p", "a", "y")
	if !a.proj.searching {
		t.Fatal("search mode should be active")
	}
	if a.query.Search != "pay" || len(a.filtered) != 1 {
		t.Fatalf("search = %q, %d rows", a.query.Search, len(a.filtered))
	}

	a = press(a, "esc")
	if a.proj.searching || a.query.Search != "" || len(a.filtered) != 4 {
		t.Errorf("esc should cancel the search, got %q with %d rows", a.query.Search, len(a.filtered))
	}

	a = press(a, "/", "o", "n", "enter")
	if a.proj.searching || a.query.Search != "on" {
		t.Errorf("enter should keep the search, got %q", a.query.Search)
	}
}

func TestPagination(t *testing.T) {
	a := newTestApp(t)
	extra := make([]model.Project, 8)
	for i := range extra {
		extra[i] = model.Project{ProjectName: "Extra", Category: model.Opex, Target: 1, Achieved: 1}
	}
	if err := a.store.Append(extra); err != nil {
		t.Fatal(err)
	}
	a.reload()

	a = press(a, "p")
	_, info := a.currentPage()
	if info.Pages != 3 || info.Page != 1 {
		t.Fatalf("page info = %+v, want page 1 of 3", info)
	}

	a = press(a, "]")
	if a.proj.page != 2 {
		t.Errorf("page = %d, want 2", a.proj.page)
	}
	a = press(a, "G")
	if a.proj.page != 3 {
		t.Errorf("page = %d, want 3", a.proj.page)
	}
	a = press(a, "]")
	if a.proj.page != 3 {
		t.Errorf("page past the end = %d, want 3", a.proj.page)
	}
	a = press(a, "g")
	if a.proj.page != 1 {
		t.Errorf("page = %d, want 1", a.proj.page)
	}

	// Moving down off the last row of a page continues on the next page
	a = press(a, "j", "j", "j", "j", "j")
	if a.proj.page != 2 || a.proj.cursor != 0 {
		t.Errorf("page %d cursor %d, want page 2 cursor 0", a.proj.page, a.proj.cursor)
	}
}

func TestAtRiskModal(t *testing.T) {
	a := press(newTestApp(t), "a")
	if a.modal.kind != modalAtRisk {
		t.Fatalf("modal = %d, want at-risk", a.modal.kind)
	}
	view := a.View()
	for _, name := range []string{"At Risk Projects", "PRjej", "OnboardX", "PayTrack"} {
		if !strings.Contains(view, name) {
			t.Errorf("at-risk dialog missing %q", name)
		}
	}
	a = press(a, "esc")
	if a.modal.open() {
		t.Error("esc should close the dialog")
	}
}

func TestSettingsSave(t *testing.T) {
	a := press(newTestApp(t), "x", "j") // rows per page
	a = press(a, "enter")
	if !a.settings.editing {
		t.Fatal("enter should start editing")
	}
	a.settings.input.SetValue("10")
	a = press(a, "enter")

	if a.settings.saveErr != nil {
		t.Fatalf("save failed: %v", a.settings.saveErr)
	}
	if a.cfg.General.PageSize != 10 {
		t.Errorf("page size = %d, want 10", a.cfg.General.PageSize)
	}
	saved, err := config.LoadFrom(a.cfgPth)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.General.PageSize != 10 {
		t.Errorf("saved page size = %d, want 10", saved.General.PageSize)
	}
}

func TestSettingsRejectsInvalid(t *testing.T) {
	a := press(newTestApp(t), "x", "j", "enter")
	a.settings.input.SetValue("0")
	a = press(a, "enter")

	if a.settings.saveErr == nil {
		t.Fatal("page size 0 should fail validation")
	}
	if a.cfg.General.PageSize != 5 {
		t.Errorf("page size changed to %d", a.cfg.General.PageSize)
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "Terminal too narrow") {
		t.Error("expected too-narrow message")
	}
}
