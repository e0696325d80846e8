package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cxdash/internal/chat"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/source"
	"github.com/theirongolddev/cxdash/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Store == nil {
		st := store.NewMemory()
		require.NoError(t, st.Append(source.Seed()))
		opts.Store = st
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(opts)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, Options{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestSummary(t *testing.T) {
	rec := do(t, newTestServer(t, Options{}), http.MethodGet, "/v1/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[SummaryDTO](t, rec)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.Capex)
	assert.Equal(t, 2, got.Opex)
	assert.Equal(t, 3, got.AtRisk)
	assert.Equal(t, []CategoryCountDTO{{"Capex", 2}, {"Opex", 2}}, got.Categories)
}

func TestProjects_FilterAndPage(t *testing.T) {
	s := newTestServer(t, Options{PageSize: 2})

	rec := do(t, s, http.MethodGet, "/v1/projects?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[ProjectPage](t, rec)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "OnboardX", page.Items[0].ProjectName)

	rec = do(t, s, http.MethodGet, "/v1/projects?category=Opex&search=pay", "")
	page = decode[ProjectPage](t, rec)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, "PayTrack", item.ProjectName)
	assert.Equal(t, float64(33), item.ProgressPercent)
	assert.Equal(t, "At Risk", item.Status)
}

func TestProjects_BadQuery(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, q := range []string{"page=-1", "page=abc", "page_size=1000"} {
		rec := do(t, s, http.MethodGet, "/v1/projects?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, contentTypeProblemJSON, rec.Header().Get("Content-Type"), q)
	}
}

func TestProjects_NaNEncodesAsNull(t *testing.T) {
	st := store.NewMemory()
	s := newTestServer(t, Options{Store: st})

	rec := do(t, s, http.MethodPost, "/v1/import/csv", "projectName,target,achieved\nOdd,abc,5\n")
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decode[ImportResponse](t, rec)
	assert.Equal(t, 1, res.Count)

	rec = do(t, s, http.MethodGet, "/v1/projects", "")
	assert.Contains(t, rec.Body.String(), `"target":null`)
	page := decode[ProjectPage](t, rec)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].Target)
	require.NotNil(t, page.Items[0].Achieved)
	assert.Equal(t, "Unknown", page.Items[0].Status)
	assert.Equal(t, float64(0), page.Items[0].ProgressPercent)
}

func TestAtRisk(t *testing.T) {
	rec := do(t, newTestServer(t, Options{}), http.MethodGet, "/v1/projects/at-risk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]ProjectDTO](t, rec)
	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.ProjectName
	}
	assert.Equal(t, []string{"PRjej", "OnboardX", "PayTrack"}, names)
}

func TestCharts(t *testing.T) {
	s := newTestServer(t, Options{})

	res := decode[[]ResourcesDTO](t, do(t, s, http.MethodGet, "/v1/charts/resources", ""))
	assert.Len(t, res, 4)

	hours := decode[[]HoursDTO](t, do(t, s, http.MethodGet, "/v1/charts/hours", ""))
	require.Len(t, hours, 4)
	assert.Equal(t, "PRjej", hours[0].ProjectName)

	cats := decode[[]CategoryCountDTO](t, do(t, s, http.MethodGet, "/v1/charts/categories", ""))
	assert.Len(t, cats, 2)
}

func TestFilters(t *testing.T) {
	s := newTestServer(t, Options{})
	got := decode[FiltersDTO](t, do(t, s, http.MethodGet, "/v1/filters?value_stream=AOR", ""))
	assert.Equal(t, []string{"Capex", "Opex"}, got.Categories)
	assert.Len(t, got.ValueStreams, 4)
	assert.Equal(t, []string{"CLM"}, got.SubStreams)
}

func TestImportJSON(t *testing.T) {
	st := store.NewMemory()
	s := newTestServer(t, Options{Store: st})

	rec := do(t, s, http.MethodPost, "/v1/import/json", `[{"projectName":"Demo","category":"Capex","target":80,"achieved":60}]`)
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decode[ImportResponse](t, rec)
	assert.Equal(t, 1, res.Count)
	assert.NotEmpty(t, res.BatchID)

	n, err := st.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	events := decode[[]Event](t, do(t, s, http.MethodGet, "/v1/events", ""))
	require.Len(t, events, 1)
	assert.Equal(t, EventImport, events[0].Type)
	assert.Equal(t, res.BatchID, events[0].BatchID)
}

func TestImportRejected(t *testing.T) {
	cases := []struct {
		path, body, detail string
	}{
		{"/v1/import/json", "not json", "Invalid JSON format."},
		{"/v1/import/json", "{}", "Please provide an array of objects."},
		{"/v1/import/csv", "projectName\n\"open\n", "Invalid CSV format."},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			st := store.NewMemory()
			s := newTestServer(t, Options{Store: st})

			rec := do(t, s, http.MethodPost, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			p := decode[Problem](t, rec)
			assert.Equal(t, tc.detail, p.Detail)
			assert.Equal(t, tc.path, p.Instance)

			n, err := st.Len()
			require.NoError(t, err)
			assert.Zero(t, n)
			assert.Empty(t, s.events.recent())
		})
	}
}

func TestImportJSON_Forwarded(t *testing.T) {
	bodies := make(chan string, 1)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer backend.Close()

	raw := `[{"projectName":"Demo","target":80,"achieved":60}]`
	s := newTestServer(t, Options{
		Store:   store.NewMemory(),
		Remote:  remote.NewClient(remote.Options{ImportURL: backend.URL}),
		Forward: true,
	})
	rec := do(t, s, http.MethodPost, "/v1/import/json", raw)
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case got := <-bodies:
		assert.JSONEq(t, raw, got)
	case <-time.After(5 * time.Second):
		t.Fatal("import was not forwarded")
	}
	require.Eventually(t, func() bool {
		events := s.events.recent()
		return len(events) == 2 && events[1].Type == EventForwarded
	}, 5*time.Second, 10*time.Millisecond)
}

func TestImportCSV_NotForwarded(t *testing.T) {
	hits := make(chan struct{}, 1)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer backend.Close()

	s := newTestServer(t, Options{
		Store:   store.NewMemory(),
		Remote:  remote.NewClient(remote.Options{ImportURL: backend.URL}),
		Forward: true,
	})
	rec := do(t, s, http.MethodPost, "/v1/import/csv", "projectName\nA\n")
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case <-hits:
		t.Fatal("csv import should not be forwarded")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChat(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"you asked: ` + req.Question + `"}`))
	}))
	defer backend.Close()

	s := newTestServer(t, Options{Remote: remote.NewClient(remote.Options{ChatURL: backend.URL})})

	rec := do(t, s, http.MethodPost, "/v1/chat", `{"question":"  hi  "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "you asked: hi", decode[ChatResponse](t, rec).Answer)

	rec = do(t, s, http.MethodPost, "/v1/chat", `{"question":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/chat", `nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_Failure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	for name, c := range map[string]*remote.Client{
		"no client":    nil,
		"server error": remote.NewClient(remote.Options{ChatURL: backend.URL}),
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, Options{Remote: c})
			rec := do(t, s, http.MethodPost, "/v1/chat", `{"question":"hi"}`)
			require.Equal(t, http.StatusBadGateway, rec.Code)
			got := decode[ChatResponse](t, rec)
			assert.Equal(t, chat.FailureNotice, got.Answer)
			assert.True(t, got.Failed)
		})
	}
}

func TestEventLogRingBuffer(t *testing.T) {
	l := newEventLog(2)
	l.publish(Event{BatchID: "a"})
	l.publish(Event{BatchID: "b"})
	l.publish(Event{BatchID: "c"})

	events := l.recent()
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].ID)
	assert.Equal(t, int64(3), events[1].ID)
	assert.Equal(t, "c", events[1].BatchID)
	assert.False(t, events[1].Timestamp.IsZero())
}

func TestEventLogFanOut(t *testing.T) {
	l := newEventLog(0)
	ch := make(chan Event, 1)
	id := l.subscribe(ch)

	l.publish(Event{Type: EventImport})
	// A full subscriber channel drops the event instead of blocking
	l.publish(Event{Type: EventImport})

	ev := <-ch
	assert.Equal(t, int64(1), ev.ID)

	l.unsubscribe(id)
	l.publish(Event{Type: EventImport})
	assert.Empty(t, ch)
	assert.Len(t, l.recent(), 3)
}
