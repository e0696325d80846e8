package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/cxdash/internal/chat"
	"github.com/theirongolddev/cxdash/internal/model"
	"github.com/theirongolddev/cxdash/internal/pipeline"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/source"
)

// projectsQuery binds the /v1/projects query string.
type projectsQuery struct {
	Search      string `form:"search"`
	Category    string `form:"category"`
	ValueStream string `form:"value_stream"`
	SubStream   string `form:"sub_stream"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q projectsQuery) filter() pipeline.Query {
	return pipeline.Query{
		Search:      q.Search,
		Category:    model.Category(q.Category),
		ValueStream: q.ValueStream,
		SubStream:   q.SubStream,
	}
}

func (s *Server) records(c *gin.Context) ([]model.Project, bool) {
	records, err := s.store.All()
	if err != nil {
		s.log.Error("reading store", "err", err)
		respondProblem(c, problemInternal.WithDetail("reading records failed"))
		return nil, false
	}
	return records, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Server) handleSummary(c *gin.Context) {
	records, ok := s.records(c)
	if !ok {
		return
	}
	sum := pipeline.Summarize(records)
	c.JSON(http.StatusOK, SummaryDTO{
		Total:      sum.Total,
		Capex:      sum.Capex,
		Opex:       sum.Opex,
		AtRisk:     sum.AtRisk,
		Categories: categoryDTOs(pipeline.CategoryDistribution(records)),
	})
}

func (s *Server) handleProjects(c *gin.Context) {
	var q projectsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondProblem(c, problemBadRequest.WithDetail(err.Error()))
		return
	}
	records, ok := s.records(c)
	if !ok {
		return
	}
	if q.PageSize == 0 {
		q.PageSize = s.size
	}
	if q.Page == 0 {
		q.Page = 1
	}

	rows, info := pipeline.Paginate(pipeline.Apply(records, q.filter()), q.Page, q.PageSize)
	c.JSON(http.StatusOK, ProjectPage{
		Page:  info.Page,
		Pages: info.Pages,
		Total: info.Total,
		Items: projectDTOs(rows),
	})
}

func (s *Server) handleAtRisk(c *gin.Context) {
	records, ok := s.records(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, projectDTOs(pipeline.AtRisk(records)))
}

func (s *Server) handleCategoryChart(c *gin.Context) {
	records, ok := s.records(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, categoryDTOs(pipeline.CategoryDistribution(records)))
}

func (s *Server) handleResourcesChart(c *gin.Context) {
	records, ok := s.records(c)
	if !ok {
		return
	}
	res := pipeline.ResourcesByProject(records)
	out := make([]ResourcesDTO, len(res))
	for i, r := range res {
		out[i] = ResourcesDTO{ProjectName: r.ProjectName, ResourceCount: number(r.ResourceCount)}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHoursChart(c *gin.Context) {
	records, ok := s.records(c)
	if !ok {
		return
	}
	hours := pipeline.HoursSeries(records)
	out := make([]HoursDTO, len(hours))
	for i, h := range hours {
		out[i] = HoursDTO{
			ProjectName:    h.ProjectName,
			WeeklyHours:    number(h.WeeklyHours),
			MonthlyHours:   number(h.MonthlyHours),
			QuarterlyHours: number(h.QuarterlyHours),
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleFilters(c *gin.Context) {
	records, ok := s.records(c)
	if !ok {
		return
	}
	cats := pipeline.CategoriesIn(records)
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = string(cat)
	}
	c.JSON(http.StatusOK, FiltersDTO{
		Categories:   names,
		ValueStreams: pipeline.ValueStreams(records),
		SubStreams:   pipeline.SubStreams(records, c.Query("value_stream")),
	})
}

func (s *Server) handleImportCSV(c *gin.Context) {
	s.handleImport(c, source.CSV{})
}

func (s *Server) handleImportJSON(c *gin.Context) {
	s.handleImport(c, source.JSON{})
}

// handleImport appends the request body as one batch. Rejected input leaves
// the store untouched. Accepted JSON is forwarded in the background.
func (s *Server) handleImport(c *gin.Context, a source.Adapter) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondProblem(c, problemTooLarge.WithDetail(fmt.Sprintf("import exceeds %d bytes", tooLarge.Limit)))
			return
		}
		respondProblem(c, problemBadRequest.WithDetail("reading request body failed"))
		return
	}

	res, err := pipeline.Ingest(s.store, a, data)
	if err != nil {
		if errors.Is(err, source.ErrInvalidFormat) || errors.Is(err, source.ErrInvalidShape) {
			s.log.Info("import rejected", "format", a.Format(), "err", err)
			_, body := source.Notice(err)
			if a.Format() == source.FormatCSV {
				body = "Invalid CSV format."
			}
			respondProblem(c, problemInvalidImport.WithDetail(body))
			return
		}
		s.log.Error("import failed", "format", a.Format(), "err", err)
		respondProblem(c, problemInternal.WithDetail("storing records failed"))
		return
	}

	s.log.Info("import", "batch", res.BatchID, "format", res.Format, "count", res.Count, "warnings", res.Warnings)
	s.events.publish(Event{
		Type:     EventImport,
		BatchID:  res.BatchID,
		Format:   string(res.Format),
		Count:    res.Count,
		Warnings: res.Warnings,
	})
	if res.Format == source.FormatJSON && s.forward && s.remote != nil && s.remote.CanForward() {
		go s.forwardImport(res)
	}

	c.JSON(http.StatusCreated, ImportResponse{BatchID: res.BatchID, Count: res.Count, Warnings: res.Warnings})
}

// forwardImport posts an accepted JSON batch to the remote import endpoint.
// The outcome is recorded as an event; it never affects the local import.
func (s *Server) forwardImport(res pipeline.ImportResult) {
	err := s.remote.ForwardProjects(context.Background(), res.Raw)
	if err != nil {
		s.log.Warn("forwarding import failed", "batch", res.BatchID, "err", err)
		s.events.publish(Event{Type: EventForwardFailed, BatchID: res.BatchID, Error: err.Error()})
		return
	}
	s.events.publish(Event{Type: EventForwarded, BatchID: res.BatchID, Count: res.Count})
}

// handleChat relays one question. A failed relay answers with the fallback
// text and a 502 so clients can tell it apart from a real answer.
func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondProblem(c, problemBadRequest.WithDetail("body must be {\"question\": \"...\"}"))
		return
	}
	q := strings.TrimSpace(req.Question)
	if q == "" {
		respondProblem(c, problemBadRequest.WithDetail("question is empty"))
		return
	}

	if s.remote == nil {
		s.log.Warn("chat request failed", "err", remote.ErrNotConfigured)
		c.JSON(http.StatusBadGateway, ChatResponse{Answer: chat.FailureNotice, Failed: true})
		return
	}
	answer, err := s.remote.Ask(c.Request.Context(), q)
	if err != nil {
		s.log.Warn("chat request failed", "err", err)
		c.JSON(http.StatusBadGateway, ChatResponse{Answer: chat.FailureNotice, Failed: true})
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}

func (s *Server) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.events.recent())
}

// handleStream sends events as server-sent events until the client leaves.
func (s *Server) handleStream(c *gin.Context) {
	ch := make(chan Event, 16)
	id := s.events.subscribe(ch)
	defer s.events.unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev := <-ch:
			writeSSE(c.Writer, ev)
			c.Writer.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
