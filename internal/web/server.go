// Package web is the HTTP boundary: a thin adapter that parses form and
// query parameters, calls storage operations with plain scalars, and renders
// aggregated data. Core code never touches a request or response.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"worklog/internal/dates"
	"worklog/internal/reports"
	"worklog/internal/storage"
)

type Server struct {
	store  *storage.Storage
	cal    dates.Calendar
	gen    *reports.Generator
	pres   *Presentation
	logger *slog.Logger
	router *http.ServeMux
}

func NewServer(store *storage.Storage, logger *slog.Logger) (*Server, error) {
	pres, err := NewPresentation()
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:  store,
		cal:    store.Calendar(),
		gen:    reports.NewGenerator(store),
		pres:   pres,
		logger: logger,
		router: http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return withSecurityHeaders(withRequestLog(s.logger, s.router))
}

func (s *Server) routes() {
	// Pages
	s.router.HandleFunc("GET /{$}", s.handleDashboard)
	s.router.HandleFunc("GET /report", s.handleReportPage)
	s.router.HandleFunc("GET /report/download", s.handleReportDownload)
	s.router.HandleFunc("GET /static/app.css", s.handleCSS)

	// JSON API
	s.router.HandleFunc("GET /api/report", s.handleAPIReport)
	s.router.HandleFunc("GET /api/session", s.handleAPISession)
	s.router.HandleFunc("GET /api/logs/latest", s.handleAPILatestLog)
	s.router.HandleFunc("GET /healthz", s.handleHealthz)

	// Form mutations
	s.router.HandleFunc("POST /projects/add", s.handleProjectAdd)
	s.router.HandleFunc("POST /projects/delete", s.handleProjectDelete)
	s.router.HandleFunc("POST /projects/move", s.handleProjectMove)
	s.router.HandleFunc("POST /projects/tags/add", s.handleTagAdd)
	s.router.HandleFunc("POST /projects/tags/remove", s.handleTagRemove)
	s.router.HandleFunc("POST /groups/add", s.handleGroupAdd)
	s.router.HandleFunc("POST /groups/rename", s.handleGroupRename)
	s.router.HandleFunc("POST /groups/delete", s.handleGroupDelete)
	s.router.HandleFunc("POST /timer/start", s.handleTimerStart)
	s.router.HandleFunc("POST /timer/stop", s.handleTimerStop)
	s.router.HandleFunc("POST /logs/add", s.handleTimeLogAdd)
	s.router.HandleFunc("POST /logs/delete", s.handleTimeLogDelete)
	s.router.HandleFunc("POST /worklog/add", s.handleWorkLogAdd)
	s.router.HandleFunc("POST /worklog/delete", s.handleWorkLogDelete)
	s.router.HandleFunc("POST /goal/set", s.handleGoalSet)
	s.router.HandleFunc("POST /tasks/add", s.handleTaskAdd)
	s.router.HandleFunc("POST /tasks/{id}/toggle", s.handleTaskToggle)
	s.router.HandleFunc("POST /tasks/{id}/delete", s.handleTaskDelete)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	doc, _ := s.store.Load()
	view := buildDashboardView(doc, s.cal, flashFromQuery(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pres.RenderDashboard(w, view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	rep := s.gen.Generate(filterFromQuery(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pres.RenderReport(w, buildReportPageView(rep)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	rep := s.gen.Generate(filterFromQuery(r))

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="work_report.md"`)
	_, _ = w.Write([]byte(reports.FormatMarkdown(rep)))
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(appCSS))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// filterFromQuery builds a report filter from query parameters. Shared by
// the report page, the markdown download and the JSON endpoint so all three
// agree on parameter names.
func filterFromQuery(r *http.Request) reports.Filter {
	q := r.URL.Query()
	return reports.Filter{
		Group:    strings.TrimSpace(q.Get("group")),
		Project:  strings.TrimSpace(q.Get("project")),
		Tag:      strings.TrimSpace(q.Get("tag")),
		DateFrom: strings.TrimSpace(q.Get("from")),
		DateTo:   strings.TrimSpace(q.Get("to")),
	}
}

// flashFromQuery reads the one-shot banner a redirect left in the query
// string. An error banner wins over a success one.
func flashFromQuery(r *http.Request) FlashView {
	q := r.URL.Query()
	if msg := q.Get("err"); msg != "" {
		return FlashView{Message: msg, IsError: true}
	}
	return FlashView{Message: q.Get("msg")}
}

// flashOK redirects back to the dashboard with a success banner.
func flashOK(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	redirectWith(w, r, "msg", fmt.Sprintf(format, args...))
}

// flashErr redirects back to the dashboard with the error text as a banner.
func flashErr(w http.ResponseWriter, r *http.Request, err error) {
	redirectWith(w, r, "err", err.Error())
}

func redirectWith(w http.ResponseWriter, r *http.Request, key, msg string) {
	http.Redirect(w, r, "/?"+key+"="+url.QueryEscape(msg), http.StatusSeeOther)
}
