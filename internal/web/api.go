package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"worklog/internal/reports"
	"worklog/internal/storage"
)

// statusFor maps the storage error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var validation *storage.ValidationError
	var notFound *storage.NotFoundError
	var conflict *storage.ConflictError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	rep := s.gen.Generate(filterFromQuery(r))

	data, err := reports.FormatJSON(rep)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report encoding failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

type sessionResponse struct {
	Project        string `json:"project"`
	StartTime      string `json:"start_time"`
	Date           string `json:"date"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.URL.Query().Get("project"))
	if project == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing project parameter"})
		return
	}

	sess, err := s.store.CurrentSession(project)
	if err != nil {
		writeError(w, err)
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session running for " + project})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Project:        project,
		StartTime:      sess.StartTime.Format(time.RFC3339),
		Date:           sess.Date,
		ElapsedSeconds: int64(s.store.Now().Sub(sess.StartTime).Seconds()),
	})
}

func (s *Server) handleAPILatestLog(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.URL.Query().Get("project"))
	if project == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing project parameter"})
		return
	}

	entry, ok, err := s.store.LastTimeLog(project)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no time logs for " + project})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
