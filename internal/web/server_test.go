package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"worklog/internal/dates"
	"worklog/internal/reports"
	"worklog/internal/storage"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestServer wires a server against a temp store with a fixed clock at
// 2025-06-16 09:00. The returned pointer lets tests advance time mid-flight.
func newTestServer(t *testing.T) (*Server, *storage.Storage, *time.Time) {
	t.Helper()

	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.Local)
	cal := dates.NewGregorian()
	cal.SetNowFunc(func() time.Time { return now })

	store, err := storage.New(t.TempDir(), cal)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	store.SetNowFunc(func() time.Time { return now })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := NewServer(store, logger)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv, store, &now
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(t *testing.T, srv *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// wantRedirect asserts a see-other response and returns the location.
func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	return rec.Header().Get("Location")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func loadDoc(t *testing.T, store *storage.Storage) *storage.Document {
	t.Helper()
	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return doc
}

func mustAddProject(t *testing.T, store *storage.Storage, name string) {
	t.Helper()
	if err := store.AddProject(name, "", nil); err != nil {
		t.Fatalf("AddProject(%s) error = %v", name, err)
	}
}

// ============================================================================
// Page Tests
// ============================================================================

func TestDashboard(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")
	if _, err := store.AddTimeLog("acme", "", "09:00", "10:30"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"acme", storage.DefaultGroup, "1.50", "2025-06-16"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDashboard_Flash(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := get(t, srv, "/?msg=saved")
	if body := rec.Body.String(); !strings.Contains(body, "saved") || !strings.Contains(body, "flash-ok") {
		t.Error("ok flash not rendered")
	}

	rec = get(t, srv, "/?err=bad+input")
	if body := rec.Body.String(); !strings.Contains(body, "bad input") || !strings.Contains(body, "flash-error") {
		t.Error("error flash not rendered")
	}
}

func TestDashboard_UnknownPath(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestFormRoutesRejectGet(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if rec := get(t, srv, "/projects/add"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := get(t, srv, "/healthz")

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Referrer-Policy"); got != "no-referrer" {
		t.Errorf("Referrer-Policy = %q", got)
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q", csp)
	}
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}

func TestStaticCSS(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := get(t, srv, "/static/app.css")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/css") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if !strings.Contains(rec.Body.String(), ".flash") {
		t.Error("stylesheet missing flash styles")
	}
}

// ============================================================================
// Form Handler Tests
// ============================================================================

func TestProjectAddForm(t *testing.T) {
	srv, store, _ := newTestServer(t)

	rec := postForm(t, srv, "/projects/add", url.Values{
		"name":  {"acme"},
		"group": {"Clients"},
		"tags":  {"web, urgent"},
	})
	loc := wantRedirect(t, rec)
	if !strings.HasPrefix(loc, "/?msg=") {
		t.Errorf("location = %q, want msg flash", loc)
	}

	doc := loadDoc(t, store)
	p, ok := doc.Projects["acme"]
	if !ok {
		t.Fatal("project not created")
	}
	if p.Group != "Clients" {
		t.Errorf("Group = %q, want Clients", p.Group)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "web" || p.Tags[1] != "urgent" {
		t.Errorf("Tags = %v, want [web urgent]", p.Tags)
	}
}

func TestProjectAddForm_Duplicate(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	rec := postForm(t, srv, "/projects/add", url.Values{"name": {"acme"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?err=") {
		t.Errorf("location = %q, want err flash", loc)
	}
}

func TestProjectMoveAndDeleteForms(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	postForm(t, srv, "/projects/move", url.Values{"name": {"acme"}, "group": {"Clients"}})
	if doc := loadDoc(t, store); doc.Projects["acme"].Group != "Clients" {
		t.Errorf("Group = %q, want Clients", doc.Projects["acme"].Group)
	}

	// A blank target falls back to the default group.
	postForm(t, srv, "/projects/move", url.Values{"name": {"acme"}, "group": {""}})
	if doc := loadDoc(t, store); doc.Projects["acme"].Group != storage.DefaultGroup {
		t.Errorf("Group = %q, want %s", doc.Projects["acme"].Group, storage.DefaultGroup)
	}

	rec := postForm(t, srv, "/projects/delete", url.Values{"name": {"acme"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?msg=") {
		t.Errorf("location = %q, want msg flash", loc)
	}
	if doc := loadDoc(t, store); doc.Projects["acme"] != nil {
		t.Error("project still present after delete")
	}
}

func TestTagForms(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	postForm(t, srv, "/projects/tags/add", url.Values{"project": {"acme"}, "tag": {"web"}})
	if doc := loadDoc(t, store); !doc.Projects["acme"].HasTag("web") {
		t.Error("tag not added")
	}

	postForm(t, srv, "/projects/tags/remove", url.Values{"project": {"acme"}, "tag": {"web"}})
	if doc := loadDoc(t, store); doc.Projects["acme"].HasTag("web") {
		t.Error("tag not removed")
	}
}

func TestGroupForms(t *testing.T) {
	srv, store, _ := newTestServer(t)

	postForm(t, srv, "/groups/add", url.Values{"name": {"Clients"}})
	if doc := loadDoc(t, store); !doc.HasGroup("Clients") {
		t.Fatal("group not added")
	}

	postForm(t, srv, "/groups/rename", url.Values{"old": {"Clients"}, "new": {"Work"}})
	doc := loadDoc(t, store)
	if doc.HasGroup("Clients") || !doc.HasGroup("Work") {
		t.Errorf("groups after rename = %v", doc.Groups)
	}

	postForm(t, srv, "/groups/delete", url.Values{"name": {"Work"}})
	if doc := loadDoc(t, store); doc.HasGroup("Work") {
		t.Error("group not deleted")
	}

	// The default group is protected.
	rec := postForm(t, srv, "/groups/delete", url.Values{"name": {storage.DefaultGroup}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?err=") {
		t.Errorf("location = %q, want err flash", loc)
	}
	if doc := loadDoc(t, store); !doc.HasGroup(storage.DefaultGroup) {
		t.Error("default group deleted")
	}
}

func TestTimerForms(t *testing.T) {
	srv, store, now := newTestServer(t)
	mustAddProject(t, store, "acme")

	rec := postForm(t, srv, "/timer/start", url.Values{"project": {"acme"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?msg=") {
		t.Errorf("location = %q, want msg flash", loc)
	}
	sess, err := store.CurrentSession("acme")
	if err != nil || sess == nil {
		t.Fatalf("CurrentSession() = %v, %v after start", sess, err)
	}

	*now = now.Add(90 * time.Minute)

	rec = postForm(t, srv, "/timer/stop", url.Values{"project": {"acme"}})
	loc := wantRedirect(t, rec)
	if !strings.Contains(loc, "1.50") {
		t.Errorf("location = %q, want logged hours in flash", loc)
	}

	sess, err = store.CurrentSession("acme")
	if err != nil || sess != nil {
		t.Errorf("CurrentSession() = %v, %v after stop", sess, err)
	}
	doc := loadDoc(t, store)
	logs := doc.Projects["acme"].TimeLogs
	if len(logs) != 1 {
		t.Fatalf("len(TimeLogs) = %d, want 1", len(logs))
	}
	want := storage.TimeLog{Date: "2025-06-16", StartTime: "09:00:00", EndTime: "10:30:00", Duration: 1.5}
	if logs[0] != want {
		t.Errorf("TimeLogs[0] = %+v, want %+v", logs[0], want)
	}
}

func TestTimerStartForm_Conflict(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")
	if _, err := store.StartSession("acme"); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	rec := postForm(t, srv, "/timer/start", url.Values{"project": {"acme"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?err=") {
		t.Errorf("location = %q, want err flash", loc)
	}
}

func TestTimeLogForms(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	rec := postForm(t, srv, "/logs/add", url.Values{
		"project": {"acme"},
		"date":    {""},
		"start":   {"09:00"},
		"end":     {"10:30"},
	})
	if loc := wantRedirect(t, rec); !strings.Contains(loc, "1.50") {
		t.Errorf("location = %q, want logged hours in flash", loc)
	}
	doc := loadDoc(t, store)
	logs := doc.Projects["acme"].TimeLogs
	if len(logs) != 1 || logs[0].Date != "2025-06-16" || logs[0].StartTime != "09:00:00" {
		t.Fatalf("TimeLogs = %+v", logs)
	}

	postForm(t, srv, "/logs/delete", url.Values{"project": {"acme"}, "index": {"0"}})
	doc = loadDoc(t, store)
	if len(doc.Projects["acme"].TimeLogs) != 0 {
		t.Error("time log not deleted")
	}
	// Timed-entry deletion never prunes the project.
	if doc.Projects["acme"] == nil {
		t.Error("project pruned by time log delete")
	}
}

func TestTimeLogDeleteForm_BadIndex(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	rec := postForm(t, srv, "/logs/delete", url.Values{"project": {"acme"}, "index": {"x"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?err=") {
		t.Errorf("location = %q, want err flash", loc)
	}
}

func TestWorkLogForms(t *testing.T) {
	srv, store, _ := newTestServer(t)

	// The flat log creates projects on the fly.
	postForm(t, srv, "/worklog/add", url.Values{
		"project":     {"notes"},
		"date":        {""},
		"hours":       {"2.5"},
		"description": {"writeup"},
	})
	doc := loadDoc(t, store)
	entry := doc.Projects["notes"].Log["2025-06-16"]
	if entry.Hours != 2.5 || entry.Description != "writeup" {
		t.Fatalf("entry = %+v", entry)
	}

	// Same-date logging accumulates; a blank description keeps the old one.
	postForm(t, srv, "/worklog/add", url.Values{
		"project": {"notes"},
		"hours":   {"1"},
	})
	doc = loadDoc(t, store)
	entry = doc.Projects["notes"].Log["2025-06-16"]
	if entry.Hours != 3.5 || entry.Description != "writeup" {
		t.Fatalf("entry after merge = %+v", entry)
	}

	postForm(t, srv, "/worklog/delete", url.Values{"project": {"notes"}, "date": {"2025-06-16"}})
	if doc := loadDoc(t, store); doc.Projects["notes"] != nil {
		t.Error("emptied project not pruned")
	}
}

func TestGoalSetForm(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	postForm(t, srv, "/goal/set", url.Values{
		"project":  {"acme"},
		"goal":     {"20"},
		"workdays": {"5"},
		"deadline": {"2025-06-22"},
	})
	doc := loadDoc(t, store)
	p := doc.Projects["acme"]
	if p.Goal != 20 || p.WorkdaysCount != 5 || p.Deadline != "2025-06-22" {
		t.Errorf("goal = %+v", p)
	}

	rec := postForm(t, srv, "/goal/set", url.Values{"project": {"acme"}, "goal": {"abc"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?err=") {
		t.Errorf("location = %q, want err flash", loc)
	}
}

func TestTaskForms(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")

	rec := postForm(t, srv, "/tasks/add", url.Values{"project": {"acme"}, "title": {"write docs"}})
	if loc := wantRedirect(t, rec); !strings.HasPrefix(loc, "/?msg=") {
		t.Errorf("location = %q, want msg flash", loc)
	}
	doc := loadDoc(t, store)
	tasks := doc.Projects["acme"].Tasks
	if len(tasks) != 1 || tasks[0].ID != "1" || tasks[0].Date != "2025-06-16" {
		t.Fatalf("Tasks = %+v", tasks)
	}

	// A checked box posts completed=on; an unchecked one posts nothing.
	postForm(t, srv, "/tasks/1/toggle", url.Values{"project": {"acme"}, "completed": {"on"}})
	if doc := loadDoc(t, store); !doc.Projects["acme"].Tasks[0].Completed {
		t.Error("task not completed")
	}
	postForm(t, srv, "/tasks/1/toggle", url.Values{"project": {"acme"}})
	if doc := loadDoc(t, store); doc.Projects["acme"].Tasks[0].Completed {
		t.Error("task not reopened")
	}

	postForm(t, srv, "/tasks/1/delete", url.Values{"project": {"acme"}})
	if doc := loadDoc(t, store); doc.Projects["acme"] != nil {
		t.Error("emptied project not pruned after task delete")
	}
}

// ============================================================================
// API Tests
// ============================================================================

func TestAPIReport(t *testing.T) {
	srv, store, _ := newTestServer(t)
	if err := store.AddProject("acme", "", []string{"web"}); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	if _, err := store.AddTimeLog("acme", "2025-06-10", "09:00", "11:30"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}
	mustAddProject(t, store, "notes")
	if _, err := store.AddTimeLog("notes", "2025-06-11", "09:00", "10:00"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}

	rec := get(t, srv, "/api/report?tag=web")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var rep reports.WorkReport
	decodeBody(t, rec, &rep)
	if rep.Filter.Tag != "web" {
		t.Errorf("Filter.Tag = %q, want web", rep.Filter.Tag)
	}
	if rep.TotalHours != 2.5 {
		t.Errorf("TotalHours = %v, want 2.5", rep.TotalHours)
	}
	if len(rep.Groups) != 1 || len(rep.Groups[0].Projects) != 1 || rep.Groups[0].Projects[0].Name != "acme" {
		t.Errorf("filtered report = %+v, want acme only", rep.Groups)
	}
}

func TestAPISession(t *testing.T) {
	srv, store, now := newTestServer(t)

	rec := get(t, srv, "/api/session")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without project = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = get(t, srv, "/api/session?project=ghost")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown project = %d, want %d", rec.Code, http.StatusNotFound)
	}

	mustAddProject(t, store, "acme")
	rec = get(t, srv, "/api/session?project=acme")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status with no session = %d, want %d", rec.Code, http.StatusNotFound)
	}

	if _, err := store.StartSession("acme"); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	*now = now.Add(30 * time.Minute)

	rec = get(t, srv, "/api/session?project=acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got sessionResponse
	decodeBody(t, rec, &got)
	if got.Project != "acme" || got.Date != "2025-06-16" {
		t.Errorf("session = %+v", got)
	}
	if got.ElapsedSeconds != 1800 {
		t.Errorf("ElapsedSeconds = %d, want 1800", got.ElapsedSeconds)
	}
	if !strings.HasPrefix(got.StartTime, "2025-06-16T09:00:00") {
		t.Errorf("StartTime = %q", got.StartTime)
	}
}

func TestAPILatestLog(t *testing.T) {
	srv, store, _ := newTestServer(t)

	rec := get(t, srv, "/api/logs/latest")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without project = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	mustAddProject(t, store, "acme")
	rec = get(t, srv, "/api/logs/latest?project=acme")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status with no logs = %d, want %d", rec.Code, http.StatusNotFound)
	}

	if _, err := store.AddTimeLog("acme", "2025-06-10", "09:00", "10:00"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}
	if _, err := store.AddTimeLog("acme", "2025-06-12", "08:00", "09:30"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}

	rec = get(t, srv, "/api/logs/latest?project=acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var entry storage.TimeLog
	decodeBody(t, rec, &entry)
	if entry.Date != "2025-06-12" || entry.Duration != 1.5 {
		t.Errorf("latest = %+v, want the 2025-06-12 entry", entry)
	}
}

// ============================================================================
// Report Page Tests
// ============================================================================

func TestReportPage(t *testing.T) {
	srv, store, _ := newTestServer(t)
	if err := store.AddProject("acme", "", []string{"web"}); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	if _, err := store.AddTimeLog("acme", "2025-06-10", "09:00", "11:30"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}

	rec := get(t, srv, "/report?tag=web")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"acme", "2.50", `value="web"`, "/report/download?tag=web"} {
		if !strings.Contains(body, want) {
			t.Errorf("report page missing %q", want)
		}
	}
}

func TestReportPage_Empty(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := get(t, srv, "/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "No entries match this filter.") {
		t.Error("empty state not rendered")
	}
}

func TestReportDownload(t *testing.T) {
	srv, store, _ := newTestServer(t)
	mustAddProject(t, store, "acme")
	if _, err := store.AddTimeLog("acme", "2025-06-10", "09:00", "11:30"); err != nil {
		t.Fatalf("AddTimeLog() error = %v", err)
	}

	rec := get(t, srv, "/report/download")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "work_report.md") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "# Work Report") || !strings.Contains(body, "acme") {
		t.Errorf("markdown body = %q", body)
	}
}
