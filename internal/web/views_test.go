package web

import (
	"testing"
	"time"

	"worklog/internal/dates"
	"worklog/internal/reports"
	"worklog/internal/storage"
)

// ============================================================================
// Test Helpers
// ============================================================================

// testCalendar returns a Gregorian calendar pinned to 2025-06-16 09:00 so
// view output is stable.
func testCalendar() *dates.Gregorian {
	cal := dates.NewGregorian()
	cal.SetNowFunc(func() time.Time {
		return time.Date(2025, 6, 16, 9, 0, 0, 0, time.Local)
	})
	return cal
}

func dashboardDocument() *storage.Document {
	doc := storage.NewDocument()
	doc.Groups = append(doc.Groups, "Clients")
	doc.Projects["acme"] = &storage.Project{
		Group: "Clients",
		Tags:  []string{"web"},
		TimeLogs: []storage.TimeLog{
			{Date: "2025-06-10", StartTime: "09:00:00", EndTime: "10:00:00", Duration: 1},
			{Date: "2025-06-12", StartTime: "08:00:00", EndTime: "09:30:00", Duration: 1.5},
			{Date: "2025-06-12", StartTime: "14:00:00", EndTime: "15:00:00", Duration: 1},
		},
	}
	doc.Projects["blog"] = &storage.Project{
		Log: map[string]storage.WorkEntry{
			"2025-06-09": {Hours: 2, Description: "draft"},
			"2025-06-11": {Hours: 1, Description: "edit"},
		},
		Tasks: []storage.Task{
			{ID: "1", Title: "outline", Date: "2025-06-09", Completed: true},
			{ID: "2", Title: "publish", Date: "2025-06-11"},
		},
	}
	doc.Normalize()
	return doc
}

func findProject(t *testing.T, view DashboardView, name string) ProjectView {
	t.Helper()
	for _, g := range view.Groups {
		for _, p := range g.Projects {
			if p.Name == name {
				return p
			}
		}
	}
	t.Fatalf("project %s not in view", name)
	return ProjectView{}
}

// ============================================================================
// Dashboard View Tests
// ============================================================================

func TestBuildDashboardView(t *testing.T) {
	view := buildDashboardView(dashboardDocument(), testCalendar(), FlashView{})

	if view.Today != "2025-06-16" {
		t.Errorf("Today = %q, want 2025-06-16", view.Today)
	}
	if !view.HasProjects {
		t.Error("HasProjects = false, want true")
	}
	if view.TotalHours != "6.50" {
		t.Errorf("TotalHours = %q, want 6.50", view.TotalHours)
	}

	if len(view.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(view.Groups))
	}
	if view.Groups[0].Name != storage.DefaultGroup || !view.Groups[0].Default {
		t.Errorf("Groups[0] = %q (default=%v), want default group first", view.Groups[0].Name, view.Groups[0].Default)
	}
	if view.Groups[1].Name != "Clients" || view.Groups[1].Default {
		t.Errorf("Groups[1] = %q (default=%v), want Clients", view.Groups[1].Name, view.Groups[1].Default)
	}
	if view.Groups[1].Total != "3.50" {
		t.Errorf("Clients total = %q, want 3.50", view.Groups[1].Total)
	}
	if len(view.GroupNames) != 2 || view.GroupNames[0] != storage.DefaultGroup || view.GroupNames[1] != "Clients" {
		t.Errorf("GroupNames = %v", view.GroupNames)
	}

	acme := findProject(t, view, "acme")
	if acme.Group != "Clients" {
		t.Errorf("acme group = %q, want Clients", acme.Group)
	}
	if acme.Total != "3.50" {
		t.Errorf("acme total = %q, want 3.50", acme.Total)
	}
	if len(acme.Tags) != 1 || acme.Tags[0] != "web" {
		t.Errorf("acme tags = %v, want [web]", acme.Tags)
	}
	if acme.HasGoal {
		t.Error("acme has no goal, HasGoal = true")
	}

	blog := findProject(t, view, "blog")
	if blog.Total != "3.00" {
		t.Errorf("blog total = %q, want 3.00", blog.Total)
	}
	if len(blog.Tasks) != 2 || blog.Tasks[0].Title != "outline" || !blog.Tasks[0].Completed {
		t.Errorf("blog tasks = %+v", blog.Tasks)
	}
	if len(blog.WorkLog) != 2 || blog.WorkLog[0].Date != "2025-06-11" || blog.WorkLog[1].Date != "2025-06-09" {
		t.Errorf("blog work log = %+v, want newest first", blog.WorkLog)
	}
	if blog.WorkLog[0].Hours != "1.00" || blog.WorkLog[0].Description != "edit" {
		t.Errorf("blog work log[0] = %+v", blog.WorkLog[0])
	}
}

func TestBuildDashboardView_ProjectOrderIgnoresCase(t *testing.T) {
	doc := storage.NewDocument()
	doc.Projects["Beta"] = &storage.Project{Log: map[string]storage.WorkEntry{"2025-06-01": {Hours: 1}}}
	doc.Projects["alpha"] = &storage.Project{Log: map[string]storage.WorkEntry{"2025-06-01": {Hours: 1}}}
	doc.Normalize()

	view := buildDashboardView(doc, testCalendar(), FlashView{})
	if len(view.Groups) != 1 || len(view.Groups[0].Projects) != 2 {
		t.Fatalf("unexpected view shape: %+v", view.Groups)
	}
	got := []string{view.Groups[0].Projects[0].Name, view.Groups[0].Projects[1].Name}
	if got[0] != "alpha" || got[1] != "Beta" {
		t.Errorf("project order = %v, want [alpha Beta]", got)
	}
}

func TestBuildDashboardView_TimeLogsNewestFirst(t *testing.T) {
	view := buildDashboardView(dashboardDocument(), testCalendar(), FlashView{})
	acme := findProject(t, view, "acme")

	if len(acme.TimeLogs) != 3 {
		t.Fatalf("len(TimeLogs) = %d, want 3", len(acme.TimeLogs))
	}
	first := acme.TimeLogs[0]
	if first.Date != "2025-06-12" || first.Start != "14:00:00" {
		t.Errorf("TimeLogs[0] = %+v, want the 14:00 entry of 2025-06-12", first)
	}
	// Display order is newest first, but each row keeps its stored position
	// so the delete form still addresses the right entry.
	if first.Index != 2 {
		t.Errorf("TimeLogs[0].Index = %d, want 2", first.Index)
	}
	if acme.TimeLogs[2].Index != 0 || acme.TimeLogs[2].Date != "2025-06-10" {
		t.Errorf("TimeLogs[2] = %+v, want the oldest entry at stored index 0", acme.TimeLogs[2])
	}
}

func TestBuildDashboardView_GoalAndPace(t *testing.T) {
	doc := storage.NewDocument()
	doc.Projects["acme"] = &storage.Project{
		Goal:          20,
		WorkdaysCount: 5,
		Deadline:      "2025-06-22",
		TimeLogs: []storage.TimeLog{
			{Date: "2025-06-10", StartTime: "09:00:00", EndTime: "14:00:00", Duration: 5},
		},
	}
	doc.Normalize()

	view := buildDashboardView(doc, testCalendar(), FlashView{})
	acme := findProject(t, view, "acme")

	if !acme.HasGoal {
		t.Fatal("HasGoal = false, want true")
	}
	if acme.Goal != "20.00" || acme.Remaining != "15.00" {
		t.Errorf("goal/remaining = %q/%q, want 20.00/15.00", acme.Goal, acme.Remaining)
	}
	if acme.Percent != "25.0" {
		t.Errorf("Percent = %q, want 25.0", acme.Percent)
	}
	if acme.BarWidth != 25 {
		t.Errorf("BarWidth = %d, want 25", acme.BarWidth)
	}
	if acme.Deadline != "2025-06-22" {
		t.Errorf("Deadline = %q", acme.Deadline)
	}
	// 2025-06-16 through 2025-06-22 is a 7 day span, 5 of them working days.
	if acme.Workdays != 5 {
		t.Errorf("Workdays = %d, want 5", acme.Workdays)
	}
	if !acme.HasPace || acme.Recommended != "3.0" {
		t.Errorf("pace = %v/%q, want 3.0 per day", acme.HasPace, acme.Recommended)
	}
}

func TestBuildDashboardView_RunningSession(t *testing.T) {
	doc := storage.NewDocument()
	doc.Projects["acme"] = &storage.Project{
		CurrentSession: &storage.OpenSession{
			StartTime: time.Date(2025, 6, 16, 9, 0, 0, 0, time.Local),
			Date:      "2025-06-16",
		},
	}
	doc.Normalize()

	view := buildDashboardView(doc, testCalendar(), FlashView{})
	acme := findProject(t, view, "acme")
	if !acme.Running {
		t.Error("Running = false, want true")
	}
	if acme.SessionSince != "09:00:00" {
		t.Errorf("SessionSince = %q, want 09:00:00", acme.SessionSince)
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		percent float64
		want    int
	}{
		{-5, 0},
		{0, 0},
		{42.9, 42},
		{100, 100},
		{250, 100},
	}
	for _, tt := range tests {
		if got := barWidth(tt.percent); got != tt.want {
			t.Errorf("barWidth(%v) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}

// ============================================================================
// Report View Tests
// ============================================================================

func TestBuildReportPageView(t *testing.T) {
	rep := &reports.WorkReport{
		GeneratedOn: "2025-06-16",
		Filter:      reports.Filter{Tag: "web", DateFrom: "2025-06-01"},
		Groups: []reports.GroupReport{
			{
				Name:       "Clients",
				TotalHours: 2.5,
				Projects: []reports.ProjectReport{
					{
						Name:       "acme",
						Tags:       []string{"web", "urgent"},
						TotalHours: 2.5,
						Entries: []reports.LogEntry{
							{Date: "2025-06-10", StartTime: "09:00:00", EndTime: "11:30:00", Hours: 2.5},
						},
					},
				},
			},
		},
		TotalHours: 2.5,
	}

	view := buildReportPageView(rep)
	if !view.HasRows {
		t.Fatal("HasRows = false, want true")
	}
	if view.Total != "2.50" {
		t.Errorf("Total = %q, want 2.50", view.Total)
	}
	if len(view.Groups) != 1 || view.Groups[0].Total != "2.50" {
		t.Fatalf("groups = %+v", view.Groups)
	}
	p := view.Groups[0].Projects[0]
	if p.Tags != "web, urgent" {
		t.Errorf("Tags = %q, want joined list", p.Tags)
	}
	if len(p.Entries) != 1 || p.Entries[0].Hours != "2.50" {
		t.Errorf("entries = %+v", p.Entries)
	}
	// Query keys are encoded alphabetically.
	if view.DownloadHref != "/report/download?from=2025-06-01&tag=web" {
		t.Errorf("DownloadHref = %q", view.DownloadHref)
	}
}

func TestBuildReportPageView_Empty(t *testing.T) {
	view := buildReportPageView(&reports.WorkReport{GeneratedOn: "2025-06-16"})
	if view.HasRows {
		t.Error("HasRows = true for empty report")
	}
	if view.Total != "0.00" {
		t.Errorf("Total = %q, want 0.00", view.Total)
	}
	if view.DownloadHref != "/report/download" {
		t.Errorf("DownloadHref = %q, want bare path", view.DownloadHref)
	}
}
