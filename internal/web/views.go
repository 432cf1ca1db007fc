package web

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"worklog/internal/dates"
	"worklog/internal/reports"
	"worklog/internal/storage"
)

// View models are pre-formatted: every figure arrives as a display string so
// templates only place values, never compute them.

// DashboardView is the full model behind the index page.
type DashboardView struct {
	Today       string
	Flash       FlashView
	Groups      []GroupView
	GroupNames  []string
	TotalHours  string
	HasProjects bool
}

// FlashView is a one-shot banner carried in redirect query parameters.
type FlashView struct {
	Message string
	IsError bool
}

// GroupView is one group section with its member projects.
type GroupView struct {
	Name     string
	Total    string
	Default  bool
	Projects []ProjectView
}

// ProjectView is one project card.
type ProjectView struct {
	Name  string
	Group string
	Tags  []string
	Total string

	Running      bool
	SessionSince string

	HasGoal     bool
	Goal        string
	Remaining   string
	Percent     string
	BarWidth    int
	Deadline    string
	Workdays    int
	HasPace     bool
	Recommended string

	TimeLogs []TimeLogView
	WorkLog  []WorkEntryView
	Tasks    []TaskView
}

// TimeLogView is one timed entry row. Index is the entry's position in the
// stored sequence, which is what the delete form posts back.
type TimeLogView struct {
	Index    int
	Date     string
	Start    string
	End      string
	Duration string
}

// WorkEntryView is one legacy flat-log row.
type WorkEntryView struct {
	Date        string
	Hours       string
	Description string
}

// TaskView is one to-do row.
type TaskView struct {
	ID        string
	Title     string
	Date      string
	Completed bool
}

// buildDashboardView assembles the index page model from a loaded document.
// Groups appear in document order; projects alphabetically (case-insensitive)
// within each group. Pure so tests can drive it without a server.
func buildDashboardView(doc *storage.Document, cal dates.Calendar, flash FlashView) DashboardView {
	perProject, grand := storage.Totals(doc)
	groupTotals := storage.GroupTotals(doc)
	today := cal.Today()

	byGroup := make(map[string][]string)
	for name, p := range doc.Projects {
		g := doc.ResolvedGroup(p)
		byGroup[g] = append(byGroup[g], name)
	}

	view := DashboardView{
		Today:       today,
		Flash:       flash,
		GroupNames:  append([]string(nil), doc.Groups...),
		TotalHours:  formatHours(grand),
		HasProjects: len(doc.Projects) > 0,
	}

	for _, group := range doc.Groups {
		names := byGroup[group]
		sort.SliceStable(names, func(i, j int) bool {
			return strings.ToLower(names[i]) < strings.ToLower(names[j])
		})

		gv := GroupView{
			Name:    group,
			Total:   formatHours(groupTotals[group]),
			Default: group == storage.DefaultGroup,
		}
		for _, name := range names {
			gv.Projects = append(gv.Projects, buildProjectView(doc, cal, name, today, perProject[name]))
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func buildProjectView(doc *storage.Document, cal dates.Calendar, name, today string, total float64) ProjectView {
	p := doc.Projects[name]

	pv := ProjectView{
		Name:  name,
		Group: doc.ResolvedGroup(p),
		Tags:  append([]string(nil), p.Tags...),
		Total: formatHours(total),
	}

	if p.CurrentSession != nil {
		pv.Running = true
		pv.SessionSince = p.CurrentSession.StartTime.Format("15:04:05")
	}

	if p.Goal > 0 {
		prog := storage.GoalProgress(p)
		pv.HasGoal = true
		pv.Goal = formatHours(p.Goal)
		pv.Remaining = formatHours(prog.Remaining)
		pv.Percent = fmt.Sprintf("%.1f", prog.Percent)
		pv.BarWidth = barWidth(prog.Percent)
		pv.Deadline = p.Deadline

		pace := storage.RecommendedPace(cal, today, p.Deadline, p.WorkdaysCount, prog.Remaining)
		pv.Workdays = pace.Workdays
		if pace.HasRecommendation {
			pv.HasPace = true
			pv.Recommended = fmt.Sprintf("%.1f", pace.Recommended)
		}
	}

	for i, entry := range p.TimeLogs {
		pv.TimeLogs = append(pv.TimeLogs, TimeLogView{
			Index:    i,
			Date:     entry.Date,
			Start:    entry.StartTime,
			End:      entry.EndTime,
			Duration: formatHours(entry.Duration),
		})
	}
	// Newest first for display; deletes still address the stored position.
	sort.SliceStable(pv.TimeLogs, func(i, j int) bool {
		a, b := pv.TimeLogs[i], pv.TimeLogs[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.Start > b.Start
	})

	logDates := make([]string, 0, len(p.Log))
	for d := range p.Log {
		logDates = append(logDates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(logDates)))
	for _, d := range logDates {
		entry := p.Log[d]
		pv.WorkLog = append(pv.WorkLog, WorkEntryView{
			Date:        d,
			Hours:       formatHours(entry.Hours),
			Description: entry.Description,
		})
	}

	for _, t := range p.Tasks {
		pv.Tasks = append(pv.Tasks, TaskView{ID: t.ID, Title: t.Title, Date: t.Date, Completed: t.Completed})
	}

	return pv
}

// ReportPageView is the model behind the report page.
type ReportPageView struct {
	Filter       reports.Filter
	Groups       []ReportGroupView
	Total        string
	HasRows      bool
	DownloadHref string
}

// ReportGroupView is one group block in the rendered report.
type ReportGroupView struct {
	Name     string
	Total    string
	Projects []ReportProjectView
}

// ReportProjectView is one project block in the rendered report.
type ReportProjectView struct {
	Name    string
	Tags    string
	Total   string
	Entries []ReportEntryView
}

// ReportEntryView is one log line in the rendered report.
type ReportEntryView struct {
	Date  string
	Start string
	End   string
	Hours string
}

func buildReportPageView(rep *reports.WorkReport) ReportPageView {
	view := ReportPageView{
		Filter: rep.Filter,
		Total:  formatHours(rep.TotalHours),
	}

	view.DownloadHref = "/report/download"
	if q := filterQuery(rep.Filter); q != "" {
		view.DownloadHref += "?" + q
	}

	for _, g := range rep.Groups {
		gv := ReportGroupView{Name: g.Name, Total: formatHours(g.TotalHours)}
		for _, p := range g.Projects {
			pv := ReportProjectView{
				Name:  p.Name,
				Tags:  strings.Join(p.Tags, ", "),
				Total: formatHours(p.TotalHours),
			}
			for _, e := range p.Entries {
				pv.Entries = append(pv.Entries, ReportEntryView{
					Date:  e.Date,
					Start: e.StartTime,
					End:   e.EndTime,
					Hours: formatHours(e.Hours),
				})
			}
			gv.Projects = append(gv.Projects, pv)
		}
		view.Groups = append(view.Groups, gv)
	}
	view.HasRows = len(view.Groups) > 0
	return view
}

// filterQuery encodes a report filter back into query parameters.
func filterQuery(f reports.Filter) string {
	q := url.Values{}
	if f.Group != "" {
		q.Set("group", f.Group)
	}
	if f.Project != "" {
		q.Set("project", f.Project)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.DateFrom != "" {
		q.Set("from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("to", f.DateTo)
	}
	return q.Encode()
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// barWidth caps the progress bar at 100 for display. The stored percentage
// itself is allowed to overshoot.
func barWidth(percent float64) int {
	if percent >= 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return int(percent)
}
