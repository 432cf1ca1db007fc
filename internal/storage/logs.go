package storage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// Timed logs
// ============================================================================

// AddTimeLog records a manual time entry. Times accept HH:MM or HH:MM:SS
// and are stored as HH:MM:SS. A blank date means today. The duration is
// derived from the clock times and rounded to two decimals.
func (s *Storage) AddTimeLog(project, date, start, end string) (TimeLog, error) {
	project = strings.TrimSpace(project)

	date = strings.TrimSpace(date)
	if date == "" {
		date = s.today()
	} else if err := s.cal.Validate(date); err != nil {
		return TimeLog{}, Validationf("invalid date %q: %v", date, err)
	}

	startSec, err := parseClock(start)
	if err != nil {
		return TimeLog{}, Validationf("invalid start time %q: %v", start, err)
	}
	endSec, err := parseClock(end)
	if err != nil {
		return TimeLog{}, Validationf("invalid end time %q: %v", end, err)
	}
	if endSec < startSec {
		return TimeLog{}, Validationf("end time is before start time")
	}

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return TimeLog{}, NotFoundf("project not found: %s", project)
	}

	entry := TimeLog{
		Date:      date,
		StartTime: formatClock(startSec),
		EndTime:   formatClock(endSec),
		Duration:  round2(float64(endSec-startSec) / 3600),
	}
	p.TimeLogs = append(p.TimeLogs, entry)

	err = s.saveWith(doc, SaveContext{
		Operation: "log time",
		Project:   project,
		Detail:    fmt.Sprintf("%s %s-%s", date, entry.StartTime, entry.EndTime),
	})
	return entry, err
}

// DeleteTimeLog removes the time entry at the given position. Projects are
// never pruned here; an emptied project keeps its place on the dashboard.
func (s *Storage) DeleteTimeLog(project string, index int) error {
	project = strings.TrimSpace(project)
	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}
	if index < 0 || index >= len(p.TimeLogs) {
		return NotFoundf("no time log at position %d for %s", index, project)
	}
	p.TimeLogs = append(p.TimeLogs[:index], p.TimeLogs[index+1:]...)

	return s.saveWith(doc, SaveContext{Operation: "delete time log", Project: project})
}

// parseClock parses HH:MM or HH:MM:SS into seconds since midnight.
func parseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM or HH:MM:SS")
	}
	nums := make([]int, 3)
	for i, part := range parts {
		if !isDigitsOnly(part) || part == "" {
			return 0, fmt.Errorf("expected HH:MM or HH:MM:SS")
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("expected HH:MM or HH:MM:SS")
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return 0, fmt.Errorf("clock value out of range")
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], nil
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ============================================================================
// Plain work log
// ============================================================================

// LogWork records hours against a date without clock times. The project is
// created on the fly when missing. Logging twice on the same date adds the
// hours together; the description is replaced only when the new one is
// non-empty.
func (s *Storage) LogWork(project, date, hours, description string) error {
	project = strings.TrimSpace(project)
	if project == "" {
		return Validationf("project name cannot be empty")
	}
	if len(project) > maxNameLen {
		return Validationf("project name exceeds %d characters", maxNameLen)
	}

	h, err := parseHours(hours)
	if err != nil {
		return err
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = s.today()
	} else if err := s.cal.Validate(date); err != nil {
		return Validationf("invalid date %q: %v", date, err)
	}

	description = strings.TrimSpace(description)
	if len(description) > maxDescLen {
		return Validationf("description exceeds %d characters", maxDescLen)
	}

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		p = newProjectShell()
		doc.Projects[project] = p
	}
	if p.Log == nil {
		p.Log = make(map[string]WorkEntry)
	}

	entry := p.Log[date]
	entry.Hours += h
	if description != "" {
		entry.Description = description
	}
	p.Log[date] = entry

	return s.saveWith(doc, SaveContext{
		Operation: "log work",
		Project:   project,
		Detail:    fmt.Sprintf("%s %.2fh", date, h),
	})
}

// DeleteWorkLog removes the entry for a date. A project left with no logs,
// no goal, no tasks, no timed entries and no running session is dropped
// entirely.
func (s *Storage) DeleteWorkLog(project, date string) error {
	project = strings.TrimSpace(project)
	date = strings.TrimSpace(date)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}
	if _, ok := p.Log[date]; !ok {
		return NotFoundf("no log on %s for %s", date, project)
	}
	delete(p.Log, date)
	pruneIfEmpty(doc, project)

	return s.saveWith(doc, SaveContext{Operation: "delete work log", Project: project, Detail: date})
}

// pruneIfEmpty drops a project once nothing is left in it. Only callers
// that remove plain log entries or tasks prune; timed-entry deletions keep
// the project around.
func pruneIfEmpty(doc *Document, name string) {
	if p, ok := doc.Projects[name]; ok && p.empty() {
		delete(doc.Projects, name)
	}
}

func parseHours(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, Validationf("hours cannot be empty")
	}
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, Validationf("invalid hours value: %s", raw)
	}
	if h <= 0 {
		return 0, Validationf("hours must be positive")
	}
	return h, nil
}

// ============================================================================
// Goals
// ============================================================================

// SetGoal sets or updates a project goal. A goal of zero clears the goal
// along with its workday count and deadline. A blank workdays value counts
// as zero, which means every day of the week. A blank deadline clears the
// stored one.
func (s *Storage) SetGoal(project, goal, workdays, deadline string) error {
	project = strings.TrimSpace(project)

	goal = strings.TrimSpace(goal)
	if goal == "" {
		return Validationf("goal cannot be empty")
	}
	g, err := strconv.ParseFloat(goal, 64)
	if err != nil || math.IsNaN(g) || math.IsInf(g, 0) {
		return Validationf("invalid goal value: %s", goal)
	}
	if g < 0 {
		return Validationf("goal cannot be negative")
	}

	wd := 0
	if workdays = strings.TrimSpace(workdays); workdays != "" {
		wd, err = strconv.Atoi(workdays)
		if err != nil {
			return Validationf("invalid workdays value: %s", workdays)
		}
		if wd < 0 || wd > 7 {
			return Validationf("workdays must be between 0 and 7")
		}
	}

	deadline = strings.TrimSpace(deadline)
	if deadline != "" {
		if err := s.cal.Validate(deadline); err != nil {
			return Validationf("invalid deadline %q: %v", deadline, err)
		}
	}

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}

	if g == 0 {
		p.Goal, p.WorkdaysCount, p.Deadline = 0, 0, ""
		pruneIfEmpty(doc, project)
		return s.saveWith(doc, SaveContext{Operation: "clear goal", Project: project})
	}
	p.Goal = g
	p.WorkdaysCount = wd
	p.Deadline = deadline

	return s.saveWith(doc, SaveContext{
		Operation: "set goal",
		Project:   project,
		Detail:    fmt.Sprintf("%.1fh", g),
	})
}
