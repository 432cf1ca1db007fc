package storage

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Decoding is deliberately two-staged: raw JSON fields land in
// json.RawMessage holders first, then each leaf is coerced with an explicit
// default. Old files (bare-number logs, numeric task ids, missing fields)
// and damaged files both come out as a canonical Document; nothing here ever
// returns an error.

type rawDocument struct {
	Groups   json.RawMessage `json:"groups"`
	Projects json.RawMessage `json:"projects"`
}

type rawProject struct {
	Tags           json.RawMessage `json:"tags"`
	Group          json.RawMessage `json:"group"`
	TimeLogs       json.RawMessage `json:"time_logs"`
	CurrentSession json.RawMessage `json:"current_session"`
	Goal           json.RawMessage `json:"goal"`
	WorkdaysCount  json.RawMessage `json:"workdays_count"`
	Deadline       json.RawMessage `json:"deadline"`
	Tasks          json.RawMessage `json:"tasks"`
	Log            json.RawMessage `json:"log"`
}

type rawTimeLog struct {
	Date      json.RawMessage `json:"date"`
	StartTime json.RawMessage `json:"start_time"`
	EndTime   json.RawMessage `json:"end_time"`
	Duration  json.RawMessage `json:"duration"`
}

type rawSession struct {
	StartTime json.RawMessage `json:"start_time"`
	Date      json.RawMessage `json:"date"`
}

type rawTask struct {
	ID        json.RawMessage `json:"id"`
	Title     json.RawMessage `json:"title"`
	Date      json.RawMessage `json:"date"`
	Completed json.RawMessage `json:"completed"`
}

type rawWorkEntry struct {
	Hours       json.RawMessage `json:"hours"`
	Description json.RawMessage `json:"description"`
}

// Decode parses raw bytes into a normalized document. A payload that is not
// a JSON object yields a fresh empty document; malformed fields decode to
// their defaults. Decode never fails.
func Decode(data []byte) *Document {
	var rd rawDocument
	if len(bytes.TrimSpace(data)) == 0 || json.Unmarshal(data, &rd) != nil {
		return NewDocument()
	}

	d := &Document{
		Groups:   decodeGroups(rd.Groups),
		Projects: map[string]*Project{},
	}

	var projects map[string]json.RawMessage
	if rd.Projects != nil && json.Unmarshal(rd.Projects, &projects) == nil {
		for name, raw := range projects {
			d.Projects[name] = decodeProject(raw)
		}
	}

	d.Normalize()
	return d
}

// Normalize brings a document to canonical shape in place. It is
// deterministic and idempotent, and every load runs it.
func (d *Document) Normalize() {
	// Groups: trimmed, non-empty, unique, default group always present.
	groups := make([]string, 0, len(d.Groups)+1)
	seen := map[string]bool{}
	for _, g := range d.Groups {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	if !seen[DefaultGroup] {
		groups = append([]string{DefaultGroup}, groups...)
	}
	d.Groups = groups

	if d.Projects == nil {
		d.Projects = map[string]*Project{}
	}

	// Walk projects in sorted order so implicit group creation appends in a
	// stable order.
	names := make([]string, 0, len(d.Projects))
	for name := range d.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := d.Projects[name]
		if p == nil {
			p = newProjectShell()
			d.Projects[name] = p
		}

		if p.Tags == nil {
			p.Tags = []string{}
		}
		if p.TimeLogs == nil {
			p.TimeLogs = []TimeLog{}
		}
		for i := range p.TimeLogs {
			if p.TimeLogs[i].Duration < 0 {
				p.TimeLogs[i].Duration = 0
			}
		}

		p.Group = strings.TrimSpace(p.Group)
		if p.Group == "" {
			p.Group = DefaultGroup
		}
		d.EnsureGroup(p.Group)

		if p.CurrentSession != nil {
			if p.CurrentSession.StartTime.IsZero() || p.CurrentSession.Date == "" {
				p.CurrentSession = nil
			}
		}

		if p.Goal < 0 {
			p.Goal = 0
		}
		if p.WorkdaysCount < 0 {
			p.WorkdaysCount = 0
		} else if p.WorkdaysCount > 7 {
			p.WorkdaysCount = 7
		}

		// Legacy collections serialize with omitempty; keep empty and
		// missing indistinguishable.
		if len(p.Tasks) == 0 {
			p.Tasks = nil
		}
		if len(p.Log) == 0 {
			p.Log = nil
		}
	}
}

func decodeGroups(raw json.RawMessage) []string {
	var items []json.RawMessage
	if raw == nil || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	groups := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := decodeString(item); ok {
			groups = append(groups, s)
		}
	}
	return groups
}

func decodeProject(raw json.RawMessage) *Project {
	var rp rawProject
	if json.Unmarshal(raw, &rp) != nil {
		return newProjectShell()
	}

	p := &Project{
		Tags:           decodeGroups(rp.Tags),
		TimeLogs:       decodeTimeLogs(rp.TimeLogs),
		CurrentSession: decodeSession(rp.CurrentSession),
		Tasks:          decodeTasks(rp.Tasks),
		Log:            decodeWorkEntries(rp.Log),
	}
	p.Group, _ = decodeString(rp.Group)
	if goal, ok := decodeFloat(rp.Goal); ok {
		p.Goal = goal
	}
	if days, ok := decodeFloat(rp.WorkdaysCount); ok {
		// Clamp before converting; a wild float must not overflow the int.
		if days < 0 {
			days = 0
		} else if days > 7 {
			days = 7
		}
		p.WorkdaysCount = int(days)
	}
	p.Deadline, _ = decodeString(rp.Deadline)
	return p
}

func decodeTimeLogs(raw json.RawMessage) []TimeLog {
	var items []json.RawMessage
	if raw == nil || json.Unmarshal(raw, &items) != nil {
		return []TimeLog{}
	}
	logs := make([]TimeLog, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var rl rawTimeLog
		if json.Unmarshal(item, &rl) != nil {
			continue
		}
		var l TimeLog
		l.Date, _ = decodeString(rl.Date)
		l.StartTime, _ = decodeString(rl.StartTime)
		l.EndTime, _ = decodeString(rl.EndTime)
		l.Duration, _ = decodeFloat(rl.Duration)
		logs = append(logs, l)
	}
	return logs
}

func decodeSession(raw json.RawMessage) *OpenSession {
	if raw == nil {
		return nil
	}
	var rs rawSession
	if json.Unmarshal(raw, &rs) != nil {
		return nil
	}
	start, ok := decodeString(rs.StartTime)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		// Older files wrote local timestamps without a zone.
		t, err = time.ParseInLocation("2006-01-02T15:04:05", start, time.Local)
		if err != nil {
			return nil
		}
	}
	date, _ := decodeString(rs.Date)
	if date == "" {
		return nil
	}
	return &OpenSession{StartTime: t, Date: date}
}

func decodeTasks(raw json.RawMessage) []Task {
	var items []json.RawMessage
	if raw == nil || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	tasks := make([]Task, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var rt rawTask
		if json.Unmarshal(item, &rt) != nil {
			continue
		}
		var t Task
		if s, ok := decodeString(rt.ID); ok {
			t.ID = s
		} else if f, ok := decodeFloat(rt.ID); ok {
			t.ID = strconv.FormatInt(int64(f), 10)
		}
		t.Title, _ = decodeString(rt.Title)
		t.Date, _ = decodeString(rt.Date)
		t.Completed, _ = decodeBool(rt.Completed)
		tasks = append(tasks, t)
	}
	return tasks
}

func decodeWorkEntries(raw json.RawMessage) map[string]WorkEntry {
	var items map[string]json.RawMessage
	if raw == nil || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	entries := make(map[string]WorkEntry, len(items))
	for date, item := range items {
		// A bare number is the oldest shape; the object form came later.
		if hours, ok := decodeFloat(item); ok {
			entries[date] = WorkEntry{Hours: hours}
			continue
		}
		var re rawWorkEntry
		if json.Unmarshal(item, &re) == nil {
			var e WorkEntry
			e.Hours, _ = decodeFloat(re.Hours)
			e.Description, _ = decodeString(re.Description)
			entries[date] = e
			continue
		}
		entries[date] = WorkEntry{}
	}
	return entries
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func decodeString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func decodeFloat(raw json.RawMessage) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	return f, true
}

func decodeBool(raw json.RawMessage) (bool, bool) {
	if raw == nil {
		return false, false
	}
	var b bool
	if json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}
