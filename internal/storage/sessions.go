package storage

import "strings"

// StartSession opens a work session on a project. Only one session may run
// per project at a time; other projects are unaffected.
func (s *Storage) StartSession(project string) (*OpenSession, error) {
	project = strings.TrimSpace(project)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return nil, NotFoundf("project not found: %s", project)
	}
	if p.CurrentSession != nil {
		return nil, Conflictf("a session is already running for %s", project)
	}

	now := s.Now()
	p.CurrentSession = &OpenSession{
		StartTime: now,
		Date:      s.cal.DateOf(now),
	}

	if err := s.saveWith(doc, SaveContext{Operation: "start session", Project: project}); err != nil {
		return nil, err
	}
	started := *p.CurrentSession
	return &started, nil
}

// StopSession closes the running session and turns it into a time entry
// dated to the day the session started. The clock can drift backwards
// across a stop (machine suspend, manual adjustment), so the duration is
// clamped at zero. Returns the logged hours alongside the entry.
func (s *Storage) StopSession(project string) (float64, TimeLog, error) {
	project = strings.TrimSpace(project)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return 0, TimeLog{}, NotFoundf("project not found: %s", project)
	}
	sess := p.CurrentSession
	if sess == nil {
		return 0, TimeLog{}, NotFoundf("no session running for %s", project)
	}

	now := s.Now()
	hours := now.Sub(sess.StartTime).Hours()
	if hours < 0 {
		hours = 0
	}
	entry := TimeLog{
		Date:      sess.Date,
		StartTime: sess.StartTime.Format("15:04:05"),
		EndTime:   now.Format("15:04:05"),
		Duration:  round2(hours),
	}
	p.TimeLogs = append(p.TimeLogs, entry)
	p.CurrentSession = nil

	err := s.saveWith(doc, SaveContext{
		Operation: "stop session",
		Project:   project,
		Detail:    entry.Date,
	})
	return entry.Duration, entry, err
}

// CurrentSession reports the running session for a project, or nil when
// none is open.
func (s *Storage) CurrentSession(project string) (*OpenSession, error) {
	project = strings.TrimSpace(project)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return nil, NotFoundf("project not found: %s", project)
	}
	if p.CurrentSession == nil {
		return nil, nil
	}
	sess := *p.CurrentSession
	return &sess, nil
}

// LastTimeLog returns the most recent time entry for a project, ordered by
// date and then start time. The second return is false when the project has
// no timed entries yet.
func (s *Storage) LastTimeLog(project string) (TimeLog, bool, error) {
	project = strings.TrimSpace(project)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return TimeLog{}, false, NotFoundf("project not found: %s", project)
	}
	if len(p.TimeLogs) == 0 {
		return TimeLog{}, false, nil
	}

	latest := p.TimeLogs[0]
	for _, tl := range p.TimeLogs[1:] {
		if tl.Date > latest.Date || (tl.Date == latest.Date && tl.StartTime > latest.StartTime) {
			latest = tl
		}
	}
	return latest, true, nil
}
