package storage

import (
	"strconv"
	"strings"
)

// NextTaskID returns the next task id for the document. Ids are decimal
// strings, unique across all projects. The counter is one past the highest
// numeric id in use, never lower than 1. Non-numeric ids are skipped.
func NextTaskID(doc *Document) string {
	max := 0
	for _, p := range doc.Projects {
		for _, t := range p.Tasks {
			if n, err := strconv.Atoi(t.ID); err == nil && n > max {
				max = n
			}
		}
	}
	return strconv.Itoa(max + 1)
}

// AddTask adds a task to a project. A blank date means today.
func (s *Storage) AddTask(project, title, date string) (Task, error) {
	project = strings.TrimSpace(project)
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, Validationf("task title cannot be empty")
	}
	if len(title) > maxTitleLen {
		return Task{}, Validationf("task title exceeds %d characters", maxTitleLen)
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = s.today()
	} else if err := s.cal.Validate(date); err != nil {
		return Task{}, Validationf("invalid date %q: %v", date, err)
	}

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return Task{}, NotFoundf("project not found: %s", project)
	}

	task := Task{
		ID:    NextTaskID(doc),
		Title: title,
		Date:  date,
	}
	p.Tasks = append(p.Tasks, task)

	err := s.saveWith(doc, SaveContext{
		Operation: "add task",
		Project:   project,
		Detail:    truncateForContext(title, 40),
	})
	return task, err
}

// SetTaskCompleted marks a task done or not done. Setting the state it
// already has still persists, which keeps the operation idempotent.
func (s *Storage) SetTaskCompleted(project, id string, completed bool) error {
	project = strings.TrimSpace(project)
	id = strings.TrimSpace(id)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}

	for i := range p.Tasks {
		if p.Tasks[i].ID != id {
			continue
		}
		p.Tasks[i].Completed = completed
		op := "reopen task"
		if completed {
			op = "complete task"
		}
		return s.saveWith(doc, SaveContext{Operation: op, Project: project, Detail: id})
	}
	return NotFoundf("task not found: %s", id)
}

// DeleteTask removes a task. A project emptied by the removal is pruned.
func (s *Storage) DeleteTask(project, id string) error {
	project = strings.TrimSpace(project)
	id = strings.TrimSpace(id)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}

	kept := p.Tasks[:0]
	for _, t := range p.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(p.Tasks) {
		return NotFoundf("task not found: %s", id)
	}
	p.Tasks = kept
	if len(p.Tasks) == 0 {
		p.Tasks = nil
	}
	pruneIfEmpty(doc, project)

	return s.saveWith(doc, SaveContext{Operation: "delete task", Project: project, Detail: id})
}
