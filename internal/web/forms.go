package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"worklog/internal/storage"
)

// Form handlers. Each parses its fields, calls one storage operation, and
// redirects back to the dashboard with a flash banner either way. Validation
// itself lives in storage; the handlers only shuttle strings.

func (s *Server) handleProjectAdd(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	group := strings.TrimSpace(r.FormValue("group"))
	tags := splitTags(r.FormValue("tags"))

	if err := s.store.AddProject(name, group, tags); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Added project %s", name)
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))

	if err := s.store.DeleteProject(name); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Deleted project %s", name)
}

func (s *Server) handleProjectMove(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	group := strings.TrimSpace(r.FormValue("group"))

	if err := s.store.MoveProject(name, group); err != nil {
		flashErr(w, r, err)
		return
	}
	if group == "" {
		group = storage.DefaultGroup
	}
	flashOK(w, r, "Moved %s to %s", name, group)
}

func (s *Server) handleTagAdd(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	tag := strings.TrimSpace(r.FormValue("tag"))

	if err := s.store.AddTag(project, tag); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Tagged %s with %s", project, tag)
}

func (s *Server) handleTagRemove(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	tag := strings.TrimSpace(r.FormValue("tag"))

	if err := s.store.RemoveTag(project, tag); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Removed tag %s from %s", tag, project)
}

func (s *Server) handleGroupAdd(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))

	if err := s.store.AddGroup(name); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Added group %s", name)
}

func (s *Server) handleGroupRename(w http.ResponseWriter, r *http.Request) {
	oldName := strings.TrimSpace(r.FormValue("old"))
	newName := strings.TrimSpace(r.FormValue("new"))

	if err := s.store.RenameGroup(oldName, newName); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Renamed group %s to %s", oldName, newName)
}

func (s *Server) handleGroupDelete(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))

	if err := s.store.DeleteGroup(name); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Deleted group %s", name)
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))

	if _, err := s.store.StartSession(project); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Timer started for %s", project)
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))

	hours, _, err := s.store.StopSession(project)
	if err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Logged %.2f h for %s", hours, project)
}

func (s *Server) handleTimeLogAdd(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	date := r.FormValue("date")
	start := r.FormValue("start")
	end := r.FormValue("end")

	entry, err := s.store.AddTimeLog(project, date, start, end)
	if err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Logged %.2f h for %s on %s", entry.Duration, project, entry.Date)
}

func (s *Server) handleTimeLogDelete(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	rawIndex := strings.TrimSpace(r.FormValue("index"))

	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		flashErr(w, r, fmt.Errorf("invalid log index %q", rawIndex))
		return
	}
	if err := s.store.DeleteTimeLog(project, index); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Log deleted")
}

func (s *Server) handleWorkLogAdd(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	date := r.FormValue("date")
	hours := r.FormValue("hours")
	description := strings.TrimSpace(r.FormValue("description"))

	if err := s.store.LogWork(project, date, hours, description); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Logged %s h for %s", strings.TrimSpace(hours), project)
}

func (s *Server) handleWorkLogDelete(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	date := strings.TrimSpace(r.FormValue("date"))

	if err := s.store.DeleteWorkLog(project, date); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Log deleted")
}

func (s *Server) handleGoalSet(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	goal := r.FormValue("goal")
	workdays := r.FormValue("workdays")
	deadline := r.FormValue("deadline")

	if err := s.store.SetGoal(project, goal, workdays, deadline); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Goal updated for %s", project)
}

func (s *Server) handleTaskAdd(w http.ResponseWriter, r *http.Request) {
	project := strings.TrimSpace(r.FormValue("project"))
	title := r.FormValue("title")
	date := r.FormValue("date")

	task, err := s.store.AddTask(project, title, date)
	if err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Added task %q for %s", task.Title, project)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	project := strings.TrimSpace(r.FormValue("project"))
	// A checked box posts completed=on; an unchecked one posts nothing.
	completed := r.FormValue("completed") != ""

	if err := s.store.SetTaskCompleted(project, id, completed); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Task updated")
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	project := strings.TrimSpace(r.FormValue("project"))

	if err := s.store.DeleteTask(project, id); err != nil {
		flashErr(w, r, err)
		return
	}
	flashOK(w, r, "Task deleted")
}

// splitTags turns a comma-separated input into individual tags. Blank
// pieces are dropped by AddProject itself.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
