package tui

import (
	"time"

	"worklog/internal/notify"
	"worklog/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// ============================================================================
// Commands
// ============================================================================
// Commands run storage operations off the update loop and deliver their
// results as messages.

// loadDocumentCmd reads the work document from disk.
func loadDocumentCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		doc, err := store.Load()
		return documentLoadedMsg{doc: doc, err: err}
	}
}

// startSessionCmd starts a timer for the given project.
func startSessionCmd(store *storage.Storage, project string) tea.Cmd {
	return func() tea.Msg {
		_, err := store.StartSession(project)
		return sessionStartedMsg{project: project, err: err}
	}
}

// stopSessionCmd stops the running timer for the given project and logs
// the elapsed time.
func stopSessionCmd(store *storage.Storage, project string) tea.Cmd {
	return func() tea.Msg {
		hours, _, err := store.StopSession(project)
		return sessionStoppedMsg{project: project, hours: hours, err: err}
	}
}

// addProjectCmd creates a new project in the default group.
func addProjectCmd(store *storage.Storage, name string) tea.Cmd {
	return func() tea.Msg {
		err := store.AddProject(name, "", nil)
		return projectAddedMsg{name: name, err: err}
	}
}

// tickCmd schedules the next once-per-second refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// notifyCmd sends a desktop notification. Failures are ignored; a missed
// notification is not worth interrupting the dashboard for.
func notifyCmd(n notify.Notifier, sound bool, title, message string) tea.Cmd {
	return func() tea.Msg {
		if sound {
			_ = n.SendWithSound(title, message)
		} else {
			_ = n.Send(title, message)
		}
		return nil
	}
}
