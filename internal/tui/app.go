package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"worklog/internal/config"
	"worklog/internal/notify"
	"worklog/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Status message lifetimes. Errors linger a little longer.
const (
	statusTTL      = 5 * time.Second
	errorStatusTTL = 8 * time.Second
)

// Column widths for the project list.
const (
	nameColWidth  = 24
	groupColWidth = 14
)

// ============================================================================
// App
// ============================================================================

// Options configures the dashboard beyond its storage backend.
type Options struct {
	Keys          *config.KeysConfig
	Notifications config.NotificationConfig
	Notifier      notify.Notifier
}

// projectRow is one line of the dashboard: a project with its accumulated
// hours and, if a timer is running, the instant it started.
type projectRow struct {
	name    string
	group   string
	hours   float64
	running bool
	started time.Time
}

// App is the root Bubble Tea model: a project list with per-project timers,
// live elapsed times, and a text input for creating projects.
type App struct {
	store         *storage.Storage
	styles        *Styles
	notifier      notify.Notifier
	notifications config.NotificationConfig

	globalKeys GlobalKeyMap
	dashKeys   DashboardKeyMap
	inputKeys  InputKeyMap
	helpKeys   HelpKeyMap

	doc    *storage.Document
	rows   []projectRow
	cursor int

	// trackers holds one milestone tracker per running session, keyed by
	// project name, so each long-session milestone fires exactly once.
	trackers map[string]*notify.Tracker

	adding bool
	input  textinput.Model

	showHelp bool

	width  int
	height int

	statusMessage   string
	statusIsError   bool
	statusExpiresAt time.Time

	quitting bool
}

// NewApp creates the dashboard model. A nil notifier falls back to the
// platform notifier.
func NewApp(store *storage.Storage, styles *Styles, opts Options) *App {
	if styles == nil {
		styles = NewStylesFromTheme(&config.ThemeConfig{})
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.New()
	}

	input := textinput.New()
	input.Placeholder = "project name"
	input.CharLimit = 50

	return &App{
		store:         store,
		styles:        styles,
		notifier:      notifier,
		notifications: opts.Notifications,
		globalKeys:    NewGlobalKeyMap(opts.Keys),
		dashKeys:      NewDashboardKeyMap(opts.Keys),
		inputKeys:     NewInputKeyMap(opts.Keys),
		helpKeys:      DefaultHelpKeyMap(),
		trackers:      map[string]*notify.Tracker{},
		input:         input,
	}
}

// Init loads the document and starts the per-second refresh.
func (a *App) Init() tea.Cmd {
	return tea.Batch(loadDocumentCmd(a.store), tickCmd())
}

// SetStatus displays a message in the status bar. It expires after a few
// seconds; errors stay visible a little longer.
func (a *App) SetStatus(message string, isError bool) {
	a.statusMessage = message
	a.statusIsError = isError
	ttl := statusTTL
	if isError {
		ttl = errorStatusTTL
	}
	a.statusExpiresAt = a.store.Now().Add(ttl)
}

// ============================================================================
// Update
// ============================================================================

// Update routes messages: operation results first, then keys, resize, and
// ticks.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentLoadedMsg:
		if msg.err != nil {
			a.SetStatus(fmt.Sprintf("Load failed: %v", msg.err), true)
			return a, nil
		}
		a.doc = msg.doc
		a.rebuildRows()
		return a, nil

	case sessionStartedMsg:
		if msg.err != nil {
			a.SetStatus(fmt.Sprintf("Start failed: %v", msg.err), true)
			return a, nil
		}
		a.trackers[msg.project] = notify.NewTracker(a.notifications.SessionMilestones)
		a.SetStatus(fmt.Sprintf("Timer started for %s", msg.project), false)
		return a, loadDocumentCmd(a.store)

	case sessionStoppedMsg:
		delete(a.trackers, msg.project)
		if msg.err != nil {
			a.SetStatus(fmt.Sprintf("Stop failed: %v", msg.err), true)
			return a, nil
		}
		a.SetStatus(fmt.Sprintf("Logged %.2f h for %s", msg.hours, msg.project), false)
		cmds := []tea.Cmd{loadDocumentCmd(a.store)}
		if a.notifications.Enabled {
			body := fmt.Sprintf("Logged %.2f h for %s", msg.hours, msg.project)
			cmds = append(cmds, notifyCmd(a.notifier, a.notifications.Sound, "worklog", body))
		}
		return a, tea.Batch(cmds...)

	case projectAddedMsg:
		if msg.err != nil {
			a.SetStatus(fmt.Sprintf("Add failed: %v", msg.err), true)
			return a, nil
		}
		a.SetStatus(fmt.Sprintf("Added project %s", msg.name), false)
		return a, loadDocumentCmd(a.store)

	case tickMsg:
		a.clearExpiredStatus()
		cmds := append(a.milestoneCmds(), tickCmd())
		return a, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Remaining messages, like cursor blinks, belong to the text input.
	if a.adding {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		a.quitting = true
		return a, tea.Quit
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return a, nil
	}

	if a.adding {
		switch {
		case key.Matches(msg, a.inputKeys.Cancel):
			a.adding = false
			a.input.Reset()
			return a, nil
		case key.Matches(msg, a.inputKeys.Confirm):
			name := strings.TrimSpace(a.input.Value())
			a.adding = false
			a.input.Reset()
			if name == "" {
				return a, nil
			}
			return a, addProjectCmd(a.store, name)
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.globalKeys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.globalKeys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.dashKeys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, a.dashKeys.Down):
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, a.dashKeys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.dashKeys.Bottom):
		if len(a.rows) > 0 {
			a.cursor = len(a.rows) - 1
		}
		return a, nil

	case key.Matches(msg, a.dashKeys.Add):
		a.adding = true
		a.input.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.dashKeys.Toggle):
		if a.cursor >= len(a.rows) {
			return a, nil
		}
		row := a.rows[a.cursor]
		if row.running {
			return a, stopSessionCmd(a.store, row.name)
		}
		return a, startSessionCmd(a.store, row.name)
	}

	return a, nil
}

// rebuildRows derives the display rows from the loaded document, ordered by
// name case-insensitively like the web dashboard.
func (a *App) rebuildRows() {
	if a.doc == nil {
		a.rows = nil
		a.cursor = 0
		return
	}
	rows := make([]projectRow, 0, len(a.doc.Projects))
	for name, p := range a.doc.Projects {
		row := projectRow{
			name:  name,
			group: a.doc.ResolvedGroup(p),
			hours: storage.TimeLogHours(p) + storage.LegacyHours(p),
		}
		if p.CurrentSession != nil {
			row.running = true
			row.started = p.CurrentSession.StartTime
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].name) < strings.ToLower(rows[j].name)
	})
	a.rows = rows
	if a.cursor >= len(rows) {
		a.cursor = len(rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) clearExpiredStatus() {
	if a.statusMessage != "" && a.store.Now().After(a.statusExpiresAt) {
		a.statusMessage = ""
		a.statusIsError = false
	}
}

// milestoneCmds raises a notification for every session milestone newly
// crossed by a running timer.
func (a *App) milestoneCmds() []tea.Cmd {
	if !a.notifications.Enabled || len(a.notifications.SessionMilestones) == 0 {
		return nil
	}
	var cmds []tea.Cmd
	now := a.store.Now()
	for _, row := range a.rows {
		if !row.running {
			continue
		}
		tracker := a.trackers[row.name]
		if tracker == nil {
			// A session that was already running when the dashboard
			// attached does not re-announce milestones it crossed
			// before launch.
			tracker = notify.NewTracker(a.notifications.SessionMilestones)
			tracker.Crossed(now.Sub(row.started))
			a.trackers[row.name] = tracker
			continue
		}
		for _, m := range tracker.Crossed(now.Sub(row.started)) {
			body := fmt.Sprintf("%s has been running for %s", row.name, formatMinutes(m))
			cmds = append(cmds, notifyCmd(a.notifier, a.notifications.Sound, "worklog", body))
		}
	}
	return cmds
}

// ============================================================================
// View
// ============================================================================

// View renders the dashboard, or the help overlay when it is open.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.showHelp {
		return a.renderHelp()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n\n")
	b.WriteString(a.renderProjects())
	if a.adding {
		b.WriteString("\n\n")
		b.WriteString(a.styles.InputPromptStyle.Render("New project: ") + a.input.View())
	}
	b.WriteString("\n\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" worklog ")
	date := a.styles.DateStyle.Render(a.store.Today())
	total := a.styles.StatLabelStyle.Render("total ") +
		a.styles.StatValueStyle.Render(formatHours(a.totalHours()))
	return title + " " + date + "  " + total
}

func (a *App) renderProjects() string {
	if len(a.rows) == 0 {
		return a.styles.HelpStyle.Render("No projects yet. Press 'a' to add one.")
	}
	lines := make([]string, 0, len(a.rows))
	for i, row := range a.rows {
		lines = append(lines, a.renderRow(i, row))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRow(i int, row projectRow) string {
	cursor := "  "
	if i == a.cursor {
		cursor = a.styles.SelectedStyle.Render("›") + " "
	}

	indicator := a.styles.StoppedStyle.Render("·")
	if row.running {
		indicator = a.styles.RunningStyle.Render("▶")
	}

	nameStyle := a.styles.ProjectStyle
	if i == a.cursor {
		nameStyle = a.styles.SelectedStyle
	}
	name := nameStyle.Render(padColumn(row.name, nameColWidth))
	group := a.styles.GroupStyle.Render(padColumn(row.group, groupColWidth))
	hours := a.styles.StatValueStyle.Render(fmt.Sprintf("%8s", formatHours(row.hours)))

	line := cursor + indicator + " " + name + " " + group + " " + hours
	if row.running {
		elapsed := a.store.Now().Sub(row.started)
		line += "  " + a.styles.RunningStyle.Render(formatElapsed(elapsed))
	}
	return line
}

func (a *App) renderStatusBar() string {
	if a.statusMessage != "" {
		if a.statusIsError {
			return a.styles.ErrorStyle.Render(a.statusMessage)
		}
		return a.styles.StatusStyle.Render(a.statusMessage)
	}
	if a.adding {
		return a.styles.RenderHelp("enter", "confirm", "esc", "cancel")
	}
	return a.styles.RenderHelp(
		"space", "start/stop",
		"a", "add project",
		"j/k", "move",
		"?", "help",
		"q", "quit",
	)
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.TitleStyle.Render(" worklog keys "))
	b.WriteString("\n\n")
	entries := []struct{ keys, desc string }{
		{"space/enter", "start or stop the selected timer"},
		{"a", "add a project"},
		{"j/↓  k/↑", "move selection"},
		{"g  G", "jump to top, bottom"},
		{"?", "toggle this help"},
		{"q  ctrl+c", "quit"},
	}
	for _, e := range entries {
		b.WriteString("  " + a.styles.HelpKeyStyle.Render(padColumn(e.keys, 14)) +
			a.styles.HelpStyle.Render(e.desc) + "\n")
	}
	b.WriteString("\n" + a.styles.HelpStyle.Render("press any key to close"))
	return b.String()
}

func (a *App) totalHours() float64 {
	var total float64
	for _, row := range a.rows {
		total += row.hours
	}
	return total
}

// ============================================================================
// Formatting helpers
// ============================================================================

// padColumn pads or truncates s to exactly width runes.
func padColumn(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2fh", h)
}

// formatElapsed renders a duration as HH:MM:SS.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// formatMinutes renders a milestone length for notifications, like "45m",
// "2h", or "1h 30m".
func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// ============================================================================
// Entry Point
// ============================================================================

// Run starts the dashboard in the alternate screen and blocks until the user
// quits.
func Run(store *storage.Storage, styles *Styles, opts Options) error {
	app := NewApp(store, styles, opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
