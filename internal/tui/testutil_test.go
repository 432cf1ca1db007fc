package tui

import (
	"testing"
	"time"

	"worklog/internal/config"
	"worklog/internal/dates"
	"worklog/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest disables colors so rendered output is plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

func testNow() time.Time {
	return time.Date(2025, 6, 16, 9, 0, 0, 0, time.Local)
}

// createTestStorage creates a Storage with a pinned clock in a temporary
// directory. Tests move the clock with store.SetNowFunc.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	cal := dates.NewGregorian()
	cal.SetNowFunc(testNow)
	store, err := storage.New(t.TempDir(), cal)
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	store.SetNowFunc(testNow)
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// createTestApp builds a dashboard on a fresh pinned-clock storage.
func createTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	setupTest(t)
	return NewApp(createTestStorage(t), createTestStyles(), opts)
}

// fakeNotifier records notifications instead of sending them.
type fakeNotifier struct {
	messages []string
	sounds   int
}

func (f *fakeNotifier) Send(title, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeNotifier) SendWithSound(title, message string) error {
	f.sounds++
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeNotifier) IsSupported() bool { return true }

// loadApp runs the document load and feeds the result into the app.
func loadApp(t *testing.T, a *App) *App {
	t.Helper()
	return drive(t, a, loadDocumentCmd(a.store))
}

// drive executes a command and delivers its messages back into the app,
// expanding batches and following chains of storage operation results. Tick
// and blink scheduling end the chain; tests send tickMsg values directly.
func drive(t *testing.T, a *App, cmd tea.Cmd) *App {
	t.Helper()
	if cmd == nil {
		return a
	}
	return deliver(t, a, cmd())
}

func deliver(t *testing.T, a *App, msg tea.Msg) *App {
	t.Helper()
	if msg == nil {
		return a
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			a = drive(t, a, c)
		}
		return a
	}
	switch msg.(type) {
	case documentLoadedMsg, sessionStartedMsg, sessionStoppedMsg, projectAddedMsg:
		model, next := a.Update(msg)
		return drive(t, model.(*App), next)
	}
	return a
}

// pressKey sends one key press and follows the resulting command chain.
func pressKey(t *testing.T, a *App, msg tea.KeyMsg) *App {
	t.Helper()
	model, cmd := a.Update(msg)
	return drive(t, model.(*App), cmd)
}

// typeText feeds text into the focused input rune by rune.
func typeText(t *testing.T, a *App, text string) *App {
	t.Helper()
	for _, r := range text {
		a = pressKey(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return a
}

func keySpace() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")} }
func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }
func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
