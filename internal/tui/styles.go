package tui

import (
	"worklog/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the dashboard styles, initialized from theme configuration.
type Styles struct {
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	TitleStyle lipgloss.Style
	DateStyle  lipgloss.Style

	ProjectStyle  lipgloss.Style
	SelectedStyle lipgloss.Style
	GroupStyle    lipgloss.Style
	TagStyle      lipgloss.Style

	RunningStyle lipgloss.Style
	StoppedStyle lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
}

// NewStyles creates a Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a Styles instance from a ThemeConfig. Empty
// theme colors fall back to the built-in palette.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{
		ColorPrimary:   themeColor(theme.Primary, "#2563EB"),
		ColorAccent:    themeColor(theme.Accent, "#F59E0B"),
		ColorMuted:     themeColor(theme.Muted, "#6B7280"),
		ColorDanger:    lipgloss.Color("#EF4444"),
		ColorSuccess:   lipgloss.Color("#10B981"),
		ColorBg:        themeColor(theme.Background, "#1F2937"),
		ColorBgLight:   lipgloss.Color("#374151"),
		ColorText:      themeColor(theme.Text, "#F9FAFB"),
		ColorTextMuted: lipgloss.Color("#9CA3AF"),
	}

	muted := lipgloss.NewStyle().Foreground(s.ColorTextMuted)
	strong := lipgloss.NewStyle().Foreground(s.ColorText).Bold(true)
	accent := lipgloss.NewStyle().Foreground(s.ColorAccent)

	s.TitleStyle = strong.Background(s.ColorPrimary).Padding(0, 1)
	s.DateStyle = muted

	s.ProjectStyle = lipgloss.NewStyle().Foreground(s.ColorText)
	s.SelectedStyle = strong.Background(s.ColorBgLight)
	s.GroupStyle = muted
	s.TagStyle = accent

	s.RunningStyle = lipgloss.NewStyle().Foreground(s.ColorSuccess).Bold(true)
	s.StoppedStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)

	s.StatLabelStyle = muted
	s.StatValueStyle = strong

	s.HelpStyle = muted
	s.HelpKeyStyle = accent.Bold(true)

	s.StatusStyle = lipgloss.NewStyle().Foreground(s.ColorSuccess).Italic(true)
	s.ErrorStyle = lipgloss.NewStyle().Foreground(s.ColorDanger).Bold(true)
	s.InputPromptStyle = lipgloss.NewStyle().Foreground(s.ColorPrimary).Bold(true)

	return s
}

// themeColor returns the configured color, or the fallback when the theme
// leaves it empty.
func themeColor(hex, fallback string) lipgloss.Color {
	if hex == "" {
		hex = fallback
	}
	return lipgloss.Color(hex)
}

// RenderHelp renders alternating key/description pairs for the help bar.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
