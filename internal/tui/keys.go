// Package tui provides the terminal dashboard for worklog. This file defines
// the key bindings, built on the Bubble Tea key package so matching and help
// text share one definition.
package tui

import (
	"strings"

	"worklog/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys turns a user-configured binding string ("j,down") into key
// names. Empty input keeps the defaults. The word "space" stands in for the
// space key, which cannot be written literally in config files.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}

	var out []string
	for _, part := range strings.Split(customKeys, ",") {
		k := strings.TrimSpace(part)
		if k == "space" {
			k = " "
		}
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// bind builds one binding: custom comma-separated keys from config when set,
// the given defaults otherwise, plus fixed help text.
func bind(custom, helpKey, helpDesc string, defaults ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(parseKeys(custom, defaults...)...),
		key.WithHelp(helpKey, helpDesc),
	)
}

// orEmpty guards against a nil config so the constructors can dereference
// freely.
func orEmpty(cfg *config.KeysConfig) *config.KeysConfig {
	if cfg == nil {
		return &config.KeysConfig{}
	}
	return cfg
}

// GlobalKeyMap defines keys available throughout the dashboard.
type GlobalKeyMap struct {
	Quit key.Binding
	Help key.Binding
}

// DefaultGlobalKeyMap returns the global bindings with no overrides applied.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap builds the always-active bindings, honoring config
// overrides.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	cfg = orEmpty(cfg)
	return GlobalKeyMap{
		Quit: bind(cfg.Quit, "q", "quit", "q", "ctrl+c"),
		Help: bind(cfg.Help, "?", "help", "?"),
	}
}

// NavigationKeyMap defines keys for moving through the project list.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultNavigationKeyMap returns the stock navigation bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// NewNavigationKeyMap builds list-movement bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	cfg = orEmpty(cfg)
	return NavigationKeyMap{
		Up:     bind(cfg.Up, "k/↑", "up", "k", "up"),
		Down:   bind(cfg.Down, "j/↓", "down", "j", "down"),
		Top:    bind(cfg.Top, "g", "top", "g"),
		Bottom: bind(cfg.Bottom, "G", "bottom", "G"),
	}
}

// InputKeyMap covers the text-entry prompt.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the stock prompt bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap builds the prompt bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	cfg = orEmpty(cfg)
	return InputKeyMap{
		Confirm: bind(cfg.Confirm, "enter", "confirm", "enter"),
		Cancel:  bind(cfg.Cancel, "esc", "cancel", "esc"),
	}
}

// DashboardKeyMap defines keys for the project dashboard.
type DashboardKeyMap struct {
	Toggle key.Binding
	Add    key.Binding
	NavigationKeyMap
}

// DefaultDashboardKeyMap returns the stock dashboard bindings.
func DefaultDashboardKeyMap() DashboardKeyMap {
	return NewDashboardKeyMap(&config.KeysConfig{})
}

// NewDashboardKeyMap builds the dashboard bindings from config.
func NewDashboardKeyMap(cfg *config.KeysConfig) DashboardKeyMap {
	cfg = orEmpty(cfg)
	return DashboardKeyMap{
		Toggle:           bind(cfg.ToggleTimer, "space", "start/stop", " ", "enter"),
		Add:              bind(cfg.AddProject, "a", "add project", "a"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the dashboard (implements help.KeyMap).
func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Down}
}

// FullHelp returns the full help for the dashboard (implements help.KeyMap).
func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Add},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// HelpKeyMap holds the single binding that dismisses the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the help overlay bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: bind("", "any key", "close", "?", "esc", "q", "enter", " "),
	}
}
