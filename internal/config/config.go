// Package config reads and writes the worklog settings file, an optional
// YAML document at ~/.config/worklog/config.yaml (XDG paths respected).
// Absent keys keep their defaults; an absent file means all defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"worklog/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config is the full settings surface of the application.
type Config struct {
	// DataDir overrides where the work document lives (default ~/.worklog)
	DataDir string `yaml:"data_dir,omitempty"`

	// Listen is the web dashboard bind address
	Listen string `yaml:"listen,omitempty"`

	// Calendar picks the date system, "persian" or "gregorian"
	Calendar string `yaml:"calendar,omitempty"`

	// Theme recolors the terminal dashboard
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys rebinds terminal dashboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// Sync drives the git mirroring of the data directory
	Sync SyncConfig `yaml:"sync,omitempty"`

	// Notifications drives desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Backup sets backup retention
	Backup BackupConfig `yaml:"backup,omitempty"`
}

// NotificationConfig holds the desktop notification settings.
type NotificationConfig struct {
	// Enabled turns notifications on
	Enabled bool `yaml:"enabled,omitempty"`

	// SessionMilestones lists running-timer durations, in minutes, worth a ping
	SessionMilestones []int `yaml:"session_milestones,omitempty"`

	// Sound plays the platform notification sound
	Sound bool `yaml:"sound,omitempty"`
}

// SyncConfig holds the git sync settings.
type SyncConfig struct {
	// Enabled turns git sync on
	Enabled bool `yaml:"enabled,omitempty"`

	// AutoCommit commits the data file after every save
	AutoCommit bool `yaml:"auto_commit,omitempty"`

	// AutoPush pushes after each auto-commit
	AutoPush bool `yaml:"auto_push,omitempty"`

	// PullOnStartup pulls the remote before the app touches the data
	PullOnStartup bool `yaml:"pull_on_startup,omitempty"`

	// CommitMessage fixes the commit message; "auto" derives one per save
	CommitMessage string `yaml:"commit_message,omitempty"`
}

// BackupConfig holds backup retention.
type BackupConfig struct {
	// Keep is how many recent backups pruning retains; 0 keeps everything
	Keep int `yaml:"keep,omitempty"`
}

// ThemeConfig holds the dashboard colors, as hex strings like "#2563EB".
// Empty values fall through to the terminal defaults.
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty"`
	Accent     string `yaml:"accent,omitempty"`
	Muted      string `yaml:"muted,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// KeysConfig rebinds dashboard shortcuts. Every field takes a comma-separated
// key list like "j,down"; an empty field keeps the built-in binding, noted
// beside each key.
type KeysConfig struct {
	Quit string `yaml:"quit,omitempty"` // built-in: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // built-in: "?"

	Up     string `yaml:"up,omitempty"`     // built-in: "k,up"
	Down   string `yaml:"down,omitempty"`   // built-in: "j,down"
	Top    string `yaml:"top,omitempty"`    // built-in: "g"
	Bottom string `yaml:"bottom,omitempty"` // built-in: "G"

	ToggleTimer string `yaml:"toggle_timer,omitempty"` // built-in: "space,enter"
	AddProject  string `yaml:"add_project,omitempty"`  // built-in: "a"

	Confirm string `yaml:"confirm,omitempty"` // built-in: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // built-in: "esc"
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		Listen:   "127.0.0.1:8484",
		Calendar: "persian",
		Theme: ThemeConfig{
			Primary: "#2563EB",
			Accent:  "#F59E0B",
			Muted:   "#6B7280",
		},
		Sync: SyncConfig{
			AutoCommit:    true,
			CommitMessage: "auto",
		},
		Backup: BackupConfig{
			Keep: 10,
		},
	}
}

// ============================================================================
// Load and Save
// ============================================================================

// Load builds the effective configuration: defaults overlaid with whatever
// the config file sets. A missing file yields plain defaults; an unreadable
// or invalid file is an error.
func Load() (*Config, error) {
	cfg := Default()

	path := configPath()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	// The decoded struct cannot distinguish "key absent" from "key set to
	// its zero value", so the raw node tree answers presence questions for
	// booleans, ints and slices.
	var tree yaml.Node
	_ = yaml.Unmarshal(data, &tree)

	cfg.mergeNonEmpty(&fileCfg)
	cfg.mergePresent(&fileCfg, &tree)
	return cfg, nil
}

// Save writes the configuration file, creating its directory when needed.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir resolves the data directory, expanding a leading tilde.
func (c *Config) GetDataDir() string {
	dir := c.DataDir
	if dir == "" {
		return defaultDataDir()
	}
	if dir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return dir
	}
	if strings.HasPrefix(dir, "~/") || strings.HasPrefix(dir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			rest := strings.TrimLeft(dir[1:], `/\`)
			return filepath.Join(home, rest)
		}
	}
	return dir
}

// ============================================================================
// Merging
// ============================================================================

// setIfNonEmpty is the string merge rule: a set value wins, empty keeps the
// default.
func setIfNonEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeNonEmpty overlays every non-empty string from o. Booleans, ints and
// slices are presence-merged separately; an empty string can never be an
// intentional override here because all string keys have non-empty meaning.
func (c *Config) mergeNonEmpty(o *Config) {
	setIfNonEmpty(&c.DataDir, o.DataDir)
	setIfNonEmpty(&c.Listen, o.Listen)
	setIfNonEmpty(&c.Calendar, o.Calendar)

	setIfNonEmpty(&c.Theme.Primary, o.Theme.Primary)
	setIfNonEmpty(&c.Theme.Accent, o.Theme.Accent)
	setIfNonEmpty(&c.Theme.Muted, o.Theme.Muted)
	setIfNonEmpty(&c.Theme.Background, o.Theme.Background)
	setIfNonEmpty(&c.Theme.Text, o.Theme.Text)

	setIfNonEmpty(&c.Keys.Quit, o.Keys.Quit)
	setIfNonEmpty(&c.Keys.Help, o.Keys.Help)
	setIfNonEmpty(&c.Keys.Up, o.Keys.Up)
	setIfNonEmpty(&c.Keys.Down, o.Keys.Down)
	setIfNonEmpty(&c.Keys.Top, o.Keys.Top)
	setIfNonEmpty(&c.Keys.Bottom, o.Keys.Bottom)
	setIfNonEmpty(&c.Keys.ToggleTimer, o.Keys.ToggleTimer)
	setIfNonEmpty(&c.Keys.AddProject, o.Keys.AddProject)
	setIfNonEmpty(&c.Keys.Confirm, o.Keys.Confirm)
	setIfNonEmpty(&c.Keys.Cancel, o.Keys.Cancel)

	setIfNonEmpty(&c.Sync.CommitMessage, o.Sync.CommitMessage)
}

// mergePresent overlays the zero-ambiguous fields, but only those whose keys
// the file actually contains, so `auto_commit: false` and `keep: 0` survive
// while omitted keys keep their defaults.
func (c *Config) mergePresent(o *Config, tree *yaml.Node) {
	root := documentRoot(tree)
	if root == nil {
		// Could not inspect the raw document. Apply only overrides that
		// are unambiguous without presence information.
		if len(o.Notifications.SessionMilestones) > 0 {
			c.Notifications.SessionMilestones = o.Notifications.SessionMilestones
		}
		if o.Backup.Keep > 0 {
			c.Backup.Keep = o.Backup.Keep
		}
		return
	}

	if sync := childNode(root, "sync"); sync != nil {
		if childNode(sync, "enabled") != nil {
			c.Sync.Enabled = o.Sync.Enabled
		}
		if childNode(sync, "auto_commit") != nil {
			c.Sync.AutoCommit = o.Sync.AutoCommit
		}
		if childNode(sync, "auto_push") != nil {
			c.Sync.AutoPush = o.Sync.AutoPush
		}
		if childNode(sync, "pull_on_startup") != nil {
			c.Sync.PullOnStartup = o.Sync.PullOnStartup
		}
		if childNode(sync, "commit_message") != nil {
			c.Sync.CommitMessage = o.Sync.CommitMessage
		}
	}

	if notif := childNode(root, "notifications"); notif != nil {
		if childNode(notif, "enabled") != nil {
			c.Notifications.Enabled = o.Notifications.Enabled
		}
		if childNode(notif, "sound") != nil {
			c.Notifications.Sound = o.Notifications.Sound
		}
		if childNode(notif, "session_milestones") != nil {
			c.Notifications.SessionMilestones = o.Notifications.SessionMilestones
		}
	}

	if backup := childNode(root, "backup"); backup != nil {
		if childNode(backup, "keep") != nil {
			c.Backup.Keep = o.Backup.Keep
		}
	}
}

// documentRoot unwraps a parsed document to its top-level mapping, or nil.
func documentRoot(tree *yaml.Node) *yaml.Node {
	if tree == nil {
		return nil
	}
	n := tree
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

// childNode finds the value node for a key within a mapping, or nil.
// Mapping content alternates key and value nodes.
func childNode(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if k := mapping.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// ============================================================================
// Paths
// ============================================================================

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".worklog"
	}
	return filepath.Join(home, ".worklog")
}

// configDir honors XDG_CONFIG_HOME and falls back to ~/.config/worklog.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "worklog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "worklog")
}

func configPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
