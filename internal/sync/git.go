// Package sync mirrors the worklog data directory into a git repository.
// Saves are committed automatically (debounced) with messages derived from
// the operation that triggered them, and the repo can be pushed or pulled
// against a remote.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"worklog/internal/fsutil"
	"worklog/internal/storage"
)

// Config holds git sync settings. It mirrors the sync block of the app
// config; the command layer maps between the two.
type Config struct {
	Enabled       bool   `yaml:"enabled"`
	AutoCommit    bool   `yaml:"auto_commit"`
	AutoPush      bool   `yaml:"auto_push"`
	PullOnStartup bool   `yaml:"pull_on_startup"`
	CommitMessage string `yaml:"commit_message"` // "auto" or a fixed message
}

// DefaultConfig returns the sync settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		AutoCommit:    true,
		CommitMessage: "auto",
	}
}

// Status is a snapshot of the data repository's git state.
type Status struct {
	IsRepo       bool
	HasRemote    bool
	RemoteName   string
	RemoteURL    string
	Branch       string
	Ahead        int
	Behind       int
	HasChanges   bool
	LastCommitAt *time.Time
}

// GitSync runs git against the data directory and batches auto-commits.
type GitSync struct {
	dataDir string
	config  *Config

	// Pending auto-commit state, flushed after the debounce window.
	pendingFiles    map[string]bool
	pendingContexts []storage.SaveContext
	commitTimer     *time.Timer
	mu              gosync.Mutex

	// One git operation at a time; concurrent runs fight over the index lock.
	opMu gosync.Mutex

	debounceDuration time.Duration
}

// Command timeouts. Network operations get more room than local ones.
const (
	defaultGitTimeout  = 10 * time.Second
	commitGitTimeout   = 15 * time.Second
	pullPushGitTimeout = 60 * time.Second
)

// New creates a GitSync for the given data directory.
func New(dataDir string, cfg *Config) *GitSync {
	return &GitSync{
		dataDir:          dataDir,
		config:           cfg,
		pendingFiles:     make(map[string]bool),
		debounceDuration: 2 * time.Second,
	}
}

// IsGitInstalled reports whether a git binary is on the PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether the data directory is a git repository.
func (g *GitSync) IsRepo() bool {
	info, err := os.Stat(filepath.Join(g.dataDir, ".git"))
	return err == nil && info.IsDir()
}

// Init turns the data directory into a git repository with a .gitignore
// covering backups and recovery artifacts, and makes the initial commit.
// Re-running it on an existing repository is harmless.
func (g *GitSync) Init() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !IsGitInstalled() {
		return fmt.Errorf("git is not installed")
	}

	if _, err := g.runGitTimeout(commitGitTimeout, "init"); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}

	ignore := `# worklog data directory - local artifacts stay out of sync
backups/
*.bak
*.corrupt.*
`
	path := filepath.Join(g.dataDir, ".gitignore")
	if err := fsutil.WriteFileAtomic(path, []byte(ignore), 0600); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	_, err := g.stageThenCommit("Initialize worklog data repository", ".gitignore")
	return err
}

// Commit stages and commits the given files.
func (g *GitSync) Commit(files []string) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.commitLocked(files, nil)
}

// CommitAll stages and commits every change in the data directory.
func (g *GitSync) CommitAll() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return fmt.Errorf("not a git repository - run 'worklog sync --init' first")
	}
	_, err := g.stageThenCommit("Update work data", "-A")
	return err
}

// commitLocked stages and commits files under opMu, deriving the message
// from the save contexts, and pushes afterwards when configured to.
func (g *GitSync) commitLocked(files []string, contexts []storage.SaveContext) error {
	if !g.IsRepo() {
		return fmt.Errorf("not a git repository - run 'worklog sync --init' first")
	}
	if len(files) == 0 {
		return nil
	}

	committed, err := g.stageThenCommit(g.generateCommitMessage(files, contexts), files...)
	if err != nil {
		return err
	}
	if committed && g.config.AutoPush {
		if err := g.pushLocked(); err != nil {
			return fmt.Errorf("committed locally, but push failed: %w", err)
		}
	}
	return nil
}

// stageThenCommit stages the given paths ("-A" stages everything) and
// commits them with message. Nothing ending up staged is not an error; the
// returned bool reports whether a commit was actually created.
func (g *GitSync) stageThenCommit(message string, paths ...string) (bool, error) {
	if _, err := g.runGitTimeout(defaultGitTimeout, append([]string{"add"}, paths...)...); err != nil {
		return false, fmt.Errorf("failed to stage files: %w", err)
	}

	staged, err := g.runGitTimeout(defaultGitTimeout, "diff", "--cached", "--name-only")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	if trimOutput(staged) == "" {
		return false, nil
	}

	if _, err := g.runGitTimeout(commitGitTimeout, "-c", "commit.gpgsign=false", "commit", "-m", message); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return true, nil
}

// Status returns the current git status of the data directory.
func (g *GitSync) Status() (*Status, error) {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	st := &Status{IsRepo: g.IsRepo()}
	if !st.IsRepo {
		return st, nil
	}

	st.Branch = g.gitValue("rev-parse", "--abbrev-ref", "HEAD")
	st.HasChanges = g.gitValue("status", "--porcelain") != ""

	// First remote line looks like "origin\tgit@host:repo\t(fetch)".
	if remotes := g.gitValue("remote", "-v"); remotes != "" {
		st.HasRemote = true
		fields := strings.Fields(strings.SplitN(remotes, "\n", 2)[0])
		if len(fields) >= 2 {
			st.RemoteName, st.RemoteURL = fields[0], fields[1]
		}
	}

	if st.HasRemote && st.Branch != "" {
		upstream := st.RemoteName + "/" + st.Branch
		counts := g.gitValue("rev-list", "--left-right", "--count", st.Branch+"..."+upstream)
		fmt.Sscanf(counts, "%d\t%d", &st.Ahead, &st.Behind)
	}

	if ts := g.gitValue("log", "-1", "--format=%ci"); ts != "" {
		if at, err := time.Parse("2006-01-02 15:04:05 -0700", ts); err == nil {
			st.LastCommitAt = &at
		}
	}

	return st, nil
}

// gitValue runs a git query and returns its trimmed output, or "" when the
// command fails. Status assembly treats failed queries as absent values.
func (g *GitSync) gitValue(args ...string) string {
	out, err := g.runGitTimeout(defaultGitTimeout, args...)
	if err != nil {
		return ""
	}
	return trimOutput(out)
}

// Pull rebases local history onto the remote.
func (g *GitSync) Pull() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return fmt.Errorf("not a git repository")
	}
	if err := g.ensureRemote(); err != nil {
		return err
	}

	if _, err := g.runGitTimeout(pullPushGitTimeout, "pull", "--rebase"); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	return nil
}

// Push sends local commits to the remote.
func (g *GitSync) Push() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.pushLocked()
}

func (g *GitSync) pushLocked() error {
	if !g.IsRepo() {
		return fmt.Errorf("not a git repository")
	}
	if err := g.ensureRemote(); err != nil {
		return err
	}

	if _, err := g.runGitTimeout(pullPushGitTimeout, "push"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

func (g *GitSync) ensureRemote() error {
	if g.gitValue("remote") == "" {
		return fmt.Errorf("no remote configured - add one with 'worklog sync --remote <url>'")
	}
	return nil
}

// AddRemote adds a git remote, or repoints it when the name already exists.
func (g *GitSync) AddRemote(name, url string) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return fmt.Errorf("not a git repository - run 'worklog sync --init' first")
	}
	if name == "" {
		return fmt.Errorf("remote name is required")
	}
	if url == "" {
		return fmt.Errorf("remote URL is required")
	}

	verb := "add"
	for _, existing := range strings.Fields(g.gitValue("remote")) {
		if existing == name {
			verb = "set-url"
			break
		}
	}
	if _, err := g.runGitTimeout(defaultGitTimeout, "remote", verb, name, url); err != nil {
		return fmt.Errorf("failed to %s remote: %w", verb, err)
	}
	return nil
}

// ============================================================================
// Auto-Commit
// ============================================================================

func (g *GitSync) autoCommitReady() bool {
	return g.config.Enabled && g.config.AutoCommit && g.IsRepo()
}

// OnFileSaved queues a saved file for the next debounced auto-commit. It is
// wired to the storage file-save hook.
func (g *GitSync) OnFileSaved(filename string) {
	if !g.autoCommitReady() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingFiles[filename] = true
	g.resetTimerLocked()
}

// OnSavedWithContext queues a mutation for the next debounced auto-commit,
// carrying the semantic context that becomes the commit message.
func (g *GitSync) OnSavedWithContext(ctx storage.SaveContext) {
	if !g.autoCommitReady() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingFiles[storage.DataFileName] = true
	g.pendingContexts = append(g.pendingContexts, ctx)
	g.resetTimerLocked()
}

// resetTimerLocked restarts the debounce window. Callers hold g.mu.
func (g *GitSync) resetTimerLocked() {
	if g.commitTimer != nil {
		g.commitTimer.Stop()
	}
	g.commitTimer = time.AfterFunc(g.debounceDuration, g.flushCommit)
}

// Flush commits pending files immediately instead of waiting out the
// debounce window. Called on shutdown.
func (g *GitSync) Flush() {
	g.mu.Lock()
	if g.commitTimer != nil {
		g.commitTimer.Stop()
		g.commitTimer = nil
	}
	g.mu.Unlock()

	g.flushCommit()
}

func (g *GitSync) flushCommit() {
	g.mu.Lock()
	files := make([]string, 0, len(g.pendingFiles))
	for f := range g.pendingFiles {
		files = append(files, f)
	}
	contexts := g.pendingContexts
	g.pendingFiles = make(map[string]bool)
	g.pendingContexts = nil
	g.mu.Unlock()

	if len(files) > 0 {
		// Auto-commit failures are swallowed; the data itself is already
		// safely written.
		g.opMu.Lock()
		_ = g.commitLocked(files, contexts)
		g.opMu.Unlock()
	}
}

// ============================================================================
// Commit Messages
// ============================================================================

// generateCommitMessage builds the commit message. A custom configured
// message wins; otherwise the save contexts produce a semantic one, falling
// back to a file-based summary when no context is available.
func (g *GitSync) generateCommitMessage(files []string, contexts []storage.SaveContext) string {
	if g.config.CommitMessage != "" && g.config.CommitMessage != "auto" {
		return g.config.CommitMessage
	}

	switch len(contexts) {
	case 0:
		if len(files) == 1 {
			if files[0] == storage.DataFileName {
				return "Update work data"
			}
			return fmt.Sprintf("Update %s", files[0])
		}
		return fmt.Sprintf("Update %d files", len(files))
	case 1:
		return formatSemanticMessage(contexts[0])
	}

	firstOp := contexts[0].Operation
	for _, ctx := range contexts[1:] {
		if ctx.Operation != firstOp {
			return fmt.Sprintf("Update work data: %d changes", len(contexts))
		}
	}
	return fmt.Sprintf("%s (x%d)", capitalizeFirst(firstOp), len(contexts))
}

// formatSemanticMessage turns one save context into a one-line message,
// e.g. "Stop session: acme (2025-06-16)" or "Add group: Clients".
func formatSemanticMessage(ctx storage.SaveContext) string {
	target, detail := ctx.Project, ctx.Detail
	if target == "" {
		target, detail = detail, ""
	}

	msg := capitalizeFirst(ctx.Operation)
	if target != "" {
		msg += ": " + target
	}
	if detail != "" {
		msg += " (" + detail + ")"
	}
	return msg
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ============================================================================
// Running Git
// ============================================================================

// runGit executes a git command in the data directory.
func (g *GitSync) runGit(args ...string) (string, error) {
	return g.runGitTimeout(defaultGitTimeout, args...)
}

func (g *GitSync) runGitTimeout(timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dataDir
	// Never let git block on credential or host-key prompts. Duplicate env
	// keys are resolved last-wins by os/exec, so appending overrides works.
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_ASKPASS=",
		"SSH_ASKPASS=",
	)
	cmd.Stdin = strings.NewReader("")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("git %s timed out after %s", strings.Join(args, " "), timeout)
	}
	msg := trimOutput(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return "", fmt.Errorf("%s", msg)
}

func trimOutput(s string) string {
	return strings.TrimSpace(s)
}
