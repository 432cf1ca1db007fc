package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"worklog/internal/config"
	"worklog/internal/sync"
)

const syncHelpText = `worklog sync - Git synchronization for your data

USAGE:
    worklog sync [OPTIONS]

OPTIONS:
    --setup        Interactive first-time setup
    --init         Turn the data directory into a git repository
    --status       Show repository and remote state
    --pull         Pull the latest changes from the remote
    --push         Push local commits to the remote
    --remote URL   Set the origin remote
    -h, --help     Show this help

DESCRIPTION:
    Manages git synchronization for the work document. The data directory
    becomes a git repository; changes can be committed automatically with
    messages describing the operation that caused them, and optionally
    pushed to a remote for backup and sync across machines.

SETUP:
    1. Initialize the repository:
       worklog sync --init

    2. Add a remote:
       worklog sync --remote git@github.com:user/worklog-data.git

    3. Enable sync in config (~/.config/worklog/config.yaml):
       sync:
         enabled: true
         auto_commit: true
         auto_push: false
         pull_on_startup: false

EXAMPLES:
    # Turn the data directory into a repository
    worklog sync --init

    # See where the repository stands
    worklog sync --status

    # Commit everything and push
    worklog sync

    # Bring in changes from another machine
    worklog sync --pull

CONFIGURATION:
    sync:
      enabled: false           # Master switch for git sync
      auto_commit: true        # Commit after every change
      auto_push: false         # Push after every commit
      pull_on_startup: false   # Pull before serving
      commit_message: "auto"   # "auto" or a fixed message
`

// runSync handles the "worklog sync" subcommand.
func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	setup := fs.Bool("setup", false, "interactive setup wizard")
	initRepo := fs.Bool("init", false, "initialize git repository")
	showStatus := fs.Bool("status", false, "show sync status")
	pull := fs.Bool("pull", false, "pull latest changes")
	push := fs.Bool("push", false, "push local changes")
	remote := fs.String("remote", "", "add or update the origin remote")
	help := fs.Bool("help", false, "show help message")
	fs.BoolVar(help, "h", false, "show help message (shorthand)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, syncHelpText) }

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *help {
		fmt.Print(syncHelpText)
		return
	}

	if !sync.IsGitInstalled() {
		fatalf("Error: git is not installed. Please install git to use sync.")
	}
	cfg, err := config.Load()
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	gs := newGitSync(cfg)

	switch {
	case *setup:
		syncSetup(gs, cfg)
	case *initRepo:
		syncInit(gs, cfg.GetDataDir())
	case *showStatus:
		syncStatus(gs, cfg)
	case *pull:
		requireRepo(gs)
		syncRun("Pulling latest changes...", "Pull complete.", gs.Pull)
	case *push:
		requireRepo(gs)
		syncRun("Pushing local changes...", "Push complete.", gs.Push)
	case *remote != "":
		requireRepo(gs)
		if err := gs.AddRemote("origin", *remote); err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Printf("Remote 'origin' set to %s\n", *remote)
	default:
		syncCommitPush(gs)
	}
}

// newGitSync builds a GitSync from the app-level sync configuration.
func newGitSync(cfg *config.Config) *sync.GitSync {
	return sync.New(cfg.GetDataDir(), &sync.Config{
		Enabled:       cfg.Sync.Enabled,
		AutoCommit:    cfg.Sync.AutoCommit,
		AutoPush:      cfg.Sync.AutoPush,
		PullOnStartup: cfg.Sync.PullOnStartup,
		CommitMessage: cfg.Sync.CommitMessage,
	})
}

// requireRepo exits unless the data directory is already a git repository.
func requireRepo(gs *sync.GitSync) {
	if !gs.IsRepo() {
		fatalf("Error: not a git repository. Run 'worklog sync --init' first.")
	}
}

// syncRun announces an operation, runs it, and reports completion.
func syncRun(start, done string, op func() error) {
	fmt.Println(start)
	if err := op(); err != nil {
		fatalf("Error: %v", err)
	}
	fmt.Println(done)
}

func syncInit(gs *sync.GitSync, dataDir string) {
	if gs.IsRepo() {
		fmt.Printf("Git repository already initialized in %s\n", dataDir)
		return
	}

	fmt.Printf("Initializing git repository in %s...\n", dataDir)
	if err := gs.Init(); err != nil {
		fatalf("Error: %v", err)
	}

	fmt.Print(`Repository initialized successfully!

Next steps:
  1. Add a remote repository:
     worklog sync --remote <your-repo-url>

  2. Enable sync in your config (~/.config/worklog/config.yaml):
     sync:
       enabled: true
`)
}

// syncStatus prints repository, remote, and working-tree state.
func syncStatus(gs *sync.GitSync, cfg *config.Config) {
	status, err := gs.Status()
	if err != nil {
		fatalf("Error getting status: %v", err)
	}

	fmt.Println("Git Sync Status")
	fmt.Println("───────────────")
	fmt.Printf("Sync:       %s\n", enabledWord(cfg.Sync.Enabled))
	fmt.Printf("Data dir:   %s\n", cfg.GetDataDir())

	if !status.IsRepo {
		fmt.Println("Repository: not initialized")
		fmt.Println()
		fmt.Println("Run 'worklog sync --init' to initialize.")
		return
	}

	fmt.Println("Repository: initialized")
	fmt.Printf("Branch:     %s\n", status.Branch)

	if status.HasRemote {
		fmt.Printf("Remote:     %s (%s)\n", status.RemoteName, status.RemoteURL)
		if status.Ahead > 0 || status.Behind > 0 {
			fmt.Printf("Status:     %d ahead, %d behind\n", status.Ahead, status.Behind)
		} else {
			fmt.Println("Status:     up to date")
		}
	} else {
		fmt.Println("Remote:     not configured")
	}

	if status.HasChanges {
		fmt.Println("Changes:    uncommitted changes present")
	} else {
		fmt.Println("Changes:    clean")
	}
	if status.LastCommitAt != nil {
		fmt.Printf("Last commit: %s\n", formatAge(*status.LastCommitAt))
	}
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// syncCommitPush is the bare "worklog sync": commit everything, then push
// when a remote exists.
func syncCommitPush(gs *sync.GitSync) {
	requireRepo(gs)

	fmt.Println("Committing changes...")
	if err := gs.CommitAll(); err != nil {
		fatalf("Error committing: %v", err)
	}

	status, err := gs.Status()
	if err != nil {
		fatalf("Error getting status: %v", err)
	}
	if !status.HasRemote {
		fmt.Println("Changes committed locally.")
		fmt.Println("(No remote configured - add one with 'worklog sync --remote <url>')")
		return
	}

	fmt.Println("Pushing to remote...")
	if err := gs.Push(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: push failed: %v\n", err)
		fmt.Println("Changes committed locally.")
		return
	}
	fmt.Println("Sync complete.")
}

// syncSetup is the interactive wizard: repository, remote, then the
// auto-commit options, saved back to the config file at the end.
func syncSetup(gs *sync.GitSync, cfg *config.Config) {
	in := bufio.NewReader(os.Stdin)

	fmt.Print(`
Git Sync Setup
══════════════

This wizard will help you set up git sync for your work data.

`)
	fmt.Printf("Data directory: %s\n\n", cfg.GetDataDir())

	if gs.IsRepo() {
		fmt.Println("✓ Repository already initialized")
	} else {
		if !askYesNo(in, "Initialize git repository?", true) {
			fmt.Println("Setup canceled.")
			return
		}
		fmt.Println("Initializing repository...")
		if err := gs.Init(); err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Println("✓ Repository initialized")
	}
	fmt.Println()

	status, err := gs.Status()
	if err != nil {
		fatalf("Error getting status: %v", err)
	}
	if status.HasRemote {
		fmt.Printf("✓ Remote configured: %s (%s)\n", status.RemoteName, status.RemoteURL)
	} else if askYesNo(in, "Add a remote repository?", false) {
		url := askLine(in, "Remote URL (e.g., git@github.com:user/worklog-data.git): ")
		if url == "" {
			fmt.Println("Skipped (no URL provided)")
		} else if err := gs.AddRemote("origin", url); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding remote: %v\n", err)
		} else {
			fmt.Println("✓ Remote 'origin' added")
		}
	} else {
		fmt.Println("Skipped")
	}
	fmt.Println()

	fmt.Print(`Configuration Options
─────────────────────

`)
	autoCommit := askYesNo(in, "Enable auto-commit (commits after each change)?", cfg.Sync.AutoCommit)
	autoPush := askYesNo(in, "Enable auto-push (pushes after each commit)?", cfg.Sync.AutoPush)
	pullOnStartup := askYesNo(in, "Pull on startup (sync before serving)?", cfg.Sync.PullOnStartup)
	fmt.Println()

	cfg.Sync.Enabled = true
	cfg.Sync.AutoCommit = autoCommit
	cfg.Sync.AutoPush = autoPush
	cfg.Sync.PullOnStartup = pullOnStartup

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		fmt.Printf(`
Add this to your config file (~/.config/worklog/config.yaml):

sync:
  enabled: true
  auto_commit: %v
  auto_push: %v
  pull_on_startup: %v
`, autoCommit, autoPush, pullOnStartup)
	} else {
		fmt.Println("✓ Configuration saved")
	}

	fmt.Println()
	fmt.Println("Setup complete! Git sync is now enabled.")
	fmt.Println()
	fmt.Println("Your work data will be automatically committed to git.")
	if autoPush {
		fmt.Println("Changes will be pushed automatically after each commit.")
	} else {
		fmt.Println("Use 'worklog sync' to push changes to your remote.")
	}
}

// askYesNo prompts with a Y/n style default and reads one line. An empty
// answer keeps the default; anything but y/yes answers no.
func askYesNo(in *bufio.Reader, prompt string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s] ", prompt, hint)

	answer, _ := in.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer == "" {
		return def
	}
	return answer == "y" || answer == "yes"
}

func askLine(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
