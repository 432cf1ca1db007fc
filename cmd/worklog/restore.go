package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"worklog/internal/backup"
	"worklog/internal/config"
)

const restoreHelpText = `worklog restore - Restore the work document from a backup

USAGE:
    worklog restore [OPTIONS] [BACKUP_NAME]

OPTIONS:
    --latest       Restore the most recent backup
    --force, -f    Do not ask for confirmation
    -h, --help     Show this help

ARGUMENTS:
    BACKUP_NAME    Name of the backup to restore (e.g., 2025-06-16_090000_000)
                   Use 'worklog backup --list' to see available backups.

DESCRIPTION:
    Restores the work document from a backup. A safety backup of the
    current state is created first, and the restored file is validated
    as JSON before the restore is considered complete.

EXAMPLES:
    # Restore one specific backup
    worklog restore 2025-06-16_090000_000

    # Roll back to the most recent backup
    worklog restore --latest

    # Skip the confirmation prompt
    worklog restore --force 2025-06-16_090000_000
`

// runRestore handles the "worklog restore" subcommand.
func runRestore(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	latest := fs.Bool("latest", false, "restore from most recent backup")
	force := fs.Bool("force", false, "skip confirmation prompt")
	fs.BoolVar(force, "f", false, "skip confirmation prompt (shorthand)")
	help := fs.Bool("help", false, "show help message")
	fs.BoolVar(help, "h", false, "show help message (shorthand)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, restoreHelpText) }

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *help {
		fmt.Print(restoreHelpText)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	manager := backup.NewManager(cfg.GetDataDir(), version)

	name := pickBackup(fs, manager, *latest)
	info, err := manager.GetBackup(name)
	if err != nil {
		fatalf("Error: %v", err)
	}

	fmt.Printf("Restoring from backup: %s\n", info.Name)
	fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  %s\n", statsLine(info.Stats))
	fmt.Println()

	if !*force {
		fmt.Println("⚠ This will overwrite your current work data.")
		if !askYesNo(bufio.NewReader(os.Stdin), "Continue?", false) {
			fmt.Println("Restore cancelled.")
			return
		}
	}

	fmt.Println("✓ Creating safety backup first...")
	if err := manager.Restore(name); err != nil {
		fatalf("Error restoring backup: %v", err)
	}
	fmt.Printf("✓ Restored successfully from %s\n", name)
}

// pickBackup resolves which backup to restore: the newest with --latest,
// otherwise the positional argument.
func pickBackup(fs *flag.FlagSet, manager *backup.Manager, latest bool) string {
	if latest {
		backups, err := manager.List()
		if err != nil {
			fatalf("Error listing backups: %v", err)
		}
		if len(backups) == 0 {
			fatalf("No backups available.")
		}
		return backups[0].Name
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no backup specified")
		fmt.Fprintln(os.Stderr, "Use 'worklog restore BACKUP_NAME' or 'worklog restore --latest'")
		fatalf("Run 'worklog backup --list' to see available backups.")
	}
	return fs.Arg(0)
}
