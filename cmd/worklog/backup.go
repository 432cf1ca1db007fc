package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"worklog/internal/backup"
	"worklog/internal/config"
)

const backupHelpText = `worklog backup - Create and manage backups

USAGE:
    worklog backup [OPTIONS]

OPTIONS:
    -l, --list     List available backups
    --prune        Delete old backups beyond the configured retention
    -h, --help     Show this help

DESCRIPTION:
    Creates a timestamped backup of the work document. Backups are stored
    in the backups/ directory next to the data file and can be restored
    with 'worklog restore'. After a new backup, old ones beyond the
    backup.keep config setting are pruned automatically; keep of 0 keeps
    everything.

EXAMPLES:
    # Create a new backup
    worklog backup

    # List what can be restored
    worklog backup --list

    # Apply the retention policy without creating a backup
    worklog backup --prune
`

// runBackup handles the "worklog backup" subcommand.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	list := fs.Bool("list", false, "list available backups")
	fs.BoolVar(list, "l", false, "list available backups (shorthand)")
	prune := fs.Bool("prune", false, "delete old backups beyond the configured retention")
	help := fs.Bool("help", false, "show help message")
	fs.BoolVar(help, "h", false, "show help message (shorthand)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, backupHelpText) }

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *help {
		fmt.Print(backupHelpText)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	manager := backup.NewManager(cfg.GetDataDir(), version)

	switch {
	case *list:
		listBackups(manager)
	case *prune:
		pruneBackups(manager, cfg.Backup.Keep)
	default:
		createBackup(manager, cfg.Backup.Keep)
	}
}

// createBackup snapshots the document, then applies the retention policy.
func createBackup(manager *backup.Manager, keep int) {
	name, err := manager.Create()
	if err != nil {
		fatalf("Error creating backup: %v", err)
	}
	info, err := manager.GetBackup(name)
	if err != nil {
		fatalf("Error reading backup info: %v", err)
	}

	fmt.Printf("✓ Backup created: %s\n", name)
	fmt.Printf("  %s\n", statsLine(info.Stats))
	fmt.Printf("  Location: %s\n", info.Path)

	deleted, err := manager.Prune(keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: prune failed: %v\n", err)
		return
	}
	if deleted > 0 {
		fmt.Printf("  Pruned %d old backup(s), keeping the newest %d\n", deleted, keep)
	}
}

// pruneBackups applies the retention policy without creating a backup.
func pruneBackups(manager *backup.Manager, keep int) {
	if keep <= 0 {
		fmt.Println("Retention is unlimited (backup.keep is 0); nothing to prune.")
		return
	}

	deleted, err := manager.Prune(keep)
	if err != nil {
		fatalf("Error pruning backups: %v", err)
	}
	if deleted == 0 {
		fmt.Printf("Nothing to prune; %d or fewer backups exist.\n", keep)
		return
	}
	fmt.Printf("✓ Pruned %d old backup(s), keeping the newest %d\n", deleted, keep)
}

func listBackups(manager *backup.Manager) {
	backups, err := manager.List()
	if err != nil {
		fatalf("Error listing backups: %v", err)
	}
	if len(backups) == 0 {
		fmt.Println("No backups available.")
		fmt.Println("Run 'worklog backup' to create one.")
		return
	}

	fmt.Println("Available backups:")
	for _, b := range backups {
		fmt.Printf("  %s  (%s)   Projects: %d, Time logs: %d\n",
			b.Name, formatAge(b.CreatedAt), b.Stats["projects"], b.Stats["time_logs"])
	}
}

// statsLine summarizes a backup's document stats for display.
func statsLine(stats map[string]int) string {
	return fmt.Sprintf("Groups: %d, Projects: %d, Time logs: %d",
		stats["groups"], stats["projects"], stats["time_logs"])
}

// formatAge renders how long ago t was in rough human terms.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return agoUnits(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return agoUnits(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		if days := int(d.Hours() / 24); days != 1 {
			return fmt.Sprintf("%d days ago", days)
		}
		return "yesterday"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func agoUnits(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
