package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/ports/primary"
	"github.com/example/whisper/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long:  "View and prune the audit trail of user and message actions",
}

var logTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent audit entries",
	Long:  "Show recent audit entries (default 50)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		limit, _ := cmd.Flags().GetInt("limit")
		userID, _ := cmd.Flags().GetString("user")
		action, _ := cmd.Flags().GetString("action")
		level, _ := cmd.Flags().GetString("level")

		if limit <= 0 {
			limit = 50
		}

		entries, err := wire.AuditService().ListEntries(ctx, primary.AuditFilters{
			UserID: userID,
			Action: action,
			Level:  level,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch audit log: %w", err)
		}

		printAuditEntries(entries)
		return nil
	},
}

var logPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old audit entries",
	Long:  "Delete audit entries older than the specified number of days (default 30)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		days, _ := cmd.Flags().GetInt("days")

		count, err := wire.AuditService().PruneEntries(ctx, days)
		if err != nil {
			return fmt.Errorf("failed to prune audit log: %w", err)
		}

		if count == 0 {
			fmt.Printf("No audit entries older than %d days found.\n", days)
		} else {
			fmt.Printf("Pruned %d audit entries older than %d days.\n", count, days)
		}
		return nil
	},
}

func printAuditEntries(entries []*primary.AuditEntry) {
	if len(entries) == 0 {
		fmt.Println("No audit entries found.")
		return
	}

	fmt.Printf("Found %d audit entries:\n\n", len(entries))

	// Oldest first for tail view
	for i := len(entries) - 1; i >= 0; i-- {
		printAuditEntry(entries[i])
	}
}

func printAuditEntry(entry *primary.AuditEntry) {
	userStr := entry.UserID
	if userStr == "" {
		userStr = "-"
	}

	fmt.Printf("%s | %s | %-36s | %-22s | %s",
		entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		levelLabel(entry.Level),
		userStr,
		entry.Action,
		entry.Message,
	)

	if len(entry.Metadata) > 0 {
		if raw, err := json.Marshal(entry.Metadata); err == nil {
			fmt.Printf(" %s", color.New(color.FgHiBlack).Sprint(string(raw)))
		}
	}

	fmt.Println()
}

func levelLabel(level string) string {
	label := fmt.Sprintf("%-8s", level)
	switch level {
	case "ERROR", "CRITICAL":
		return color.New(color.FgRed).Sprint(label)
	case "WARNING":
		return color.New(color.FgYellow).Sprint(label)
	case "DEBUG":
		return color.New(color.FgHiBlack).Sprint(label)
	default:
		return color.New(color.FgHiGreen).Sprint(label)
	}
}

// LogCmd returns the log command with all subcommands attached.
func LogCmd() *cobra.Command {
	logTailCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	logTailCmd.Flags().String("user", "", "Filter by user ID")
	logTailCmd.Flags().String("action", "", "Filter by action")
	logTailCmd.Flags().String("level", "", "Filter by level")

	logPruneCmd.Flags().Int("days", 30, "Delete entries older than N days")

	logCmd.AddCommand(logTailCmd)
	logCmd.AddCommand(logPruneCmd)

	return logCmd
}
