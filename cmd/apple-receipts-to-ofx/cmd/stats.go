package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/config"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/db"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/pathutil"
)

var recentRuns int

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display conversion run statistics",
	Long: `Display statistics about past conversion runs.

Shows:
- Total number of runs
- Total number of receipts and transactions written
- Last run timestamp
- The most recent runs

Example:
  apple-receipts-to-ofx stats`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&recentRuns, "recent", 5, "Number of recent runs to list")
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	pathResolver := pathutil.New(pathutil.Config{
		OutputRoot:   cfg.Output.Root,
		DatabasePath: cfg.Output.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open run history")
	defer conn.Close()

	history := db.NewRunHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Conversion Statistics ===")
	fmt.Printf("Total runs:         %d\n", stats.TotalRuns)
	fmt.Printf("Total receipts:     %d\n", stats.TotalReceipts)
	fmt.Printf("Total transactions: %d\n", stats.TotalItems)

	if stats.LastRun.Valid {
		fmt.Printf("Last run:           %s\n", stats.LastRun.String)
	} else {
		fmt.Printf("Last run:           (never)\n")
	}

	runs, err := history.RecentRuns(recentRuns)
	exitOnError(err, "failed to list recent runs")

	if len(runs) > 0 {
		fmt.Println("\nRecent runs:")
		for _, run := range runs {
			fmt.Printf("  %s  %-30s %3d receipts %3d transactions  %s\n",
				run.RanAt.Format("2006-01-02 15:04"),
				run.AccountID,
				run.Receipts,
				run.Items,
				run.OutputFile,
			)
		}
	}

	fmt.Println()
}
