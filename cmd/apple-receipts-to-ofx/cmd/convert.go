package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/config"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/db"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/ofx"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/pathutil"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/receipt"
)

var (
	outputFile string
	days       int
	folderName string
	dryRun     bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Fetch receipt emails and write an OFX statement",
	Long: `Fetch Apple receipt emails and write one OFX statement.

This command:
1. Searches the configured IMAP folder for receipt emails
2. Extracts and validates each receipt's line items and amounts
3. Allocates the receipt tax across items with exact reconciliation
4. Writes the whole batch as a single OFX statement
5. Records the run in the SQLite history

Example:
  apple-receipts-to-ofx convert --output receipts.ofx --days 90
  apple-receipts-to-ofx convert --output receipts.ofx --dry-run`,
	Run: runConvert,
}

func init() {
	// Flags
	convertCmd.Flags().StringVar(&outputFile, "output", "", "Path to the output OFX file (required)")
	convertCmd.Flags().IntVar(&days, "days", 90, "Number of days of receipts to include")
	convertCmd.Flags().StringVar(&folderName, "folder", "", "IMAP folder to search (overrides config)")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the statement instead of writing it")

	convertCmd.MarkFlagRequired("output")
}

func runConvert(cmd *cobra.Command, args []string) {
	slog.Info("Starting conversion", "days", days, "dry_run", dryRun)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate(
		[]string{"imap", "server"},
		[]string{"imap", "email"},
		[]string{"imap", "folder"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	folder := folderName
	if folder == "" {
		folder = cfg.IMAP.Folder
	}

	pathResolver := pathutil.New(pathutil.Config{
		OutputRoot:   cfg.Output.Root,
		DatabasePath: cfg.Output.DBPath,
	})

	// Open the run history up front so the processing loop can flag
	// orders already recorded by a previous run. Dry runs never touch it.
	var history *db.RunHistory
	if !dryRun {
		conn, err := db.Open(pathResolver.GetDatabasePath())
		exitOnError(err, "failed to open run history")
		defer conn.Close()
		history = db.NewRunHistory(conn)
	}

	// Connect to the message store
	store, err := connectStore(cfg)
	exitOnError(err, "failed to connect to message store")
	defer store.Close()

	// Fetch candidate documents
	since := time.Now().AddDate(0, 0, -days)
	slog.Info("Fetching receipts", "folder", folder, "since", since.Format("2006-01-02"))
	docs, err := store.FetchReceipts(folder, since)
	exitOnError(err, "failed to fetch receipts")
	slog.Info("Fetched receipt documents", "count", len(docs))

	// Run each document through the extraction pipeline. Failures are
	// per-document: log and continue.
	batch := receipt.NewBatch()
	var audit []db.ReceiptRecord
	skipped := 0

	for _, doc := range docs {
		date := doc.Date.Format("2006-01-02")

		rcpt, diags, err := receipt.Process(receipt.Source{
			Markup:    doc.HTML,
			Date:      doc.Date,
			Recipient: doc.Recipient,
		})
		diags.Log(slog.Default(), "date", date)

		if err != nil {
			slog.Warn("Skipping document", "date", date, "error", err)
			skipped++
			continue
		}
		if rcpt == nil {
			skipped++
			continue
		}

		if history != nil {
			if seen, err := history.SeenOrder(rcpt.OrderID); err == nil && seen {
				slog.Warn("Order already recorded by a previous run",
					"order_id", rcpt.OrderID, "date", date)
			}
		}

		batch.Add(rcpt)
		audit = append(audit, db.ReceiptRecord{
			OrderID:      rcpt.OrderID,
			DocumentDate: rcpt.DocumentDate.Format("2006-01-02"),
			Total:        rcpt.Total.String(),
			Items:        len(rcpt.Items),
		})
	}

	slog.Info("Processed documents",
		"accepted", batch.Len(),
		"items", batch.ItemCount(),
		"skipped", skipped,
	)

	// Synthesize the statement
	resp, sdiags, err := ofx.Synthesize(batch, ofx.Options{
		Currency: cfg.Ledger.Currency,
		BankID:   cfg.Ledger.BankID,
	})
	if sdiags != nil {
		sdiags.Log(slog.Default())
	}
	exitOnError(err, "failed to synthesize statement")

	if dryRun {
		buf, err := resp.Marshal()
		exitOnError(err, "failed to marshal statement")
		fmt.Println(buf.String())
		return
	}

	// Write the artifact in one shot
	outPath := pathResolver.GetStatementPath(outputFile)
	exitOnError(pathResolver.EnsureParentDir(outPath), "failed to create output directory")
	exitOnError(ofx.WriteFile(outPath, resp), "failed to write statement")

	// Record run history
	if err := history.RecordRun(db.RunRecord{
		AccountID:     batch.AccountID(),
		Receipts:      batch.Len(),
		Items:         batch.ItemCount(),
		Skipped:       skipped,
		StatementDate: batch.StatementDate().Format("20060102"),
		OutputFile:    outPath,
	}, audit); err != nil {
		slog.Error("Failed to record run history", "error", err)
	}

	slog.Info("Conversion completed",
		"path", outPath,
		"account_id", batch.AccountID(),
		"receipts", batch.Len(),
		"transactions", batch.ItemCount(),
	)
	fmt.Printf("Wrote %d transactions for %d receipts to %s\n",
		batch.ItemCount(), batch.Len(), outPath)
}
