package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/config"
)

// foldersCmd represents the folders command.
var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List IMAP folders in the configured account",
	Long: `List all folders in the configured IMAP account.

Useful for finding the right value for imap.folder in the config file.

Example:
  apple-receipts-to-ofx folders`,
	Run: runFolders,
}

func runFolders(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate(
		[]string{"imap", "server"},
		[]string{"imap", "email"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	store, err := connectStore(cfg)
	exitOnError(err, "failed to connect to message store")
	defer store.Close()

	names, err := store.ListFolders()
	exitOnError(err, "failed to list folders")

	for _, name := range names {
		fmt.Println(name)
	}

	slog.Info("Listed folders", "count", len(names))
}
