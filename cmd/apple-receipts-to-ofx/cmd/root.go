// Package cmd provides CLI commands for apple-receipts-to-ofx.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/config"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/keychain"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/mailstore"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "apple-receipts-to-ofx",
	Short: "Convert Apple receipt emails to an OFX statement",
	Long: `apple-receipts-to-ofx fetches Apple purchase receipts from an IMAP
mailbox, extracts and reconciles their line items, and writes one OFX
statement suitable for import into accounting tools.

It supports:
- Both known receipt email layouts
- Proportional tax allocation with exact rounding reconciliation
- Run history in SQLite for auditing past conversions
- Dry-run mode for testing

Example:
  apple-receipts-to-ofx convert --output receipts.ofx --days 90
  apple-receipts-to-ofx folders
  apple-receipts-to-ofx stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(setPasswordCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}

// connectStore opens the IMAP session, resolving the password from the
// environment or the OS keychain.
func connectStore(cfg *config.Config) (*mailstore.Client, error) {
	password := cfg.IMAP.Password
	if password == "" {
		var err error
		password, err = keychain.Password(cfg.IMAP.Server)
		if err != nil {
			return nil, err
		}
	}

	return mailstore.Dial(mailstore.Config{
		Server:   cfg.IMAP.Server,
		Email:    cfg.IMAP.Email,
		Password: password,
	})
}
