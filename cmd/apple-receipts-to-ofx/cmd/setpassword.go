package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/config"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/keychain"
)

// setPasswordCmd represents the set-password command.
var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the IMAP password in the OS keychain",
	Long: `Store the IMAP password for the configured server in the operating
system's keychain. The password is read from standard input.

Once stored, convert and folders no longer need IMAP_PASSWORD in the
environment.

Example:
  apple-receipts-to-ofx set-password`,
	Run: runSetPassword,
}

func runSetPassword(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate([]string{"imap", "server"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", cfg.IMAP.Server)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		exitOnError(err, "failed to read password")
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		exitOnError(fmt.Errorf("empty password"), "failed to read password")
	}

	exitOnError(keychain.SetPassword(cfg.IMAP.Server, password), "failed to store password")
	fmt.Fprintf(os.Stderr, "Stored password for %s\n", cfg.IMAP.Server)
}
