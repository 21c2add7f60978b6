// Package main is the entry point for the apple-receipts-to-ofx CLI.
package main

import (
	"os"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/cmd/apple-receipts-to-ofx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
