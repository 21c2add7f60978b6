// Package keychain looks up the IMAP password in the operating system's
// credential store.
package keychain

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

// Service is the credential-store service name entries are filed under,
// keyed by IMAP server.
const Service = "IMAPAppleReceiptsToOFX"

// Password returns the stored password for the given IMAP server.
func Password(server string) (string, error) {
	password, err := keyring.Get(Service, server)
	if err != nil {
		return "", fmt.Errorf("no password in keychain for %s: %w", server, err)
	}
	return password, nil
}

// SetPassword stores the password for the given IMAP server.
func SetPassword(server, password string) error {
	if err := keyring.Set(Service, server, password); err != nil {
		return fmt.Errorf("storing password for %s: %w", server, err)
	}
	return nil
}
