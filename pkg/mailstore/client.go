// Package mailstore fetches candidate receipt documents from an IMAP
// message store. It selects messages by subject line and a date lower
// bound; the extraction engine trusts it to hand over only relevant
// messages.
package mailstore

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// ReceiptSubject is the vendor's receipt notification subject line.
const ReceiptSubject = "Your receipt from Apple."

// Config holds IMAP connection settings.
type Config struct {
	Server   string // host or host:port; port defaults to 993
	Email    string
	Password string
}

// Client is a logged-in IMAP session.
type Client struct {
	c *client.Client
}

// Dial connects to the server over TLS and logs in.
func Dial(cfg Config) (*Client, error) {
	addr := cfg.Server
	if !strings.Contains(addr, ":") {
		addr += ":993"
	}

	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	if err := c.Login(cfg.Email, cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("logging in as %s: %w", cfg.Email, err)
	}

	slog.Info("Logged in to IMAP server", "server", cfg.Server)
	return &Client{c: c}, nil
}

// Close logs out of the session.
func (m *Client) Close() error {
	return m.c.Logout()
}

// ListFolders returns the names of all folders in the account.
func (m *Client) ListFolders() ([]string, error) {
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- m.c.List("", "*", mailboxes)
	}()

	var names []string
	for mb := range mailboxes {
		names = append(names, mb.Name)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	return names, nil
}

// FetchReceipts selects the folder read-only and returns every receipt
// message received on or after since. Messages that cannot be parsed are
// logged and skipped; they never abort the fetch.
func (m *Client) FetchReceipts(folder string, since time.Time) ([]Document, error) {
	if _, err := m.c.Select(folder, true); err != nil {
		return nil, fmt.Errorf("selecting folder %q: %w", folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	criteria.Header.Add("Subject", ReceiptSubject)

	ids, err := m.c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("searching folder %q: %w", folder, err)
	}
	slog.Info("Searched folder", "folder", folder, "matches", len(ids))
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- m.c.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var docs []Document
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			slog.Warn("Message has no body section", "seq", msg.SeqNum)
			continue
		}

		doc, err := ParseMessage(body)
		if err != nil {
			slog.Warn("Failed to parse message", "seq", msg.SeqNum, "error", err)
			continue
		}
		docs = append(docs, *doc)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}

	return docs, nil
}
