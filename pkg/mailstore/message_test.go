package mailstore

import (
	"strings"
	"testing"
	"time"
)

const sampleReceiptMessage = "Date: Tue, 05 Mar 2024 10:30:00 -0800\r\n" +
	"From: Apple <no_reply@email.apple.com>\r\n" +
	"To: owner@example.com\r\n" +
	"Subject: Your receipt from Apple.\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"boundary42\"\r\n" +
	"\r\n" +
	"--boundary42\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Your receipt, in plain text.\r\n" +
	"--boundary42\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><div class=\"aapl-desktop-div\">receipt</div></body></html>\r\n" +
	"--boundary42--\r\n"

const plainOnlyMessage = "Date: Tue, 05 Mar 2024 10:30:00 -0800\r\n" +
	"From: Apple <no_reply@email.apple.com>\r\n" +
	"To: owner@example.com\r\n" +
	"Subject: Your receipt from Apple.\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"No markup here.\r\n"

func TestParseMessage(t *testing.T) {
	doc, err := ParseMessage(strings.NewReader(sampleReceiptMessage))
	if err != nil {
		t.Fatalf("ParseMessage returned error: %v", err)
	}

	if doc.Subject != ReceiptSubject {
		t.Errorf("Subject = %q, expected %q", doc.Subject, ReceiptSubject)
	}
	if doc.Recipient != "owner@example.com" {
		t.Errorf("Recipient = %q, expected owner@example.com", doc.Recipient)
	}

	expected := time.Date(2024, 3, 5, 10, 30, 0, 0, time.FixedZone("", -8*60*60))
	if !doc.Date.Equal(expected) {
		t.Errorf("Date = %s, expected %s", doc.Date, expected)
	}

	if !strings.Contains(doc.HTML, "aapl-desktop-div") {
		t.Errorf("HTML = %q, expected the html part body", doc.HTML)
	}
}

func TestParseMessageErrors(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"no html part", plainOnlyMessage},
		{"empty input", ""},
		{
			"missing date",
			"From: Apple <no_reply@email.apple.com>\r\n" +
				"To: owner@example.com\r\n" +
				"Content-Type: text/html\r\n" +
				"\r\n" +
				"<html></html>\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if doc, err := ParseMessage(strings.NewReader(tt.message)); err == nil {
				t.Errorf("ParseMessage succeeded with %+v, expected an error", doc)
			}
		})
	}
}
