package receipt

import (
	"testing"
	"time"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

func TestProcess(t *testing.T) {
	src := Source{
		Markup:    legacyReceiptHTML,
		Date:      time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		Recipient: "owner@example.com",
	}

	r, diags, err := Process(src)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if r == nil {
		t.Fatalf("receipt was dropped: %+v", diags.Entries())
	}

	if r.OrderID != "MT7XK2QN9L" {
		t.Errorf("OrderID = %q, expected MT7XK2QN9L", r.OrderID)
	}
	if !r.DocumentDate.Equal(src.Date) {
		t.Errorf("DocumentDate = %s, expected the source date", r.DocumentDate)
	}
	if r.RecipientAddress != "owner@example.com" {
		t.Errorf("RecipientAddress = %q, expected owner@example.com", r.RecipientAddress)
	}

	sum := money.Zero()
	for _, item := range r.Items {
		sum = sum.Add(item.FinalAmount)
	}
	if !sum.Equal(r.Total) {
		t.Errorf("final amounts sum to %s, expected %s", sum, r.Total)
	}
}

func TestProcessUnrecognized(t *testing.T) {
	src := Source{
		Markup:    `<html><body><p>Thanks!</p></body></html>`,
		Date:      time.Now(),
		Recipient: "owner@example.com",
	}
	if r, _, err := Process(src); err == nil || r != nil {
		t.Errorf("Process = (%v, %v), expected an extraction error", r, err)
	}
}

func TestProcessDropsIncomplete(t *testing.T) {
	// A recognizable document missing the headers the validator requires.
	src := Source{Markup: legacyReceiptHTML}

	r, diags, err := Process(src)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if r != nil {
		t.Fatal("receipt without a document date should be dropped")
	}

	dropped := false
	for _, e := range diags.Entries() {
		if e.Code == CodeIncompleteReceipt {
			dropped = true
		}
	}
	if !dropped {
		t.Errorf("expected an incomplete-receipt diagnostic, got %+v", diags.Entries())
	}
}
