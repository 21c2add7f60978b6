// Package receipt extracts, validates and reconciles Apple purchase
// receipts from their HTML email bodies. The pipeline runs per document:
// Extract recognizes one of the known layouts and pulls raw fields,
// Validate repairs known vendor inconsistencies and enforces completeness,
// Allocate distributes the receipt-level tax across line items with exact
// rounding reconciliation. Accepted receipts are collected into a Batch for
// ledger synthesis.
package receipt

import (
	"time"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

// LineItem is one purchased product, subscription or credit entry within a
// receipt.
type LineItem struct {
	Title       string
	Duration    string
	RenewalNote string

	// Price is the vendor-printed price, negative for balance top-ups.
	Price money.Amount

	// AllocatedTax and FinalAmount are derived by the tax allocator.
	AllocatedTax money.Amount
	FinalAmount  money.Amount
}

// Receipt is one reconciled vendor order. Items are in document order.
type Receipt struct {
	OrderID         string
	VendorAccountID string
	Items           []LineItem
	Subtotal        money.Amount
	Tax             money.Amount
	Total           money.Amount

	DocumentDate     time.Time
	RecipientAddress string
}

// Fields is the raw extraction result for one document, before validation.
// DocumentDate and RecipientAddress come from the message headers and are
// filled in by the caller, not the extractor.
type Fields struct {
	OrderID         string
	VendorAccountID string
	Items           []LineItem
	Subtotal        money.Amount
	Tax             money.Amount
	Total           money.Amount

	DocumentDate     time.Time
	RecipientAddress string
}

// fieldKind names an identifier field a layout rule assigns to.
type fieldKind int

const (
	fieldOrderID fieldKind = iota
	fieldVendorAccount
)

func (f *Fields) setIdentifier(kind fieldKind, value string) {
	if value == "" {
		return
	}
	switch kind {
	case fieldOrderID:
		f.OrderID = value
	case fieldVendorAccount:
		f.VendorAccountID = value
	}
}

// summaryKind names a summary amount a layout rule assigns to.
type summaryKind int

const (
	summarySubtotal summaryKind = iota
	summaryTax
	summaryTotal
)

func (f *Fields) setSummary(kind summaryKind, a money.Amount) {
	switch kind {
	case summarySubtotal:
		f.Subtotal = a
	case summaryTax:
		f.Tax = a
	case summaryTotal:
		f.Total = a
	}
}

// itemList keeps line items in document order. A later item with a
// duplicate title overwrites the earlier one in place; vendor documents do
// not legitimately repeat a title.
type itemList struct {
	items []LineItem
	index map[string]int
}

func newItemList() *itemList {
	return &itemList{index: make(map[string]int)}
}

func (l *itemList) add(item LineItem) {
	if i, ok := l.index[item.Title]; ok {
		l.items[i] = item
		return
	}
	l.index[item.Title] = len(l.items)
	l.items = append(l.items, item)
}
