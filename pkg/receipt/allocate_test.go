package receipt

import (
	"testing"
	"time"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

func testReceipt(prices []string, tax, total string) *Receipt {
	r := &Receipt{
		OrderID:          "MT7XK2QN9L",
		VendorAccountID:  "billing@example.com",
		Tax:              money.MustParse(tax),
		Total:            money.MustParse(total),
		DocumentDate:     time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		RecipientAddress: "owner@example.com",
	}
	for _, p := range prices {
		r.Items = append(r.Items, LineItem{Title: "Item", Price: money.MustParse(p)})
		r.Subtotal = r.Subtotal.Add(money.MustParse(p))
	}
	return r
}

func TestAllocate(t *testing.T) {
	r, diags := Allocate(testReceipt([]string{"5.00", "3.00"}, "0.56", "8.56"))
	if r == nil {
		t.Fatalf("receipt was dropped: %+v", diags.Entries())
	}

	// taxRatio = 0.56 / 8.56; per-item tax rounds to 0.33 and 0.20, and
	// the 0.03 residual lands entirely on the last item.
	if got := r.Items[0].AllocatedTax.String(); got != "0.33" {
		t.Errorf("first AllocatedTax = %s, expected 0.33", got)
	}
	if got := r.Items[0].FinalAmount.String(); got != "5.33" {
		t.Errorf("first FinalAmount = %s, expected 5.33", got)
	}
	if got := r.Items[1].AllocatedTax.String(); got != "0.20" {
		t.Errorf("second AllocatedTax = %s, expected 0.20", got)
	}
	if got := r.Items[1].FinalAmount.String(); got != "3.23" {
		t.Errorf("second FinalAmount = %s, expected residual-corrected 3.23", got)
	}
}

func TestAllocateSingleItem(t *testing.T) {
	r, diags := Allocate(testReceipt([]string{"9.99"}, "0.70", "10.69"))
	if r == nil {
		t.Fatalf("receipt was dropped: %+v", diags.Entries())
	}
	if got := r.Items[0].AllocatedTax.String(); got != "0.65" {
		t.Errorf("AllocatedTax = %s, expected 0.65", got)
	}
	if got := r.Items[0].FinalAmount.String(); got != "10.69" {
		t.Errorf("FinalAmount = %s, expected 10.69", got)
	}
}

func TestAllocateZeroTax(t *testing.T) {
	r, diags := Allocate(testReceipt([]string{"5.00", "3.00"}, "0.00", "8.00"))
	if r == nil {
		t.Fatalf("receipt was dropped: %+v", diags.Entries())
	}
	for i, item := range r.Items {
		if !item.AllocatedTax.IsZero() {
			t.Errorf("item %d AllocatedTax = %s, expected zero", i, item.AllocatedTax)
		}
		if !item.FinalAmount.Equal(item.Price) {
			t.Errorf("item %d FinalAmount = %s, expected the bare price", i, item.FinalAmount)
		}
	}
}

// Whatever the rounding does per item, the item amounts must sum to the
// printed total exactly.
func TestAllocateConservesTotal(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		tax    string
		total  string
	}{
		{"two items", []string{"5.00", "3.00"}, "0.56", "8.56"},
		{"three items", []string{"0.99", "1.99", "2.99"}, "0.42", "6.39"},
		{"single item", []string{"9.99"}, "0.70", "10.69"},
		{"credit and charge", []string{"9.99", "-10.00"}, "0.70", "0.69"},
		{"pure top-up", []string{"-10.00"}, "0.00", "-10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, diags := Allocate(testReceipt(tt.prices, tt.tax, tt.total))
			if r == nil {
				t.Fatalf("receipt was dropped: %+v", diags.Entries())
			}

			sum := money.Zero()
			for _, item := range r.Items {
				sum = sum.Add(item.FinalAmount)
			}
			if !sum.Equal(money.MustParse(tt.total)) {
				t.Errorf("final amounts sum to %s, expected %s", sum, tt.total)
			}
		})
	}
}

func TestAllocateLeavesInputUnchanged(t *testing.T) {
	in := testReceipt([]string{"5.00", "3.00"}, "0.56", "8.56")
	if _, diags := Allocate(in); diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", diags.Entries())
	}
	for i, item := range in.Items {
		if !item.AllocatedTax.IsZero() || !item.FinalAmount.IsZero() {
			t.Errorf("input item %d was mutated: %+v", i, item)
		}
	}
}

func TestAllocateSkipsZeroTotal(t *testing.T) {
	r, diags := Allocate(testReceipt([]string{"5.00"}, "0.00", "0.00"))
	if r != nil {
		t.Fatal("zero-total receipt should be skipped")
	}
	skipped := false
	for _, e := range diags.Entries() {
		if e.Code == CodeSkippedReceipt {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("expected a skipped-receipt diagnostic, got %+v", diags.Entries())
	}
}

func TestAllocateDropsUnreconcilable(t *testing.T) {
	r, diags := Allocate(testReceipt(nil, "0.00", "8.56"))
	if r != nil {
		t.Fatal("unreconcilable receipt should be dropped")
	}
	if !diags.HasErrors() {
		t.Errorf("expected a reconciliation-failure diagnostic, got %+v", diags.Entries())
	}
}
