package receipt

import (
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

// Allocate distributes the receipt-level tax across line items
// proportionally to price and corrects the residual rounding error against
// the printed total. It returns nil when the receipt must be skipped: a
// receipt whose item amounts cannot be reconciled to the printed total must
// never reach the ledger.
func Allocate(r *Receipt) (*Receipt, *Diagnostics) {
	diags := &Diagnostics{}

	// Validation already rejects zero totals; re-checked here so the ratio
	// is always well defined.
	if r.Total.IsZero() {
		diags.Warnf(CodeSkippedReceipt, "zero total, cannot allocate tax")
		return nil, diags
	}

	taxRatio := r.Tax.Div(r.Total)

	out := *r
	out.Items = make([]LineItem, len(r.Items))
	copy(out.Items, r.Items)

	sum := money.Zero()
	for i := range out.Items {
		item := &out.Items[i]
		item.AllocatedTax = item.Price.Mul(taxRatio).Round()
		item.FinalAmount = item.Price.Add(item.AllocatedTax)
		sum = sum.Add(item.FinalAmount)
	}

	// Pin the rounding residual on the last item so the item amounts sum
	// to the printed total exactly.
	if n := len(out.Items); n > 0 {
		if residual := r.Total.Sub(sum).Round(); !residual.IsZero() {
			last := &out.Items[n-1]
			last.FinalAmount = last.FinalAmount.Add(residual)
		}
	}

	check := money.Zero()
	for _, item := range out.Items {
		check = check.Add(item.FinalAmount)
	}
	if !check.Equal(r.Total) {
		diags.Errorf(CodeReconciliationMismatch,
			"item amounts sum to %s, printed total is %s", check, r.Total)
		return nil, diags
	}

	return &out, diags
}
