package receipt

import (
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

// Validate repairs known vendor inconsistencies in extracted fields and
// enforces completeness. It returns nil when the receipt must be dropped;
// the diagnostics carry the reason. Sum mismatches against the printed
// summary amounts are warnings only: the final gate is the allocator's
// post-allocation total check.
func Validate(fields *Fields) (*Receipt, *Diagnostics) {
	diags := &Diagnostics{}

	calculated := money.Zero()
	for _, item := range fields.Items {
		calculated = calculated.Add(item.Price)
	}

	subtotal, tax, total := fields.Subtotal, fields.Tax, fields.Total

	// The vendor omits the subtotal line when there is no tax.
	if tax.IsZero() && subtotal.IsZero() {
		subtotal = calculated
	}

	// Balance top-up receipts print the total unsigned.
	if calculated.IsNegative() {
		total = total.Neg()
	}

	if !calculated.Equal(subtotal) {
		diags.Warnf(CodeReconciliationMismatch,
			"subtotal mismatch: calculated %s, printed %s", calculated, subtotal)
	}
	if withTax := calculated.Add(tax); !withTax.Equal(total) {
		diags.Warnf(CodeReconciliationMismatch,
			"total mismatch: calculated %s, printed %s", withTax, total)
	}

	if reason := incompleteReason(fields, total); reason != "" {
		diags.Warnf(CodeIncompleteReceipt, "receipt dropped: %s", reason)
		return nil, diags
	}

	return &Receipt{
		OrderID:          fields.OrderID,
		VendorAccountID:  fields.VendorAccountID,
		Items:            fields.Items,
		Subtotal:         subtotal,
		Tax:              tax,
		Total:            total,
		DocumentDate:     fields.DocumentDate,
		RecipientAddress: fields.RecipientAddress,
	}, diags
}

func incompleteReason(fields *Fields, total money.Amount) string {
	switch {
	case fields.OrderID == "":
		return "missing order id"
	case fields.VendorAccountID == "":
		return "missing vendor account id"
	case len(fields.Items) == 0:
		return "no line items"
	case total.IsZero():
		return "zero total"
	case fields.DocumentDate.IsZero():
		return "missing document date"
	case fields.RecipientAddress == "":
		return "missing recipient address"
	}
	return ""
}
