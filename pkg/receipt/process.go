package receipt

import "time"

// Source is one candidate document handed over by the message store: the
// HTML body plus the header fields the engine needs.
type Source struct {
	Markup    string
	Date      time.Time
	Recipient string
}

// Process runs one document through extract, validate and allocate. A nil
// receipt with a nil error means the document was dropped by a validation
// or reconciliation rule; the diagnostics carry the reason. Errors are
// per-document and never fatal to the batch.
func Process(src Source) (*Receipt, *Diagnostics, error) {
	fields, diags, err := Extract(src.Markup)
	if err != nil {
		return nil, diags, err
	}

	fields.DocumentDate = src.Date
	fields.RecipientAddress = src.Recipient

	validated, vdiags := Validate(fields)
	diags.Merge(vdiags)
	if validated == nil {
		return nil, diags, nil
	}

	allocated, adiags := Allocate(validated)
	diags.Merge(adiags)
	if allocated == nil {
		return nil, diags, nil
	}

	return allocated, diags, nil
}
