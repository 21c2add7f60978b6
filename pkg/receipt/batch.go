package receipt

import "time"

// Batch is the ordered set of receipts accepted in one run. It is built
// incrementally as documents are processed and read once by the ledger
// synthesizer.
type Batch struct {
	receipts []*Receipt
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Add(r *Receipt) {
	b.receipts = append(b.receipts, r)
}

// Receipts returns the accepted receipts in insertion order.
func (b *Batch) Receipts() []*Receipt {
	return b.receipts
}

func (b *Batch) Len() int {
	return len(b.receipts)
}

// ItemCount returns the total number of line items across the batch.
func (b *Batch) ItemCount() int {
	n := 0
	for _, r := range b.receipts {
		n += len(r.Items)
	}
	return n
}

// AccountID returns the most frequently occurring recipient address, ties
// broken by first-encountered order. It becomes the ledger's account
// identifier for the whole run.
func (b *Batch) AccountID() string {
	counts := make(map[string]int, len(b.receipts))
	for _, r := range b.receipts {
		counts[r.RecipientAddress]++
	}

	best := ""
	for _, r := range b.receipts {
		if counts[r.RecipientAddress] > counts[best] {
			best = r.RecipientAddress
		}
	}
	return best
}

// StatementDate returns the most recent document date across the batch.
func (b *Batch) StatementDate() time.Time {
	var latest time.Time
	for _, r := range b.receipts {
		if r.DocumentDate.After(latest) {
			latest = r.DocumentDate
		}
	}
	return latest
}

// EarliestDate returns the oldest document date across the batch.
func (b *Batch) EarliestDate() time.Time {
	var earliest time.Time
	for _, r := range b.receipts {
		if earliest.IsZero() || r.DocumentDate.Before(earliest) {
			earliest = r.DocumentDate
		}
	}
	return earliest
}
