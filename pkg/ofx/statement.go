// Package ofx synthesizes the ledger artifact for a receipt batch: a
// single-statement OFX document with one bank transaction per line item.
package ofx

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/receipt"
)

// ErrEmptyBatch means no receipts survived the pipeline. No ledger is
// written; the run reports failure.
var ErrEmptyBatch = errors.New("no receipts to synthesize")

// DefaultBankID is the routing-number placeholder carried by the statement.
const DefaultBankID = "IMAPAppleReceiptsToOFX"

// Options configures statement synthesis.
type Options struct {
	Currency string // ISO code, default money.Currency
	BankID   string // routing placeholder, default DefaultBankID
}

// Synthesize builds the OFX response for the batch. The statement date is
// the most recent document date; the account identifier is the batch's
// dominant recipient address; amounts are negated relative to the
// receipts' amount-charged convention. Receipts that somehow arrive with
// zero items are skipped with a diagnostic.
func Synthesize(batch *receipt.Batch, opts Options) (*ofxgo.Response, *receipt.Diagnostics, error) {
	diags := &receipt.Diagnostics{}

	if batch == nil || batch.Len() == 0 {
		return nil, diags, ErrEmptyBatch
	}

	currency := opts.Currency
	if currency == "" {
		currency = money.Currency
	}
	bankID := opts.BankID
	if bankID == "" {
		bankID = DefaultBankID
	}

	curdef, err := ofxgo.NewCurrSymbol(currency)
	if err != nil {
		return nil, diags, fmt.Errorf("invalid currency %q: %w", currency, err)
	}

	trnUID, err := ofxgo.RandomUID()
	if err != nil {
		return nil, diags, fmt.Errorf("generating transaction uid: %w", err)
	}

	accountID := batch.AccountID()
	statementDate := ofxgo.Date{Time: batch.StatementDate()}

	var transactions []ofxgo.Transaction
	for _, r := range batch.Receipts() {
		if len(r.Items) == 0 {
			diags.Warnf(receipt.CodeSkippedReceipt,
				"order %s has no items after allocation", r.OrderID)
			continue
		}
		for i, item := range r.Items {
			tx := ofxgo.Transaction{
				DtPosted: ofxgo.Date{Time: r.DocumentDate},
				TrnAmt:   ofxAmount(item.FinalAmount.Neg()),
				FiTID:    ofxgo.String(fmt.Sprintf("%s-%d", r.OrderID, i+1)),
				Name:     ofxgo.String(item.Title),
				Memo:     ofxgo.String(memo(r, item, accountID)),
			}
			setTransactionType(&tx, item.FinalAmount)
			transactions = append(transactions, tx)
		}
	}
	if len(transactions) == 0 {
		return nil, diags, ErrEmptyBatch
	}

	statement := &ofxgo.StatementResponse{
		TrnUID: *trnUID,
		Status: ofxgo.Status{Code: 0, Severity: "INFO"},
		CurDef: *curdef,
		BankAcctFrom: ofxgo.BankAcct{
			BankID:   ofxgo.String(bankID),
			AcctID:   ofxgo.String(accountID),
			AcctType: ofxgo.AcctTypeChecking,
		},
		BankTranList: &ofxgo.TransactionList{
			DtStart:      ofxgo.Date{Time: batch.EarliestDate()},
			DtEnd:        statementDate,
			Transactions: transactions,
		},
		// The ledger balance is a transaction-import artifact, not a
		// balance feed; it is always zero as of the statement date.
		BalAmt: ofxAmount(money.Zero()),
		DtAsOf: statementDate,
	}

	resp := &ofxgo.Response{
		Version: ofxgo.OfxVersion203,
		Signon: ofxgo.SignonResponse{
			Status:   ofxgo.Status{Code: 0, Severity: "INFO"},
			DtServer: statementDate,
			Language: "ENG",
		},
	}
	resp.Bank = append(resp.Bank, statement)

	return resp, diags, nil
}

// WriteFile marshals the response and writes the artifact in a single
// write; no partial or append behavior.
func WriteFile(path string, resp *ofxgo.Response) error {
	buf, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("marshalling ofx statement: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing statement: %w", err)
	}
	return nil
}

// Top-ups and refunds carry a negative final amount and post as credits;
// everything else is a charge. The transaction-type enum is unexported in
// ofxgo, so the field is set rather than returned.
func setTransactionType(tx *ofxgo.Transaction, finalAmount money.Amount) {
	if finalAmount.IsNegative() {
		tx.TrnType = ofxgo.TrnTypeCredit
		return
	}
	tx.TrnType = ofxgo.TrnTypeDebit
}

func ofxAmount(a money.Amount) ofxgo.Amount {
	var amt ofxgo.Amount
	amt.Set(a.Rat())
	return amt
}

// memo discloses shared-family billing when the purchasing identity is not
// the statement account, and the subscription duration when present.
func memo(r *receipt.Receipt, item receipt.LineItem, accountID string) string {
	var parts []string
	if r.VendorAccountID != accountID {
		parts = append(parts, "Apple ID: "+r.VendorAccountID)
	}
	if item.Duration != "" {
		parts = append(parts, "Subscription: "+item.Duration)
	}
	return strings.Join(parts, "; ")
}
