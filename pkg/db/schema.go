package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Run history table
-- One row per conversion run that wrote a ledger artifact
CREATE TABLE IF NOT EXISTS run_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id TEXT NOT NULL,          -- Ledger account identifier for the run
    receipts INTEGER NOT NULL,         -- Receipts accepted into the batch
    items INTEGER NOT NULL,            -- Line items emitted as transactions
    skipped INTEGER NOT NULL,          -- Documents rejected or dropped
    statement_date TEXT NOT NULL,      -- YYYYMMDD
    output_file TEXT NOT NULL,         -- Path to the OFX artifact
    ran_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_run_history_ran_at
    ON run_history(ran_at);

-- Receipt history table
-- Order-level audit rows for each run
CREATE TABLE IF NOT EXISTS receipt_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES run_history(id),
    order_id TEXT NOT NULL,            -- Vendor order identifier
    document_date TEXT NOT NULL,       -- YYYY-MM-DD
    total TEXT NOT NULL,               -- Printed total, two fractional digits
    items INTEGER NOT NULL,            -- Line items on the receipt
    UNIQUE(run_id, order_id)
);

CREATE INDEX IF NOT EXISTS idx_receipt_history_order
    ON receipt_history(order_id);
`

// InitializeSchema initializes the database schema. It creates all tables
// if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
