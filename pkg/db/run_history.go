package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RunRecord is one conversion run's summary row.
type RunRecord struct {
	ID            int64
	AccountID     string
	Receipts      int
	Items         int
	Skipped       int
	StatementDate string
	OutputFile    string
	RanAt         time.Time
}

// ReceiptRecord is one order-level audit row within a run.
type ReceiptRecord struct {
	OrderID      string
	DocumentDate string
	Total        string
	Items        int
}

// RunStats summarizes the whole history.
type RunStats struct {
	TotalRuns     int64
	TotalReceipts int64
	TotalItems    int64
	LastRun       sql.NullString
}

// RunHistory manages run-history operations.
type RunHistory struct {
	conn *Connection
}

// NewRunHistory creates a new RunHistory instance.
func NewRunHistory(conn *Connection) *RunHistory {
	return &RunHistory{conn: conn}
}

// RecordRun records one completed run and its receipt audit rows in a
// single transaction.
func (h *RunHistory) RecordRun(run RunRecord, receipts []ReceiptRecord) error {
	return h.conn.Transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO run_history (account_id, receipts, items, skipped, statement_date, output_file)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.AccountID,
			run.Receipts,
			run.Items,
			run.Skipped,
			run.StatementDate,
			run.OutputFile,
		)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}

		runID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get run id: %w", err)
		}

		for _, r := range receipts {
			if _, err := tx.Exec(`
				INSERT INTO receipt_history (run_id, order_id, document_date, total, items)
				VALUES (?, ?, ?, ?, ?)
			`, runID, r.OrderID, r.DocumentDate, r.Total, r.Items); err != nil {
				return fmt.Errorf("failed to record receipt %s: %w", r.OrderID, err)
			}
		}

		return nil
	})
}

// GetStats returns aggregate statistics over all recorded runs.
func (h *RunHistory) GetStats() (*RunStats, error) {
	stats := &RunStats{}

	err := h.conn.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(receipts), 0),
			COALESCE(SUM(items), 0),
			MAX(ran_at)
		FROM run_history
	`).Scan(&stats.TotalRuns, &stats.TotalReceipts, &stats.TotalItems, &stats.LastRun)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// RecentRuns returns the most recent runs, newest first.
func (h *RunHistory) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := h.conn.Query(`
		SELECT id, account_id, receipts, items, skipped, statement_date, output_file, ran_at
		FROM run_history
		ORDER BY ran_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(
			&run.ID,
			&run.AccountID,
			&run.Receipts,
			&run.Items,
			&run.Skipped,
			&run.StatementDate,
			&run.OutputFile,
			&run.RanAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// SeenOrder reports whether an order id appears in any previous run.
func (h *RunHistory) SeenOrder(orderID string) (bool, error) {
	var count int
	err := h.conn.QueryRow(`
		SELECT COUNT(*) FROM receipt_history WHERE order_id = ?
	`, orderID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check order: %w", err)
	}
	return count > 0, nil
}
