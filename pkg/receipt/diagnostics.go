package receipt

import (
	"fmt"
	"log/slog"
)

// Severity classifies a diagnostic entry.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Diagnostic codes for data-quality anomalies.
const (
	CodeFieldParse             = "field_parse"
	CodeReconciliationMismatch = "reconciliation_mismatch"
	CodeIncompleteReceipt      = "incomplete_receipt"
	CodeSkippedReceipt         = "skipped_receipt"
)

// Diagnostic is one data-quality anomaly observed while processing a
// document.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
}

// Diagnostics collects anomalies from a pipeline stage. Stages return a
// collector alongside their result instead of logging globally; the caller
// aggregates and logs at the document boundary.
type Diagnostics struct {
	entries []Diagnostic
}

func (d *Diagnostics) add(severity Severity, code, format string, args ...any) {
	d.entries = append(d.entries, Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) Infof(code, format string, args ...any) {
	d.add(SeverityInfo, code, format, args...)
}

func (d *Diagnostics) Warnf(code, format string, args ...any) {
	d.add(SeverityWarning, code, format, args...)
}

func (d *Diagnostics) Errorf(code, format string, args ...any) {
	d.add(SeverityError, code, format, args...)
}

// Entries returns the collected diagnostics in insertion order.
func (d *Diagnostics) Entries() []Diagnostic {
	return d.entries
}

// Merge appends another collector's entries.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other != nil {
		d.entries = append(d.entries, other.entries...)
	}
}

// HasErrors reports whether any entry is at error severity.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Log writes every entry to the logger at the matching level. Extra args
// are appended to every record, typically a document identifier.
func (d *Diagnostics) Log(logger *slog.Logger, args ...any) {
	for _, e := range d.entries {
		entryArgs := append([]any{"code", e.Code}, args...)
		switch e.Severity {
		case SeverityError:
			logger.Error(e.Message, entryArgs...)
		case SeverityWarning:
			logger.Warn(e.Message, entryArgs...)
		default:
			logger.Info(e.Message, entryArgs...)
		}
	}
}
