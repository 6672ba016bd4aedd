package reclass

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/clearspend-dev/clearspend/internal/identity"
)

// AuditEntry is one row in the reclassification audit log.
type AuditEntry struct {
	Timestamp    time.Time
	Key          identity.Key
	FromCategory string
	ToCategory   string
}

// AuditHeader is the CSV header for the reclassification log.
const AuditHeader = "timestamp,identity_key,from_category,to_category"

const (
	auditNumFields = 4
	auditColTime   = 0
	auditColKey    = 1
	auditColFrom   = 2
	auditColTo     = 3
)

// MarshalAuditEntry converts an AuditEntry to a CSV row.
func MarshalAuditEntry(e AuditEntry) []string {
	row := make([]string, auditNumFields)
	row[auditColTime] = e.Timestamp.Format(time.RFC3339)
	row[auditColKey] = string(e.Key)
	row[auditColFrom] = e.FromCategory
	row[auditColTo] = e.ToCategory
	return row
}

// UnmarshalAuditEntry converts a CSV row to an AuditEntry.
func UnmarshalAuditEntry(record []string) (AuditEntry, error) {
	if len(record) != auditNumFields {
		return AuditEntry{}, fmt.Errorf("expected %d fields, got %d", auditNumFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[auditColTime])
	if err != nil {
		return AuditEntry{}, fmt.Errorf("parsing timestamp %q: %w", record[auditColTime], err)
	}

	return AuditEntry{
		Timestamp:    ts,
		Key:          identity.Key(record[auditColKey]),
		FromCategory: record[auditColFrom],
		ToCategory:   record[auditColTo],
	}, nil
}

// AppendAudit writes entries to the audit log at path, creating the file and
// header if needed.
func AppendAudit(path string, entries []AuditEntry) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating audit log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if needsHeader {
		if _, err := fmt.Fprintln(f, AuditHeader); err != nil {
			return fmt.Errorf("writing audit header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	defer cw.Flush()
	for _, e := range entries {
		if err := cw.Write(MarshalAuditEntry(e)); err != nil {
			return fmt.Errorf("writing audit entry: %w", err)
		}
	}
	return cw.Error()
}

// ReadAudit reads all audit entries from r (header expected).
func ReadAudit(r io.Reader) ([]AuditEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = auditNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []AuditEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalAuditEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
