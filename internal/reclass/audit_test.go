package reclass

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend-dev/clearspend/internal/identity"
)

func TestAuditAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reclass-log.csv")

	e1 := AuditEntry{
		Timestamp:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Key:          identity.Key("2026-01-05|TRADER JOE'S|45.00|0.00"),
		FromCategory: "Shopping",
		ToCategory:   "Groceries",
	}
	require.NoError(t, AppendAudit(path, []AuditEntry{e1}))

	e2 := AuditEntry{
		Timestamp:    time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Key:          identity.Key("2026-01-12|CVS PHARMACY #1234|25.34|0.00"),
		FromCategory: "Uncategorized",
		ToCategory:   "Pharmacy",
	}
	require.NoError(t, AppendAudit(path, []AuditEntry{e2}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), AuditHeader))
	// Header written once despite two appends.
	assert.Equal(t, 1, strings.Count(string(data), AuditHeader))

	entries, err := ReadAudit(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, e1.Key, entries[0].Key)
	assert.Equal(t, "Groceries", entries[0].ToCategory)
	assert.True(t, e2.Timestamp.Equal(entries[1].Timestamp))
}

func TestAuditReadEmpty(t *testing.T) {
	entries, err := ReadAudit(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestAuditBadTimestamp(t *testing.T) {
	csv := AuditHeader + "\nnot-a-time,k,a,b\n"
	_, err := ReadAudit(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing timestamp")
}
