package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend-dev/clearspend/internal/config"
	"github.com/clearspend-dev/clearspend/internal/identity"
	"github.com/clearspend-dev/clearspend/internal/importer"
	"github.com/clearspend-dev/clearspend/internal/log"
	"github.com/clearspend-dev/clearspend/internal/model"
	"github.com/clearspend-dev/clearspend/internal/reclass"
)

func testLogger() *log.Logger {
	return log.New(slog.LevelError, log.ComponentSession)
}

func testSources() Sources {
	return Sources{
		Checking:  []string{"../../testdata/checking_2026-01.csv"},
		Credit:    []string{"../../testdata/credit_2026-01.csv"},
		Savings:   []string{"../../testdata/savings_2026-01.csv"},
		Positions: []string{"../../testdata/positions_2026-01-31.csv"},
	}
}

func loadedSession(t *testing.T, store reclass.Store, opts ...Option) *Session {
	t.Helper()
	s := New(config.Default(), store, testLogger(), opts...)
	require.NoError(t, s.Reload(context.Background(), testSources()))
	return s
}

func TestReloadCombinesAllSources(t *testing.T) {
	s := loadedSession(t, reclass.NewMemoryStore())

	txs := s.Transactions(Filter{IncludeTransfers: true})
	assert.Len(t, txs, 10)
	assert.Len(t, s.Positions(), 2)
	assert.Equal(t, []string{"2026-01"}, s.Months())
}

func TestReloadMarksTransfers(t *testing.T) {
	s := loadedSession(t, reclass.NewMemoryStore())

	var transfers []model.Transaction
	for _, tx := range s.Transactions(Filter{IncludeTransfers: true}) {
		if tx.IsTransfer {
			transfers = append(transfers, tx)
		}
	}
	require.Len(t, transfers, 2)
	for _, tx := range transfers {
		assert.True(t, tx.Debit.Add(tx.Credit).Equal(decimalFromString(t, "500.00")))
	}

	// the default filter hides them
	assert.Len(t, s.Transactions(Filter{}), 8)
}

func TestReloadAppliesStoredOverrides(t *testing.T) {
	store := reclass.NewMemoryStore()
	key := identity.Key("2026-01-28|CVS PHARMACY #1234|25.34|0.00")
	require.NoError(t, store.Set(context.Background(), key, "Health"))

	s := loadedSession(t, store)

	matched := s.Transactions(Filter{Category: "Health"})
	require.Len(t, matched, 1)
	assert.Equal(t, "CVS PHARMACY #1234", matched[0].Description)
}

func TestReloadStableTransferPairingAcrossFiles(t *testing.T) {
	header := "Account Number,Post Date,Check,Description,Debit,Credit,Status,Balance,Classification\n"
	dir := t.TempDir()

	writeStatement := func(name, rows string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(header+rows), 0o644))
		return path
	}

	// Two equal-amount checking debits in separate files sit inside the same
	// credit payment's window. The debit from the first file in name order
	// must win the pairing on every reload.
	checkingA := writeStatement("checking_2026-01.csv",
		"S09,1/10/2026,,ONLINE PAYMENT A,500.00,,Posted,100.00,\n")
	checkingB := writeStatement("checking_2026-02.csv",
		"S09,1/11/2026,,ONLINE PAYMENT B,500.00,,Posted,100.00,\n")
	credit := writeStatement("credit_2026-01.csv",
		"C41,1/12/2026,,PAYMENT THANK YOU,,500.00,Posted,0.00,\n")

	src := Sources{
		Checking: []string{checkingA, checkingB},
		Credit:   []string{credit},
	}

	s := New(config.Default(), reclass.NewMemoryStore(), testLogger())
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Reload(context.Background(), src))

		byDesc := make(map[string]model.Transaction)
		for _, tx := range s.Transactions(Filter{IncludeTransfers: true}) {
			byDesc[tx.Description] = tx
		}
		assert.True(t, byDesc["ONLINE PAYMENT A"].IsTransfer)
		assert.False(t, byDesc["ONLINE PAYMENT B"].IsTransfer)
		assert.True(t, byDesc["PAYMENT THANK YOU"].IsTransfer)
	}
}

func TestReloadSupersededIsDiscarded(t *testing.T) {
	s := loadedSession(t, reclass.NewMemoryStore())

	// A reload begins, then a newer one starts and finishes before the first
	// can commit. The stale commit must be refused and the snapshot kept.
	stale := s.beginReload()
	require.NoError(t, s.Reload(context.Background(), testSources()))

	committed := s.commit(stale, nil, nil, nil)
	assert.False(t, committed)
	assert.Len(t, s.Transactions(Filter{IncludeTransfers: true}), 10)
}

func TestReloadConcurrentEndsConsistent(t *testing.T) {
	s := New(config.Default(), reclass.NewMemoryStore(), testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Reload(context.Background(), testSources()))
		}()
	}
	wg.Wait()

	assert.Len(t, s.Transactions(Filter{IncludeTransfers: true}), 10)
}

func TestReloadNoData(t *testing.T) {
	s := New(config.Default(), reclass.NewMemoryStore(), testLogger())
	err := s.Reload(context.Background(), Sources{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestReloadMissingFile(t *testing.T) {
	s := New(config.Default(), reclass.NewMemoryStore(), testLogger())
	err := s.Reload(context.Background(), Sources{Checking: []string{"no-such-file.csv"}})
	assert.Error(t, err)
}

func TestSetOverrideUpdatesSnapshotAndStore(t *testing.T) {
	store := reclass.NewMemoryStore()
	auditPath := filepath.Join(t.TempDir(), "reclass-log.csv")
	s := loadedSession(t, store, WithAuditLog(auditPath))

	key := identity.Key("2026-01-28|CVS PHARMACY #1234|25.34|0.00")
	require.NoError(t, s.SetOverride(context.Background(), key, "Health"))

	matched := s.Transactions(Filter{Category: "Health"})
	require.Len(t, matched, 1)

	stored, ok, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Health", stored)

	f, err := os.Open(auditPath)
	require.NoError(t, err)
	defer f.Close()
	entries, err := reclass.ReadAudit(f)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, key, entries[0].Key)
	assert.Equal(t, "Pharmacy", entries[0].FromCategory)
	assert.Equal(t, "Health", entries[0].ToCategory)
}

func TestSetOverrideIdempotent(t *testing.T) {
	store := reclass.NewMemoryStore()
	s := loadedSession(t, store)

	key := identity.Key("2026-01-28|CVS PHARMACY #1234|25.34|0.00")
	require.NoError(t, s.SetOverride(context.Background(), key, "Health"))
	require.NoError(t, s.SetOverride(context.Background(), key, "Health"))

	assert.Len(t, s.Transactions(Filter{Category: "Health"}), 1)
}

func TestFromScan(t *testing.T) {
	files, err := importer.Scan("../../testdata")
	require.NoError(t, err)

	src := FromScan(files)
	assert.Len(t, src.Checking, 1)
	assert.Len(t, src.Credit, 1)
	assert.Len(t, src.Savings, 1)
	require.Len(t, src.Positions, 1)
	assert.Contains(t, src.Positions[0], "positions_2026-01-31.csv")
}
