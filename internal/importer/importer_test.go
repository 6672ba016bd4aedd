package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend-dev/clearspend/internal/model"
	"github.com/clearspend-dev/clearspend/internal/normalize"
)

func TestStatementParser_Checking(t *testing.T) {
	data, err := os.ReadFile("../../testdata/checking_2026-01.csv")
	require.NoError(t, err)

	p := &StatementParser{AccountType: model.AccountDebit, DatePolicy: normalize.PolicyExcludeDate}
	txs, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, txs, 6)

	first := txs[0]
	assert.Equal(t, "TRADER JOE'S #510", first.Description)
	assert.Equal(t, "Groceries", first.Category)
	assert.Equal(t, model.AccountDebit, first.AccountType)
	assert.Equal(t, "45.00", first.Debit.StringFixed(2))
	assert.Equal(t, "47399.19", first.Balance.StringFixed(2))
	assert.Equal(t, 2026, first.Date.Year())

	// Blank classification defaults.
	assert.Equal(t, model.CategoryUncategorized, txs[2].Category)

	// Payroll rows are credits.
	assert.Equal(t, "2500.00", txs[3].Credit.StringFixed(2))
	assert.True(t, txs[3].Debit.IsZero())
}

func TestStatementParser_Credit(t *testing.T) {
	data, err := os.ReadFile("../../testdata/credit_2026-01.csv")
	require.NoError(t, err)

	p := &StatementParser{AccountType: model.AccountCredit, DatePolicy: normalize.PolicyExcludeDate}
	txs, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, model.AccountCredit, txs[0].AccountType)
	assert.Equal(t, "500.00", txs[2].Credit.StringFixed(2))
}

func TestStatementParser_MalformedRowDoesNotAbort(t *testing.T) {
	csv := "Post Date,Description,Debit,Credit,Balance,Classification\n" +
		"1/5/2026,GOOD ROW,10.00,,100.00,Groceries\n" +
		"NOTADATE,BAD DATE ROW,garbage,,,\n" +
		"1/6/2026,ANOTHER GOOD ROW,20.00,,80.00,Dining\n"

	p := &StatementParser{AccountType: model.AccountDebit, DatePolicy: normalize.PolicyExcludeDate}
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.False(t, txs[1].HasDate())
	assert.True(t, txs[1].Debit.IsZero())
	assert.Equal(t, "20.00", txs[2].Debit.StringFixed(2))
}

func TestStatementParser_BareQuoteRowDoesNotAbort(t *testing.T) {
	csv := "Post Date,Description,Debit,Credit,Balance,Classification\n" +
		"1/5/2026,GOOD ROW,10.00,,100.00,Groceries\n" +
		"1/6/2026,24\" MONITOR STAND,89.00,,11.00,Shopping\n" +
		"1/7/2026,ANOTHER GOOD ROW,20.00,,-9.00,Dining\n"

	p := &StatementParser{AccountType: model.AccountDebit, DatePolicy: normalize.PolicyExcludeDate}
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "24\" MONITOR STAND", txs[1].Description)
	assert.Equal(t, "89.00", txs[1].Debit.StringFixed(2))
	assert.Equal(t, "20.00", txs[2].Debit.StringFixed(2))
}

func TestStatementParser_EmptyFile(t *testing.T) {
	p := &StatementParser{AccountType: model.AccountDebit}
	txs, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestSavingsParser(t *testing.T) {
	data, err := os.ReadFile("../../testdata/savings_2026-01.csv")
	require.NoError(t, err)

	p := &SavingsParser{DatePolicy: normalize.PolicyExcludeDate}
	acts, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "Interest", acts[0].Type)
	assert.Equal(t, "12.41", acts[0].Amount.StringFixed(2))
}

func TestPositionsParser(t *testing.T) {
	data, err := os.ReadFile("../../testdata/positions_2026-01-31.csv")
	require.NoError(t, err)

	p := &PositionsParser{}
	positions, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	// Footer row without a symbol is skipped.
	require.Len(t, positions, 2)
	assert.Equal(t, "VTI", positions[0].Symbol)
	assert.Equal(t, "30125.00", positions[0].CurrentValue.StringFixed(2))
	assert.Equal(t, "-312.50", positions[1].TotalGainLoss.StringFixed(2))
}

func TestScanClassifiesByPrefix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"checking_2026-01.csv", "credit_2026-01.csv",
		"savings_2026-01.csv", "positions_2026-01-31.csv",
		"notes.txt", "random.csv",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a,b\n"), 0o644))
	}

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	kinds := make(map[Kind]int)
	for _, f := range files {
		kinds[f.Kind]++
	}
	assert.Equal(t, 1, kinds[KindChecking])
	assert.Equal(t, 1, kinds[KindCredit])
	assert.Equal(t, 1, kinds[KindSavings])
	assert.Equal(t, 1, kinds[KindPositions])
}

func TestScanMissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestLatestPositions(t *testing.T) {
	files := []FileInfo{
		{Name: "positions_2026-01-31.csv", Kind: KindPositions},
		{Name: "positions_2026-02-28.csv", Kind: KindPositions},
		{Name: "checking_2026-03.csv", Kind: KindChecking},
	}

	latest, ok := LatestPositions(files)
	require.True(t, ok)
	assert.Equal(t, "positions_2026-02-28.csv", latest.Name)

	_, ok = LatestPositions(files[2:])
	assert.False(t, ok)
}
