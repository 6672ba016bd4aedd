package importer

import (
	"fmt"
	"io"
	"os"

	"github.com/clearspend-dev/clearspend/internal/model"
	"github.com/clearspend-dev/clearspend/internal/normalize"
)

// StatementParser parses checking or credit-card statement CSVs into
// normalized transactions.
type StatementParser struct {
	AccountType model.AccountType
	DatePolicy  normalize.DatePolicy
}

// Parse reads a statement CSV and returns normalized transactions. Malformed
// fields fail soft per the normalizer; only an unreadable stream errors.
func (p *StatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, fmt.Errorf("statement: %w", err)
	}

	var txs []model.Transaction
	for _, row := range rows {
		txs = append(txs, normalize.Row(row, p.AccountType, p.DatePolicy))
	}
	return txs, nil
}

// ParseFile reads a statement CSV from disk.
func (p *StatementParser) ParseFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement %s: %w", path, err)
	}
	defer f.Close()

	txs, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return txs, nil
}

// SavingsParser parses savings-activity CSVs.
type SavingsParser struct {
	DatePolicy normalize.DatePolicy
}

// Parse reads a savings activity CSV.
func (p *SavingsParser) Parse(r io.Reader) ([]model.SavingsActivity, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, fmt.Errorf("savings: %w", err)
	}

	var acts []model.SavingsActivity
	for _, row := range rows {
		acts = append(acts, normalize.SavingsRow(row, p.DatePolicy))
	}
	return acts, nil
}

// ParseFile reads a savings activity CSV from disk.
func (p *SavingsParser) ParseFile(path string) ([]model.SavingsActivity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening savings %s: %w", path, err)
	}
	defer f.Close()

	acts, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return acts, nil
}

// PositionsParser parses brokerage snapshot CSVs.
type PositionsParser struct{}

// Parse reads a brokerage snapshot CSV. Rows without a symbol (footer or
// disclaimer lines in brokerage exports) are skipped.
func (p *PositionsParser) Parse(r io.Reader) ([]model.Position, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var positions []model.Position
	for _, row := range rows {
		pos := normalize.PositionRow(row)
		if pos.Symbol == "" {
			continue
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// ParseFile reads a brokerage snapshot CSV from disk.
func (p *PositionsParser) ParseFile(path string) ([]model.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening positions %s: %w", path, err)
	}
	defer f.Close()

	positions, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return positions, nil
}
