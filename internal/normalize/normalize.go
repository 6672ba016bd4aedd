// Package normalize converts raw statement rows (column name to raw string)
// into canonical model types. Normalization is pure: the same row always yields
// the same output, and a malformed field never fails the row; bad numbers
// fall back to zero and bad dates follow the caller's DatePolicy.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend-dev/clearspend/internal/model"
)

// DatePolicy controls what happens when a row's date cannot be parsed.
type DatePolicy int

const (
	// PolicyCurrentDate substitutes the current date for an unparseable one.
	PolicyCurrentDate DatePolicy = iota
	// PolicyExcludeDate leaves the date zero; the transaction is excluded from
	// date-bucketed views.
	PolicyExcludeDate
)

// Statement column names as exported by the bank.
const (
	ColPostDate       = "Post Date"
	ColDescription    = "Description"
	ColClassification = "Classification"
	ColAccountNumber  = "Account Number"
	ColDebit          = "Debit"
	ColCredit         = "Credit"
	ColBalance        = "Balance"
	ColStatus         = "Status"
)

// Savings activity column names.
const (
	ColSavingsDate = "Transaction Date"
	ColSavingsType = "Type"
	ColAmount      = "Amount"
)

// Brokerage snapshot column names.
const (
	ColSymbol           = "Symbol"
	ColQuantity         = "Quantity"
	ColLastPrice        = "Last Price"
	ColCurrentValue     = "Current Value"
	ColTodayGainLoss    = "Today's Gain/Loss Dollar"
	ColTotalGainLoss    = "Total Gain/Loss Dollar"
	ColTotalGainLossPct = "Total Gain/Loss Percent"
	ColPercentOfAccount = "Percent Of Account"
	ColCostBasis        = "Cost Basis Total"
)

// dateLayouts are tried in order when parsing a raw date string.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"Jan 2, 2006",
}

// Row normalizes one statement row into a Transaction.
func Row(row map[string]string, accountType model.AccountType, policy DatePolicy) model.Transaction {
	category := strings.TrimSpace(row[ColClassification])
	if category == "" {
		category = model.CategoryUncategorized
	}

	return model.Transaction{
		Date:          Date(row[ColPostDate], policy),
		Description:   strings.TrimSpace(row[ColDescription]),
		Category:      category,
		AccountType:   accountType,
		AccountNumber: strings.TrimSpace(row[ColAccountNumber]),
		Debit:         Amount(row[ColDebit]),
		Credit:        Amount(row[ColCredit]),
		Balance:       Amount(row[ColBalance]),
		Status:        strings.TrimSpace(row[ColStatus]),
	}
}

// SavingsRow normalizes one savings activity row.
func SavingsRow(row map[string]string, policy DatePolicy) model.SavingsActivity {
	return model.SavingsActivity{
		Date:        Date(row[ColSavingsDate], policy),
		Description: strings.TrimSpace(row[ColDescription]),
		Type:        strings.TrimSpace(row[ColSavingsType]),
		Amount:      Amount(row[ColAmount]),
	}
}

// PositionRow normalizes one brokerage snapshot row.
func PositionRow(row map[string]string) model.Position {
	return model.Position{
		Symbol:           strings.TrimSpace(row[ColSymbol]),
		Description:      strings.TrimSpace(row[ColDescription]),
		Quantity:         Amount(row[ColQuantity]),
		LastPrice:        Amount(row[ColLastPrice]),
		CurrentValue:     Amount(row[ColCurrentValue]),
		TodayGainLoss:    Amount(row[ColTodayGainLoss]),
		TotalGainLoss:    Amount(row[ColTotalGainLoss]),
		TotalGainLossPct: Amount(row[ColTotalGainLossPct]),
		PercentOfAccount: Amount(row[ColPercentOfAccount]),
		CostBasis:        Amount(row[ColCostBasis]),
	}
}

// Amount parses a raw amount string, stripping currency symbols, percent
// signs, and thousands separators. Unparseable or absent values fail soft to
// zero; a single malformed field must not abort ingestion.
func Amount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '%', ',', '+':
			return -1
		}
		return r
	}, s)

	// Accounting-style negatives: (45.00) means -45.00.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date parses a raw date string, applying the row's DatePolicy on failure.
func Date(raw string, policy DatePolicy) time.Time {
	s := strings.TrimSpace(raw)
	if s != "" {
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d
			}
		}
	}

	if policy == PolicyCurrentDate {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
