package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the two statement sources a Transaction can come from.
type AccountType string

const (
	AccountDebit  AccountType = "debit"  // checking account
	AccountCredit AccountType = "credit" // credit card account
)

// CategoryUncategorized is assigned when the source classification field is blank.
const CategoryUncategorized = "Uncategorized"

// Transaction is one normalized statement row. Immutable after normalization
// except for Category (reclassification) and IsTransfer (transfer detection).
type Transaction struct {
	Date          time.Time // zero when unparseable under PolicyExcludeDate
	Description   string
	Category      string
	AccountType   AccountType
	AccountNumber string
	Debit         decimal.Decimal // zero if the row is a credit
	Credit        decimal.Decimal // zero if the row is a debit
	Balance       decimal.Decimal
	Status        string
	IsTransfer    bool
}

// HasDate reports whether the transaction carries a usable calendar date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// MonthKey returns the "YYYY-MM" bucket for the transaction, or "" when dateless.
func (t Transaction) MonthKey() string {
	if !t.HasDate() {
		return ""
	}
	return t.Date.Format("2006-01")
}

// IsExpense reports whether the transaction is an active (non-transfer) debit.
func (t Transaction) IsExpense() bool {
	return !t.IsTransfer && t.Debit.IsPositive()
}

// IsIncome reports whether the transaction is an active (non-transfer) credit.
func (t Transaction) IsIncome() bool {
	return !t.IsTransfer && t.Credit.IsPositive()
}
