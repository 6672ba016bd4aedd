package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one brokerage holding. Positions are replaced wholesale on each
// reload from the most recent snapshot file; they are never merged across loads.
type Position struct {
	Symbol           string
	Description      string
	Quantity         decimal.Decimal
	LastPrice        decimal.Decimal
	CurrentValue     decimal.Decimal
	TodayGainLoss    decimal.Decimal
	TotalGainLoss    decimal.Decimal
	TotalGainLossPct decimal.Decimal
	PercentOfAccount decimal.Decimal
	CostBasis        decimal.Decimal
}

// SavingsActivity is one savings-account activity row. Type is free text; rows
// whose Type contains "interest" (case-insensitive) count as interest payments.
type SavingsActivity struct {
	Date        time.Time
	Description string
	Type        string
	Amount      decimal.Decimal
}
