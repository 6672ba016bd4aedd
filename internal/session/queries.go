package session

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clearspend-dev/clearspend/internal/budget"
	"github.com/clearspend-dev/clearspend/internal/merchant"
	"github.com/clearspend-dev/clearspend/internal/model"
	"github.com/clearspend-dev/clearspend/internal/recurrence"
)

// Filter narrows the transaction list. Zero values mean "no constraint".
type Filter struct {
	Month            string // "2006-01"
	AccountType      model.AccountType
	Category         string
	IncludeTransfers bool
}

// Transactions returns a copy of the current snapshot matching the filter,
// newest first.
func (s *Session) Transactions(f Filter) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Transaction
	for _, t := range s.txs {
		if !f.IncludeTransfers && t.IsTransfer {
			continue
		}
		if f.Month != "" && t.MonthKey() != f.Month {
			continue
		}
		if f.AccountType != "" && t.AccountType != f.AccountType {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Months lists every month present in the snapshot, newest first.
func (s *Session) Months() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, t := range s.txs {
		if t.HasDate() {
			seen[t.MonthKey()] = true
		}
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// MonthSummary is one month's income, spend, and net.
type MonthSummary struct {
	Month       string
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Net         decimal.Decimal
	SavingsRate float64 // net as a fraction of income; 0 when income is zero
}

// MonthlySummary totals income and expenses per month, transfers excluded,
// newest month first.
func (s *Session) MonthlySummary() []MonthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMonth := make(map[string]*MonthSummary)
	for _, t := range s.txs {
		if t.IsTransfer || !t.HasDate() {
			continue
		}
		key := t.MonthKey()
		ms, ok := byMonth[key]
		if !ok {
			ms = &MonthSummary{Month: key}
			byMonth[key] = ms
		}
		if t.IsExpense() {
			ms.Expenses = ms.Expenses.Add(t.Debit)
		}
		// any active credit counts, so a card refund shows up as income
		if t.IsIncome() {
			ms.Income = ms.Income.Add(t.Credit)
		}
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, ms := range byMonth {
		ms.Net = ms.Income.Sub(ms.Expenses)
		if ms.Income.IsPositive() {
			ms.SavingsRate = ms.Net.Div(ms.Income).InexactFloat64()
		}
		out = append(out, *ms)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// CategorySpend is one category's expense total.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// CategoryBreakdown totals expenses per category for one month, or across
// all months when month is empty. Sorted by total descending.
func (s *Session) CategoryBreakdown(month string) []CategorySpend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCat := make(map[string]*CategorySpend)
	for _, t := range s.txs {
		if !t.IsExpense() {
			continue
		}
		if month != "" && t.MonthKey() != month {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = model.CategoryUncategorized
		}
		cs, ok := byCat[cat]
		if !ok {
			cs = &CategorySpend{Category: cat}
			byCat[cat] = cs
		}
		cs.Total = cs.Total.Add(t.Debit)
		cs.Count++
	}

	out := make([]CategorySpend, 0, len(byCat))
	for _, cs := range byCat {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// AccountComparison splits expense spend between the checking and credit
// accounts.
type AccountComparison struct {
	DebitSpend    decimal.Decimal
	CreditSpend   decimal.Decimal
	Total         decimal.Decimal
	CreditPercent float64
}

// CompareAccounts totals expense spend per account type, transfers excluded.
func (s *Session) CompareAccounts() AccountComparison {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cmp AccountComparison
	for _, t := range s.txs {
		if !t.IsExpense() {
			continue
		}
		switch t.AccountType {
		case model.AccountDebit:
			cmp.DebitSpend = cmp.DebitSpend.Add(t.Debit)
		case model.AccountCredit:
			cmp.CreditSpend = cmp.CreditSpend.Add(t.Debit)
		}
	}
	cmp.Total = cmp.DebitSpend.Add(cmp.CreditSpend)
	if cmp.Total.IsPositive() {
		cmp.CreditPercent = cmp.CreditSpend.Div(cmp.Total).InexactFloat64()
	}
	return cmp
}

// MerchantSpend is one merchant's aggregate expense activity.
type MerchantSpend struct {
	Merchant string
	Total    decimal.Decimal
	Visits   int
	Average  decimal.Decimal
}

// TopMerchants returns the n merchants with the highest expense totals,
// grouped by fuzzy merchant key. n <= 0 returns all.
func (s *Session) TopMerchants(n int) []MerchantSpend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMerchant := make(map[string]*MerchantSpend)
	for _, t := range s.txs {
		if !t.IsExpense() {
			continue
		}
		key := merchant.Key(t.Description)
		if key == "" {
			continue
		}
		ms, ok := byMerchant[key]
		if !ok {
			ms = &MerchantSpend{Merchant: key}
			byMerchant[key] = ms
		}
		ms.Total = ms.Total.Add(t.Debit)
		ms.Visits++
	}

	out := make([]MerchantSpend, 0, len(byMerchant))
	for _, ms := range byMerchant {
		ms.Average = ms.Total.Div(decimal.NewFromInt(int64(ms.Visits)))
		out = append(out, *ms)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Merchant < out[j].Merchant
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Recurring runs recurrence detection over the current snapshot.
func (s *Session) Recurring() []recurrence.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recurrence.Detect(s.txs, s.cfg.RecurringKeywords)
}

// Budget builds the budget tree for one month from the current snapshot.
func (s *Session) Budget(month string) budget.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return budget.Aggregate(s.txs, s.cfg, month)
}

// Positions returns the most recent brokerage snapshot.
func (s *Session) Positions() []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Position(nil), s.positions...)
}

// PortfolioValue totals the current value of all positions.
func (s *Session) PortfolioValue() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total decimal.Decimal
	for _, p := range s.positions {
		total = total.Add(p.CurrentValue)
	}
	return total
}

// InterestPayments returns savings interest activity and its running total.
func (s *Session) InterestPayments() ([]model.SavingsActivity, decimal.Decimal) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		out   []model.SavingsActivity
		total decimal.Decimal
	)
	for _, a := range s.savings {
		if strings.Contains(strings.ToLower(a.Description), "interest") ||
			strings.Contains(strings.ToLower(a.Type), "interest") {
			out = append(out, a)
			total = total.Add(a.Amount)
		}
	}
	return out, total
}
