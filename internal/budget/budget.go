// Package budget computes the four-level monthly rollup (group, category,
// merchant, transaction) with computed-versus-budgeted amounts at the top two
// levels. Savings is residual income, never a sum of categories.
package budget

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend-dev/clearspend/internal/config"
	"github.com/clearspend-dev/clearspend/internal/identity"
	"github.com/clearspend-dev/clearspend/internal/merchant"
	"github.com/clearspend-dev/clearspend/internal/model"
)

// GroupUnassigned collects spend in categories that belong to no configured
// group. It carries no budget but must never vanish from total spend.
const GroupUnassigned = "unassigned"

// Tree is the four-level budget rollup for one month.
type Tree struct {
	Month      string // "YYYY-MM"
	Income     decimal.Decimal
	Groups     []GroupLine // needs, wants, then unassigned when nonzero
	Savings    SavingsLine
	TotalSpent decimal.Decimal
}

// GroupLine is level 1: a top-level budget bucket.
type GroupLine struct {
	Name            string
	Budget          decimal.Decimal // income × group ratio; zero for unassigned
	Actual          decimal.Decimal // sum of member category actuals
	Diff            decimal.Decimal // budget − actual; positive = under budget
	PercentOfIncome float64         // actual / income × 100; 0 when income is 0
	Categories      []CategoryLine
}

// CategoryLine is level 2.
type CategoryLine struct {
	Name            string
	Budget          decimal.Decimal // fixed override or even split of group budget
	Actual          decimal.Decimal
	Diff            decimal.Decimal
	PercentOfIncome float64
	Merchants       []MerchantLine
}

// MerchantLine is level 3: informational only, no budget figure.
type MerchantLine struct {
	Key          string
	Actual       decimal.Decimal
	Transactions []TransactionLine
}

// TransactionLine is level 4: one transaction, exposing its identity key for
// reclassification.
type TransactionLine struct {
	Key         identity.Key
	Date        time.Time
	Description string
	Category    string
	Amount      decimal.Decimal
}

// SavingsLine is the residual savings row.
type SavingsLine struct {
	Budget decimal.Decimal // income × savings ratio
	Actual decimal.Decimal // max(0, income − totalSpent); never negative
	Diff   decimal.Decimal // budget − actual
}

// Aggregate builds the budget tree for the given "YYYY-MM" month from active
// transactions. Transfers are excluded; income zero degrades all
// percentage-of-income figures to zero.
func Aggregate(txs []model.Transaction, cfg *config.Config, month string) Tree {
	income := DetectIncome(txs, cfg, month)

	expenses := monthExpenses(txs, month)

	// The housing rule may claim transactions by description keyword; claimed
	// rows must not double-count under their label category.
	housingActive := housingRuleActive(cfg)
	housingActual, housingTxs, rest := applyHousingRule(expenses, cfg)

	byCategory := make(map[string][]model.Transaction)
	for _, t := range rest {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	needsBudget := ratioAmount(income, cfg.Ratio(config.RatioHousing)+cfg.Ratio(config.RatioOtherNeeds))
	wantsBudget := ratioAmount(income, cfg.Ratio(config.RatioWants))

	groups := []GroupLine{
		buildGroup(config.GroupNeeds, needsBudget, cfg, byCategory, income, housingActive, housingActual, housingTxs),
		buildGroup(config.GroupWants, wantsBudget, cfg, byCategory, income, false, decimal.Zero, nil),
	}

	if unassigned := buildUnassigned(cfg, byCategory, income); len(unassigned.Categories) > 0 {
		groups = append(groups, unassigned)
	}

	totalSpent := decimal.Zero
	for _, g := range groups {
		totalSpent = totalSpent.Add(g.Actual)
	}

	savingsBudget := ratioAmount(income, cfg.Ratio(config.RatioSavings))
	savingsActual := income.Sub(totalSpent)
	if savingsActual.IsNegative() {
		savingsActual = decimal.Zero
	}

	return Tree{
		Month:      month,
		Income:     income,
		Groups:     groups,
		TotalSpent: totalSpent,
		Savings: SavingsLine{
			Budget: savingsBudget,
			Actual: savingsActual,
			Diff:   savingsBudget.Sub(savingsActual),
		},
	}
}

// DetectIncome returns the monthly income figure: the configured override when
// positive, else the sum of checking-account credits in the month whose
// description contains the income keyword, else the sum of all active credits
// in the month.
func DetectIncome(txs []model.Transaction, cfg *config.Config, month string) decimal.Decimal {
	if cfg.Income.Override > 0 {
		return decimal.NewFromFloat(cfg.Income.Override)
	}

	keyword := strings.ToLower(strings.TrimSpace(cfg.Income.Keyword))
	sum := decimal.Zero
	for _, t := range txs {
		if !t.IsIncome() || t.MonthKey() != month {
			continue
		}
		if keyword != "" {
			if t.AccountType != model.AccountDebit {
				continue
			}
			if !strings.Contains(strings.ToLower(t.Description), keyword) {
				continue
			}
		}
		sum = sum.Add(t.Credit)
	}
	return sum
}

func monthExpenses(txs []model.Transaction, month string) []model.Transaction {
	var out []model.Transaction
	for _, t := range txs {
		if t.IsExpense() && t.MonthKey() == month {
			out = append(out, t)
		}
	}
	return out
}

// housingRuleActive reports whether housing actuals are derived by keyword or
// fixed amount instead of ordinary category-label aggregation.
func housingRuleActive(cfg *config.Config) bool {
	return cfg.Housing.Category != "" && (cfg.Housing.Keyword != "" || cfg.Housing.FixedAmount > 0)
}

// applyHousingRule derives the housing category's actual amount. When a
// housing keyword is configured, transactions whose description contains it
// are claimed for housing regardless of label; with no keyword match the
// configured fixed amount is used. Label-housing rows are claimed either way
// so they never count under another bucket. Returns zero and the untouched
// set when the rule is not configured.
func applyHousingRule(expenses []model.Transaction, cfg *config.Config) (decimal.Decimal, []model.Transaction, []model.Transaction) {
	if !housingRuleActive(cfg) {
		return decimal.Zero, nil, expenses
	}

	keyword := strings.ToLower(strings.TrimSpace(cfg.Housing.Keyword))
	var claimed, rest []model.Transaction
	matched := decimal.Zero
	hasMatch := false

	for _, t := range expenses {
		byKeyword := keyword != "" && strings.Contains(strings.ToLower(t.Description), keyword)
		if byKeyword || t.Category == cfg.Housing.Category {
			claimed = append(claimed, t)
			if byKeyword {
				matched = matched.Add(t.Debit)
				hasMatch = true
			}
		} else {
			rest = append(rest, t)
		}
	}

	if hasMatch {
		return matched, claimed, rest
	}
	return decimal.NewFromFloat(cfg.Housing.FixedAmount), claimed, rest
}

func buildGroup(name string, budget decimal.Decimal, cfg *config.Config, byCategory map[string][]model.Transaction, income decimal.Decimal, housingActive bool, housingActual decimal.Decimal, housingTxs []model.Transaction) GroupLine {
	members := cfg.Groups[name]

	var categories []CategoryLine
	actual := decimal.Zero
	for _, cat := range members {
		line := buildCategory(cat, budget, len(members), cfg, byCategory[cat], income)

		if housingActive && cat == cfg.Housing.Category {
			line.Actual = housingActual
			line.Diff = line.Budget.Sub(line.Actual)
			line.PercentOfIncome = percentOf(line.Actual, income)
			line.Merchants = merchantLines(housingTxs)
		}

		actual = actual.Add(line.Actual)
		categories = append(categories, line)
	}

	return GroupLine{
		Name:            name,
		Budget:          budget,
		Actual:          actual,
		Diff:            budget.Sub(actual),
		PercentOfIncome: percentOf(actual, income),
		Categories:      categories,
	}
}

func buildCategory(name string, groupBudget decimal.Decimal, memberCount int, cfg *config.Config, txs []model.Transaction, income decimal.Decimal) CategoryLine {
	var budget decimal.Decimal
	if fixed, ok := cfg.FixedAmounts[name]; ok {
		budget = decimal.NewFromFloat(fixed)
	} else if memberCount > 0 {
		budget = groupBudget.Div(decimal.NewFromInt(int64(memberCount)))
	}

	actual := decimal.Zero
	for _, t := range txs {
		actual = actual.Add(t.Debit)
	}

	return CategoryLine{
		Name:            name,
		Budget:          budget,
		Actual:          actual,
		Diff:            budget.Sub(actual),
		PercentOfIncome: percentOf(actual, income),
		Merchants:       merchantLines(txs),
	}
}

func buildUnassigned(cfg *config.Config, byCategory map[string][]model.Transaction, income decimal.Decimal) GroupLine {
	var names []string
	for cat := range byCategory {
		if _, ok := cfg.GroupFor(cat); !ok {
			names = append(names, cat)
		}
	}
	sort.Strings(names)

	var categories []CategoryLine
	actual := decimal.Zero
	for _, cat := range names {
		line := buildCategory(cat, decimal.Zero, 0, cfg, byCategory[cat], income)
		actual = actual.Add(line.Actual)
		categories = append(categories, line)
	}

	return GroupLine{
		Name:            GroupUnassigned,
		Actual:          actual,
		Diff:            actual.Neg(),
		PercentOfIncome: percentOf(actual, income),
		Categories:      categories,
	}
}

// merchantLines groups transactions by merchant key, sorted by amount
// descending.
func merchantLines(txs []model.Transaction) []MerchantLine {
	byKey := make(map[string][]model.Transaction)
	for _, t := range txs {
		key := merchant.Key(t.Description)
		byKey[key] = append(byKey[key], t)
	}

	var lines []MerchantLine
	for key, group := range byKey {
		line := MerchantLine{Key: key}
		for _, t := range group {
			line.Actual = line.Actual.Add(t.Debit)
			line.Transactions = append(line.Transactions, TransactionLine{
				Key:         identity.ForTransaction(t),
				Date:        t.Date,
				Description: t.Description,
				Category:    t.Category,
				Amount:      t.Debit,
			})
		}
		sort.Slice(line.Transactions, func(i, j int) bool {
			return line.Transactions[i].Date.After(line.Transactions[j].Date)
		})
		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].Actual.Equal(lines[j].Actual) {
			return lines[i].Actual.GreaterThan(lines[j].Actual)
		}
		return lines[i].Key < lines[j].Key
	})
	return lines
}

func ratioAmount(income decimal.Decimal, ratio float64) decimal.Decimal {
	return income.Mul(decimal.NewFromFloat(ratio))
}

func percentOf(amount, income decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return amount.Div(income).InexactFloat64() * 100
}
