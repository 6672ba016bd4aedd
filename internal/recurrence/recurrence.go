// Package recurrence classifies recurring obligations: expense descriptions
// observed across multiple months with consistent amounts. It is a heuristic
// classifier; false positives and negatives are expected and acceptable.
package recurrence

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clearspend-dev/clearspend/internal/model"
)

// Frequency labels for candidates.
const (
	FrequencyMonthly   = "monthly"
	FrequencyTwoPlus   = "2+ months"
	monthlyMinMonths   = 3
	minDistinctMonths  = 2
	smallAmountLimit   = 5    // currency units; small charges may vary more
	maxVariation       = 0.25 // coefficient of variation ceiling above the small-amount limit
)

// Candidate is one detected recurring obligation.
type Candidate struct {
	Description string // latest-seen original description
	Category    string // latest-seen category
	MeanAmount  decimal.Decimal
	Frequency   string
	Months      int // distinct calendar months observed
	Occurrences int
}

// Detect groups active expense transactions by exact lowercased, trimmed
// description (finer than the merchant key), keeps groups seen in 2+ distinct
// months whose amounts are consistent, and returns candidates sorted by mean
// amount descending. A description matching one of keywords skips the
// consistency check but still needs 2 distinct months.
func Detect(txs []model.Transaction, keywords []string) []Candidate {
	type group struct {
		latest  model.Transaction
		amounts []decimal.Decimal
		months  map[string]bool
	}

	groups := make(map[string]*group)
	for _, t := range txs {
		if !t.IsExpense() || !t.HasDate() {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Description))
		g, ok := groups[key]
		if !ok {
			g = &group{months: make(map[string]bool)}
			groups[key] = g
		}
		g.amounts = append(g.amounts, t.Debit)
		g.months[t.MonthKey()] = true
		if t.Date.After(g.latest.Date) || g.latest.Date.IsZero() {
			g.latest = t
		}
	}

	var candidates []Candidate
	for key, g := range groups {
		if len(g.months) < minDistinctMonths {
			continue
		}

		mean := meanOf(g.amounts)
		if !matchesKeyword(key, keywords) && !consistent(mean, g.amounts) {
			continue
		}

		freq := FrequencyTwoPlus
		if len(g.months) >= monthlyMinMonths {
			freq = FrequencyMonthly
		}

		candidates = append(candidates, Candidate{
			Description: g.latest.Description,
			Category:    g.latest.Category,
			MeanAmount:  mean,
			Frequency:   freq,
			Months:      len(g.months),
			Occurrences: len(g.amounts),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].MeanAmount.Equal(candidates[j].MeanAmount) {
			return candidates[i].MeanAmount.GreaterThan(candidates[j].MeanAmount)
		}
		return candidates[i].Description < candidates[j].Description
	})
	return candidates
}

// consistent applies the amount-consistency rule: groups with a mean above the
// small-amount limit must keep their coefficient of variation at or below the
// ceiling; smaller charges are allowed to vary freely.
func consistent(mean decimal.Decimal, amounts []decimal.Decimal) bool {
	if mean.LessThanOrEqual(decimal.NewFromInt(smallAmountLimit)) {
		return true
	}

	m := mean.InexactFloat64()
	if m == 0 {
		return true
	}

	var sumSq float64
	for _, a := range amounts {
		d := a.InexactFloat64() - m
		sumSq += d * d
	}
	stdev := math.Sqrt(sumSq / float64(len(amounts))) // population stdev
	return stdev/m <= maxVariation
}

func meanOf(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum.Div(decimal.NewFromInt(int64(len(amounts))))
}

func matchesKeyword(loweredDesc string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(loweredDesc, kw) {
			return true
		}
	}
	return false
}
