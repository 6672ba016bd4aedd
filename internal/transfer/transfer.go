// Package transfer tags credit-card payment pairs so money moving between a
// user's own accounts is excluded from spend and income totals.
package transfer

import "github.com/clearspend-dev/clearspend/internal/model"

// windowDays is the inclusive, symmetric matching window around a payment date.
const windowDays = 3

// Detect scans the full normalized set and marks self-transfer pairs. For every
// credit-account transaction with a positive credit amount (a payment), the
// first checking-account debit of exactly equal amount within ±3 days that has
// not already matched is paired with it; both are marked. A transaction
// matches at most once.
//
// The first candidate in set order wins; ties on amount and window are not
// ranked by date closeness. Exact-amount equality means any rounding or fee
// difference between the statements defeats detection; that is accepted.
//
// The input slice is returned with IsTransfer updated in place.
func Detect(txs []model.Transaction) []model.Transaction {
	for i := range txs {
		payment := &txs[i]
		if payment.AccountType != model.AccountCredit || !payment.Credit.IsPositive() {
			continue
		}
		if payment.IsTransfer {
			continue
		}

		for j := range txs {
			candidate := &txs[j]
			if candidate.AccountType != model.AccountDebit || candidate.IsTransfer {
				continue
			}
			if !candidate.Debit.Equal(payment.Credit) {
				continue
			}
			if !withinWindow(payment, candidate) {
				continue
			}

			payment.IsTransfer = true
			candidate.IsTransfer = true
			break
		}
	}
	return txs
}

// Active returns only the non-transfer transactions.
func Active(txs []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txs {
		if !t.IsTransfer {
			out = append(out, t)
		}
	}
	return out
}

func withinWindow(a, b *model.Transaction) bool {
	// Dateless transactions never participate in matching.
	if !a.HasDate() || !b.HasDate() {
		return false
	}
	diff := a.Date.Sub(b.Date)
	if diff < 0 {
		diff = -diff
	}
	return diff.Hours() <= windowDays*24
}
