package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend-dev/clearspend/internal/model"
)

// Key identifies a transaction for reclassification lookup. Two transactions
// with identical date, description, debit, and credit produce the same key;
// that collision is accepted.
type Key string

const (
	dateFormat = "2006-01-02"
	separator  = "|"
	numParts   = 4
)

// ForTransaction returns the identity key for a transaction.
// Format: "2026-01-05|TRADER JOE'S|45.00|0.00". A dateless transaction uses an
// empty date part.
func ForTransaction(t model.Transaction) Key {
	return Format(t.Date, t.Description, t.Debit, t.Credit)
}

// Format builds an identity key from its four fields.
func Format(date time.Time, description string, debit, credit decimal.Decimal) Key {
	d := ""
	if !date.IsZero() {
		d = date.Format(dateFormat)
	}
	return Key(strings.Join([]string{
		d,
		description,
		debit.StringFixed(2),
		credit.StringFixed(2),
	}, separator))
}

// Parse splits a key back into its four fields. The description itself may
// contain the separator, so the date is taken from the front and the two
// amounts from the back.
func Parse(k Key) (date time.Time, description string, debit, credit decimal.Decimal, err error) {
	parts := strings.Split(string(k), separator)
	if len(parts) < numParts {
		return time.Time{}, "", decimal.Zero, decimal.Zero,
			fmt.Errorf("invalid identity key %q: expected %d fields", k, numParts)
	}

	if parts[0] != "" {
		date, err = time.Parse(dateFormat, parts[0])
		if err != nil {
			return time.Time{}, "", decimal.Zero, decimal.Zero,
				fmt.Errorf("invalid date in identity key %q: %w", k, err)
		}
	}

	last := len(parts) - 1
	credit, err = decimal.NewFromString(parts[last])
	if err != nil {
		return time.Time{}, "", decimal.Zero, decimal.Zero,
			fmt.Errorf("invalid credit in identity key %q: %w", k, err)
	}
	debit, err = decimal.NewFromString(parts[last-1])
	if err != nil {
		return time.Time{}, "", decimal.Zero, decimal.Zero,
			fmt.Errorf("invalid debit in identity key %q: %w", k, err)
	}

	description = strings.Join(parts[1:last-1], separator)
	return date, description, debit, credit, nil
}
