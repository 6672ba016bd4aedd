// Package merchant derives canonical merchant keys from free-text transaction
// descriptions so that same-vendor rows group together despite formatting noise
// (store numbers, reference suffixes, separator characters).
package merchant

import "strings"

// maxTokens caps the key at the leading tokens; bank descriptions front-load
// the vendor name and trail off into reference noise.
const maxTokens = 3

// separators are characters banks use to glue reference noise onto the vendor
// name. Each becomes a token boundary.
const separators = "#*_-/\\."

// Key returns the canonical merchant key for a description: lowercased,
// separators replaced with spaces, digit-bearing reference tokens dropped,
// whitespace collapsed, truncated to the first three tokens.
//
// "AMAZON.COM*A1B2C3" and "AMAZON.COM*X9Y8Z7" both yield "amazon com".
// Short merchant names with meaningful numeric tokens can under- or over-merge;
// that is a documented limitation of the heuristic.
func Key(description string) string {
	s := strings.ToLower(description)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return ' '
		}
		return r
	}, s)

	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if strings.ContainsAny(tok, "0123456789") {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == maxTokens {
			break
		}
	}
	return strings.Join(kept, " ")
}
