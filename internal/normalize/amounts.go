// Package normalize provides pure extractors for monetary amounts and
// dates written in Italian documents. Both extractors are deterministic
// and depend only on their input text.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ExtractedAmount is a monetary amount found in text.
// Value is always > 0: matches that normalize to zero are dropped.
type ExtractedAmount struct {
	Raw        string  `json:"raw"`
	Value      float64 `json:"value"`
	StartIndex int     `json:"start_index"`
}

// Amount patterns, tried in order. Later families only contribute matches
// whose spans do not overlap an earlier match.
var amountPatterns = []*regexp.Regexp{
	// Currency symbol prefixed: "€ 123.456,78"
	regexp.MustCompile(`€\s*(\d{1,3}(?:[.\s]\d{3})*(?:,\d{1,2})?|\d+(?:[.,]\d{1,2})?)`),
	// Currency symbol suffixed: "123.456,78 €"
	regexp.MustCompile(`(\d{1,3}(?:[.\s]\d{3})*(?:,\d{1,2})?|\d+(?:[.,]\d{1,2})?)\s*€`),
	// Keyword adjacent: "euro 123.456,78", "Eur. 5000"
	regexp.MustCompile(`(?i)\b(?:euro|eur)\.?\s*(\d{1,3}(?:[.\s]\d{3})*(?:,\d{1,2})?|\d+(?:[.,]\d{1,2})?)`),
	// Bare dot-grouped numbers: "300.000". Known over-match risk on
	// non-monetary figures (paragraph numbers); kept unguarded to match
	// how these documents are actually written.
	regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?\b`),
}

// ExtractAmounts scans text for monetary amounts in Italian and English
// number conventions. Results are deduplicated by span overlap and sorted
// by position.
func ExtractAmounts(text string) []ExtractedAmount {
	type span struct{ start, end int }
	var taken []span

	overlaps := func(start, end int) bool {
		for _, s := range taken {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	var out []ExtractedAmount
	for i, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			// Group 1 holds the numeric part for the first three families;
			// the bare pattern has no groups.
			gs, ge := m[0], m[1]
			if i < 3 {
				gs, ge = m[2], m[3]
			}
			if overlaps(gs, ge) {
				continue
			}
			raw := text[gs:ge]
			value, ok := NormalizeAmount(raw)
			if !ok || value <= 0 {
				continue
			}
			taken = append(taken, span{gs, ge})
			out = append(out, ExtractedAmount{
				Raw:        raw,
				Value:      value,
				StartIndex: gs,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartIndex < out[j].StartIndex })
	return out
}

// NormalizeAmount parses a numeric string in either Italian
// ("123.456,78") or English ("123,456.78") convention into a float.
//
// The rightmost separator decides: a rightmost comma is the decimal mark
// (dots group thousands); a rightmost dot followed by exactly three digits
// is a thousands separator ("300.000" => 300000); any other rightmost dot
// is the decimal mark (commas group thousands).
func NormalizeAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma > lastDot:
		// Italian convention: dots are thousands, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma:
		if len(s)-lastDot-1 == 3 {
			// "300.000" style grouping.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// English convention: commas are thousands, dot is decimal.
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
