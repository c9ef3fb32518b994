package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ExtractedDate is a date found in text, normalized to ISO-8601.
// The month is always validated to the [1,12] range.
type ExtractedDate struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"` // yyyy-mm-dd
	StartIndex int    `json:"start_index"`
}

// Italian month names, 1-indexed via position+1.
var monthNames = []string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

var (
	// "12/03/2021", "12-03-2021", "12.03.2021"
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`)
	// "12 marzo 2021", "1° gennaio 2020"
	textualDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})°?\s+(` + strings.Join(monthNames, "|") + `)\s+(\d{4})\b`)
)

// ExtractDates scans text for numeric (dd/mm/yyyy) and Italian textual
// ("12 marzo 2021") dates. Matches from both forms are merged and sorted
// by position.
func ExtractDates(text string) []ExtractedDate {
	var out []ExtractedDate

	for _, m := range numericDateRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		month, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		if iso, ok := isoDate(year, month, day); ok {
			out = append(out, ExtractedDate{Raw: raw, Normalized: iso, StartIndex: m[0]})
		}
	}

	for _, m := range textualDateRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		month := monthNumber(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		if iso, ok := isoDate(year, month, day); ok {
			out = append(out, ExtractedDate{Raw: raw, Normalized: iso, StartIndex: m[0]})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartIndex < out[j].StartIndex })
	return out
}

// monthNumber returns the 1-indexed month for an Italian month name,
// or 0 if the name is unknown.
func monthNumber(name string) int {
	name = strings.ToLower(name)
	for i, m := range monthNames {
		if m == name {
			return i + 1
		}
	}
	return 0
}

func isoDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 {
		return "", false
	}
	if day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
