package sections

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/periscan/periscan/internal/types"
)

const (
	// windowRadius is the number of bytes kept on each side of a keyword hit.
	windowRadius = 750
	// dedupDistance collapses candidates on the same page whose start
	// offsets fall within half the window radius of each other.
	dedupDistance = windowRadius / 2
	// maxCandidates caps the result per field.
	maxCandidates = 5

	titleBonus     = 3
	densityBonus   = 2
	densityMinKeys = 3
)

// Outline prefixes that mark a line as a section heading: "6.1", "6.1)",
// "Capitolo 4", "Art. 12", "Paragrafo 3".
var outlinePrefixRe = regexp.MustCompile(`(?i)^\s*(\d+(\.\d+)*[.)]?\s+\S|capitolo\b|art\.\s|paragrafo\b)`)

// Find scans every page for the field's keywords and returns scored,
// deduplicated section candidates, best first, capped to maxCandidates.
func Find(pages []types.PageText, field types.FieldType) []types.SectionCandidate {
	keywords := Keywords(field)
	var candidates []types.SectionCandidate

	for _, page := range pages {
		lower := strings.ToLower(page.Text)
		var pageStarts []int

		for _, kw := range keywords {
			for from := 0; ; {
				idx := strings.Index(lower[from:], kw)
				if idx < 0 {
					break
				}
				hit := from + idx
				from = hit + len(kw)

				start := clampRuneStart(page.Text, hit-windowRadius)
				end := clampRuneEnd(page.Text, hit+len(kw)+windowRadius)

				if tooClose(pageStarts, start) {
					continue
				}

				window := page.Text[start:end]
				matched := matchedKeywords(strings.ToLower(window), keywords)
				isTitle := titleLike(lineAround(page.Text, hit))

				score := len(matched)
				if isTitle {
					score += titleBonus
				}
				if len(matched) >= densityMinKeys {
					score += densityBonus
				}

				pageStarts = append(pageStarts, start)
				candidates = append(candidates, types.SectionCandidate{
					Text:            window,
					Page:            page.Page,
					StartOffset:     start,
					EndOffset:       end,
					MatchedKeywords: matched,
					IsTitle:         isTitle,
					Score:           score,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// matchedKeywords re-scans a window for every keyword of the field, not
// just the one that anchored it.
func matchedKeywords(lowerWindow string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lowerWindow, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// tooClose reports whether start falls within dedupDistance of a window
// already emitted for this page. First window wins.
func tooClose(starts []int, start int) bool {
	for _, s := range starts {
		d := start - s
		if d < 0 {
			d = -d
		}
		if d < dedupDistance {
			return true
		}
	}
	return false
}

// lineAround returns the full line of text containing byte offset pos.
func lineAround(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += pos
	}
	return text[start:end]
}

// titleLike applies the heading heuristic: an all-uppercase line, an
// outline/article prefix, or bold markup delimiters.
func titleLike(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 120 {
		return false
	}
	if strings.Contains(trimmed, "**") {
		return true
	}
	if outlinePrefixRe.MatchString(trimmed) {
		return true
	}
	return allUppercase(trimmed)
}

// allUppercase reports whether the line contains letters and none of
// them are lowercase.
func allUppercase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// clampRuneStart clamps pos into [0, len) and moves it forward to a
// UTF-8 rune boundary.
func clampRuneStart(text string, pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(text) {
		return len(text)
	}
	for pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos++
	}
	return pos
}

// clampRuneEnd clamps pos into [0, len] and moves it back to a rune
// boundary.
func clampRuneEnd(text string, pos int) int {
	if pos > len(text) {
		return len(text)
	}
	if pos < 0 {
		return 0
	}
	for pos > 0 && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
