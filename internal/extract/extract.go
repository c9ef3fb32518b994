// Package extract derives the four perizia domain fields from parsed
// page text, and hosts the document analysis pipeline that feeds it.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/periscan/periscan/internal/types"
)

// snippetLen bounds citation snippets.
const snippetLen = 160

// notFound builds the canonical sentinel result for a field with zero
// section candidates. It always carries exactly one confidence-zero
// candidate whose reason tells a human where to look.
func notFound[T any](field types.FieldType, hints ...string) types.FieldResult[T] {
	reason := fmt.Sprintf(
		"nessuna sezione trovata per %q: cercare manualmente in %s",
		field, strings.Join(hints, ", "),
	)
	return types.FieldResult[T]{
		Status:     types.StatusNotFound,
		Confidence: 0,
		Candidates: []types.Candidate[T]{{
			Confidence: 0,
			Reason:     reason,
		}},
	}
}

// finalize sorts candidates by confidence and lifts the best
// candidate's confidence and citations to the field level.
func finalize[T any](candidates []types.Candidate[T]) types.FieldResult[T] {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return types.FieldResult[T]{
		Status:     types.StatusFound,
		Confidence: candidates[0].Confidence,
		Citations:  candidates[0].Citations,
		Candidates: candidates,
	}
}

func citationFor(c types.SectionCandidate) types.Citation {
	return types.Citation{
		Page:        c.Page,
		Snippet:     snippet(c.Text),
		StartOffset: c.StartOffset,
		EndOffset:   c.EndOffset,
	}
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= snippetLen {
		return text
	}
	return string(runes[:snippetLen]) + "…"
}
