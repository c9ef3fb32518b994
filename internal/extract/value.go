package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/periscan/periscan/internal/normalize"
	"github.com/periscan/periscan/internal/sections"
	"github.com/periscan/periscan/internal/types"
)

// valuePhrasePriority ranks value-type phrases from most to least
// authoritative. The window containing the highest-ranked phrase is
// selected as the primary valuation source.
var valuePhrasePriority = []string{
	"valore di stima",
	"valore di perizia",
	"valore di mercato",
	"valore commerciale",
	"più probabile valore",
	"giudizio di stima",
	"valutazione",
	"prezzo base",
	"base d'asta",
}

// ExtractExpertValue finds the expert's valuation. The primary value is
// the maximum amount in the highest-priority window; a min/max range is
// reported when that window holds two or more amounts.
func ExtractExpertValue(pages []types.PageText) types.FieldResult[types.ExpertValue] {
	candidates := sections.Find(pages, types.FieldValore)
	if len(candidates) == 0 {
		return notFound[types.ExpertValue](types.FieldValore,
			"conclusioni della perizia, giudizio di stima, determinazione del prezzo base")
	}

	type scored struct {
		candidate types.SectionCandidate
		phrase    string
		priority  int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		phrase, prio := bestValuePhrase(strings.ToLower(c.Text))
		ranked = append(ranked, scored{candidate: c, phrase: phrase, priority: prio})
	}
	// Stable by priority so equal-priority windows keep finder order.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].priority < ranked[j].priority })

	out := make([]types.Candidate[types.ExpertValue], 0, len(ranked))
	for i, r := range ranked {
		c := r.candidate
		base := sections.Confidence(c, len(candidates))

		value := types.ExpertValue{TipoValore: r.phrase}
		conf := base
		reason := fmt.Sprintf("sezione %q a pagina %d", r.phrase, c.Page)
		if r.phrase == "" {
			reason = fmt.Sprintf("sezione valore a pagina %d senza tipologia riconosciuta", c.Page)
		}

		amounts := normalize.ExtractAmounts(c.Text)
		if len(amounts) == 0 {
			conf -= noAmountPenalty
			if conf < 0 {
				conf = 0
			}
			reason += "; nessun importo riconosciuto"
		} else {
			min, max := amounts[0].Value, amounts[0].Value
			for _, a := range amounts[1:] {
				if a.Value < min {
					min = a.Value
				}
				if a.Value > max {
					max = a.Value
				}
			}
			value.Valore = max
			if len(amounts) >= 2 {
				value.ValoreMin = min
				value.ValoreMax = max
			}
		}

		// Only the highest-priority window keeps its full confidence;
		// lower-ranked windows are alternatives, not the answer.
		if i > 0 && conf > base-0.05 {
			conf = base - 0.05
			if conf < 0 {
				conf = 0
			}
		}

		out = append(out, types.Candidate[types.ExpertValue]{
			Value:      value,
			Confidence: conf,
			Reason:     reason,
			Citations:  []types.Citation{citationFor(c)},
		})
	}

	result := types.FieldResult[types.ExpertValue]{
		Status:     types.StatusFound,
		Confidence: out[0].Confidence,
		Citations:  out[0].Citations,
		Candidates: out,
	}
	return result
}

// bestValuePhrase returns the highest-priority value phrase present in
// the window, or "" with a priority past the end of the list.
func bestValuePhrase(lower string) (string, int) {
	for i, phrase := range valuePhrasePriority {
		if strings.Contains(lower, phrase) {
			return phrase, i
		}
	}
	return "", len(valuePhrasePriority)
}
