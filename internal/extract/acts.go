package extract

import (
	"fmt"
	"strings"

	"github.com/periscan/periscan/internal/normalize"
	"github.com/periscan/periscan/internal/sections"
	"github.com/periscan/periscan/internal/types"
)

// actVocabulary lists recognized act types in report order.
var actVocabulary = []string{
	"compravendita",
	"ipoteca",
	"pignoramento",
	"decreto di trasferimento",
	"donazione",
	"successione",
	"mutuo",
	"trascrizione",
	"iscrizione",
}

// ExtractActs finds prior acts, encumbrances and provenance records.
func ExtractActs(pages []types.PageText) types.FieldResult[types.Act] {
	candidates := sections.Find(pages, types.FieldAtti)
	if len(candidates) == 0 {
		return notFound[types.Act](types.FieldAtti,
			"sezioni su provenienza, atti antecedenti, gravami o formalità pregiudizievoli")
	}

	out := make([]types.Candidate[types.Act], 0, len(candidates))
	for _, c := range candidates {
		lower := strings.ToLower(c.Text)

		var matched []string
		for _, act := range actVocabulary {
			if strings.Contains(lower, act) {
				matched = append(matched, act)
			}
		}

		var date string
		if dates := normalize.ExtractDates(c.Text); len(dates) > 0 {
			date = dates[0].Normalized
		}

		reason := fmt.Sprintf("sezione a pagina %d con parole chiave: %s",
			c.Page, strings.Join(c.MatchedKeywords, ", "))
		if len(matched) == 0 {
			reason += "; nessuna tipologia di atto riconosciuta nel testo"
		}

		out = append(out, types.Candidate[types.Act]{
			Value: types.Act{
				TipoAtto:    strings.Join(matched, ", "),
				Data:        date,
				Descrizione: snippet(c.Text),
			},
			Confidence: sections.Confidence(c, len(candidates)),
			Reason:     reason,
			Citations:  []types.Citation{citationFor(c)},
		})
	}

	return finalize(out)
}
