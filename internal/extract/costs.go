package extract

import (
	"fmt"
	"strings"

	"github.com/periscan/periscan/internal/normalize"
	"github.com/periscan/periscan/internal/sections"
	"github.com/periscan/periscan/internal/types"
)

// noAmountPenalty is applied when a cost section carries no parseable
// amount. Floored at zero.
const noAmountPenalty = 0.1

// amountContextRadius bounds the description slice around each amount.
const amountContextRadius = 80

// ExtractLegalCosts finds outstanding charges and legal costs. Each
// amount in a section yields its own result; a section without amounts
// still yields one, with a confidence penalty.
func ExtractLegalCosts(pages []types.PageText) types.FieldResult[types.LegalCost] {
	candidates := sections.Find(pages, types.FieldSpese)
	if len(candidates) == 0 {
		return notFound[types.LegalCost](types.FieldSpese,
			"sezioni su spese condominiali, oneri, morosità o spese di cancellazione")
	}

	out := make([]types.Candidate[types.LegalCost], 0, len(candidates))
	for _, c := range candidates {
		base := sections.Confidence(c, len(candidates))
		lower := strings.ToLower(c.Text)
		recent := strings.Contains(lower, "ultimi due anni") || strings.Contains(lower, "ultimi 2 anni")

		amounts := normalize.ExtractAmounts(c.Text)
		if len(amounts) == 0 {
			conf := base - noAmountPenalty
			if conf < 0 {
				conf = 0
			}
			out = append(out, types.Candidate[types.LegalCost]{
				Value: types.LegalCost{
					Descrizione:   snippet(c.Text),
					UltimiDueAnni: recent,
				},
				Confidence: conf,
				Reason:     fmt.Sprintf("sezione spese a pagina %d senza importi riconosciuti", c.Page),
				Citations:  []types.Citation{citationFor(c)},
			})
			continue
		}

		for _, a := range amounts {
			out = append(out, types.Candidate[types.LegalCost]{
				Value: types.LegalCost{
					Descrizione:   amountContext(c.Text, a.StartIndex),
					Importo:       a.Value,
					ImportoRaw:    a.Raw,
					UltimiDueAnni: recent,
				},
				Confidence: base,
				Reason: fmt.Sprintf("importo %s in sezione spese a pagina %d (parole chiave: %s)",
					a.Raw, c.Page, strings.Join(c.MatchedKeywords, ", ")),
				Citations: []types.Citation{citationFor(c)},
			})
		}
	}

	return finalize(out)
}

// amountContext slices the text around an amount so the description
// keeps the charge's label next to its figure.
func amountContext(text string, pos int) string {
	start := pos - amountContextRadius
	if start < 0 {
		start = 0
	}
	end := pos + amountContextRadius
	if end > len(text) {
		end = len(text)
	}
	for start > 0 && text[start]&0xC0 == 0x80 {
		start--
	}
	for end < len(text) && text[end]&0xC0 == 0x80 {
		end++
	}
	return strings.Join(strings.Fields(text[start:end]), " ")
}
