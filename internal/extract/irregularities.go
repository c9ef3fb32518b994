package extract

import (
	"fmt"
	"strings"

	"github.com/periscan/periscan/internal/sections"
	"github.com/periscan/periscan/internal/types"
)

// Irregularity category buckets. A window is classified into the bucket
// with the most keyword hits; ties resolve in this order.
var irregularityCategories = []struct {
	name     string
	keywords []string
}{
	{"urbanistica", []string{"urbanistic", "concessione edilizia", "permesso di costruire", "destinazione d'uso", "piano regolatore", "licenza edilizia"}},
	{"catastale", []string{"catast", "planimetria", "subalterno", "accatastamento", "visura"}},
	{"edilizia", []string{"abuso edilizio", "abusi edilizi", "opere abusive", "difformità", "sanatoria", "condono", "opere interne"}},
	{"impiantistica", []string{"impiant", "certificazione energetica", "dichiarazione di conformità"}},
	{"agibilita", []string{"agibilità", "abitabilità"}},
}

var (
	highSeverityMarkers = []string{"abuso", "opere abusive", "non sanabile"}
	lowSeverityMarkers  = []string{"lieve", "minore", "tolleranza"}
)

// ExtractIrregularities finds zoning and building irregularities,
// classifying category, severity and regularizability impact.
func ExtractIrregularities(pages []types.PageText) types.FieldResult[types.Irregularity] {
	candidates := sections.Find(pages, types.FieldIrregolarita)
	if len(candidates) == 0 {
		return notFound[types.Irregularity](types.FieldIrregolarita,
			"sezioni su regolarità edilizia, conformità urbanistica e catastale, agibilità")
	}

	out := make([]types.Candidate[types.Irregularity], 0, len(candidates))
	for _, c := range candidates {
		lower := strings.ToLower(c.Text)

		out = append(out, types.Candidate[types.Irregularity]{
			Value: types.Irregularity{
				Categoria:   classifyCategory(lower),
				Severita:    classifySeverity(lower),
				Descrizione: snippet(c.Text),
				Impatto:     impactNote(lower),
			},
			Confidence: sections.Confidence(c, len(candidates)),
			Reason: fmt.Sprintf("sezione a pagina %d con parole chiave: %s",
				c.Page, strings.Join(c.MatchedKeywords, ", ")),
			Citations: []types.Citation{citationFor(c)},
		})
	}

	return finalize(out)
}

func classifyCategory(lower string) string {
	best := "edilizia"
	bestHits := 0
	for _, cat := range irregularityCategories {
		hits := 0
		for _, kw := range cat.keywords {
			hits += strings.Count(lower, kw)
		}
		if hits > bestHits {
			best = cat.name
			bestHits = hits
		}
	}
	return best
}

func classifySeverity(lower string) string {
	for _, m := range highSeverityMarkers {
		if strings.Contains(lower, m) {
			return types.SeverityAlta
		}
	}
	for _, m := range lowSeverityMarkers {
		if strings.Contains(lower, m) {
			return types.SeverityBassa
		}
	}
	return types.SeverityMedia
}

// impactNote derives a short regularizability note from the window.
func impactNote(lower string) string {
	var notes []string
	switch {
	case strings.Contains(lower, "non sanabile"):
		notes = append(notes, "non sanabile")
	case strings.Contains(lower, "sanabile"), strings.Contains(lower, "sanatoria"), strings.Contains(lower, "regolarizzabile"):
		notes = append(notes, "regolarizzabile")
	}
	if strings.Contains(lower, "lavori") || strings.Contains(lower, "opere necessarie") || strings.Contains(lower, "interventi") {
		notes = append(notes, "richiede interventi")
	}
	return strings.Join(notes, "; ")
}
