// Package sections finds and scores keyword-anchored text windows for the
// four perizia domain fields.
package sections

import "github.com/periscan/periscan/internal/types"

// Keyword dictionaries per field, lower-cased. Some entries are stems
// ("arretrat") so that inflected forms match by substring.
var fieldKeywords = map[types.FieldType][]string{
	types.FieldAtti: {
		"atti antecedenti",
		"provenienza",
		"compravendita",
		"ipoteca",
		"pignoramento",
		"trascrizione",
		"iscrizione",
		"decreto di trasferimento",
		"successione",
		"donazione",
		"gravami",
		"formalità pregiudizievoli",
		"atto di mutuo",
	},
	types.FieldSpese: {
		"spese condominiali",
		"oneri condominiali",
		"spese di condominio",
		"arretrat",
		"spese legali",
		"spese di cancellazione",
		"morosità",
		"insolut",
		"ultimi due anni",
		"oneri accessori",
		"spese straordinarie",
	},
	types.FieldIrregolarita: {
		"abuso edilizio",
		"abusi edilizi",
		"opere abusive",
		"difformità",
		"irregolarità",
		"sanatoria",
		"condono",
		"concessione edilizia",
		"permesso di costruire",
		"agibilità",
		"abitabilità",
		"conformità catastale",
		"conformità urbanistica",
	},
	types.FieldValore: {
		"valore di stima",
		"valore di mercato",
		"valore di perizia",
		"valore commerciale",
		"più probabile valore",
		"giudizio di stima",
		"stima del bene",
		"valutazione",
		"prezzo base",
		"base d'asta",
	},
}

// Keywords returns the dictionary for a field. The returned slice is
// shared and must not be modified.
func Keywords(field types.FieldType) []string {
	return fieldKeywords[field]
}

// AllKeywords returns every keyword across the four dictionaries,
// deduplicated. Used for OCR page ranking by domain-keyword density.
func AllKeywords() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ft := range types.AllFieldTypes() {
		for _, kw := range fieldKeywords[ft] {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
