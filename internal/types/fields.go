package types

// Act describes a prior act or encumbrance found in the perizia
// (deeds of sale, mortgages, foreclosures, transcriptions).
type Act struct {
	TipoAtto    string `json:"tipo_atto"`       // matched act types, comma separated
	Data        string `json:"data,omitempty"`  // ISO date of the act if present
	Descrizione string `json:"descrizione"`     // window excerpt
}

// LegalCost describes an outstanding charge or legal cost.
type LegalCost struct {
	Descrizione   string  `json:"descrizione"`
	Importo       float64 `json:"importo"`            // 0 when no amount was found
	ImportoRaw    string  `json:"importo_raw,omitempty"`
	UltimiDueAnni bool    `json:"ultimi_due_anni"`    // lexical recency signal, not a computed check
}

// Severity levels for building irregularities.
const (
	SeverityAlta  = "alta"
	SeverityMedia = "media"
	SeverityBassa = "bassa"
)

// Irregularity describes a zoning or building irregularity.
type Irregularity struct {
	Categoria   string `json:"categoria"` // urbanistica, catastale, edilizia, impiantistica, agibilita
	Severita    string `json:"severita"`  // alta, media, bassa
	Descrizione string `json:"descrizione"`
	Impatto     string `json:"impatto,omitempty"` // regularizability / works-needed note
}

// ExpertValue describes the expert's valuation of the property.
type ExpertValue struct {
	TipoValore string  `json:"tipo_valore"` // e.g. "valore di stima", "base d'asta"
	Valore     float64 `json:"valore"`
	ValoreMin  float64 `json:"valore_min,omitempty"`
	ValoreMax  float64 `json:"valore_max,omitempty"`
}
