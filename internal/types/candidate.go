package types

// FieldType identifies one of the four domain fields extracted from a perizia.
type FieldType string

const (
	// FieldAtti covers prior acts, encumbrances and provenance.
	FieldAtti FieldType = "atti"
	// FieldSpese covers outstanding legal costs and condominium charges.
	FieldSpese FieldType = "spese"
	// FieldIrregolarita covers zoning and building irregularities.
	FieldIrregolarita FieldType = "irregolarita"
	// FieldValore covers the expert's valuation of the property.
	FieldValore FieldType = "valore"
)

// AllFieldTypes lists the four domain fields in report order.
func AllFieldTypes() []FieldType {
	return []FieldType{FieldAtti, FieldSpese, FieldIrregolarita, FieldValore}
}

// SectionCandidate is a bounded text window around a keyword hit,
// scored for likelihood of containing the answer to a domain field.
type SectionCandidate struct {
	Text            string   `json:"text"`
	Page            int      `json:"page"`
	StartOffset     int      `json:"start_offset"`
	EndOffset       int      `json:"end_offset"`
	MatchedKeywords []string `json:"matched_keywords"`
	IsTitle         bool     `json:"is_title"`
	Score           int      `json:"score"`
}

// Citation points back at the document text a value was derived from.
// Citations always come from a SectionCandidate, never free-floating text.
type Citation struct {
	Page        int    `json:"page"`
	Snippet     string `json:"snippet"`
	StartOffset int    `json:"start_offset,omitempty"`
	EndOffset   int    `json:"end_offset,omitempty"`
}

// Candidate is a confidence-scored candidate value for a domain field.
type Candidate[T any] struct {
	Value      T          `json:"value"`
	Confidence float64    `json:"confidence"`
	Reason     string     `json:"reason"`
	Citations  []Citation `json:"citations"`
}

// FieldStatus indicates whether a field extractor found any candidate.
type FieldStatus string

const (
	// StatusFound indicates at least one candidate was extracted.
	StatusFound FieldStatus = "found"
	// StatusNotFound indicates the canonical not-found sentinel path.
	StatusNotFound FieldStatus = "not_found"
)

// FieldResult is the outcome of one field extractor. When Status is
// StatusNotFound it carries exactly one confidence-zero candidate whose
// Reason tells a human where to look manually.
type FieldResult[T any] struct {
	Status     FieldStatus    `json:"status"`
	Confidence float64        `json:"confidence"`
	Citations  []Citation     `json:"citations"`
	Candidates []Candidate[T] `json:"candidates"`
}
