// Package types provides shared types used across multiple packages.
// This package has no dependencies on other periscan packages to avoid import cycles.
package types

// PageText is the text extracted from a single PDF page.
// Pages are unique by page number; slices of PageText are kept in
// ascending document order.
type PageText struct {
	Page int    `json:"page"` // 1-indexed page number
	Text string `json:"text"`
}

// ParsedDocument is the output of the text-extraction chain.
// TotalPages may exceed len(Pages): pages that yield no text are omitted.
type ParsedDocument struct {
	Pages      []PageText `json:"pages"`
	TotalPages int        `json:"total_pages"`
}

// FullText concatenates all page texts with blank-line separators,
// in document order.
func (d *ParsedDocument) FullText() string {
	total := 0
	for _, p := range d.Pages {
		total += len(p.Text) + 2
	}
	buf := make([]byte, 0, total)
	for i, p := range d.Pages {
		if i > 0 {
			buf = append(buf, '\n', '\n')
		}
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// PageFor returns the text for a specific page number, or "" if the
// page yielded no text.
func (d *ParsedDocument) PageFor(page int) string {
	for _, p := range d.Pages {
		if p.Page == page {
			return p.Text
		}
	}
	return ""
}
