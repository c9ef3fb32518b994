// Package pdftext extracts the text layer from PDF bytes through an
// ordered chain of extraction engines. Engines are stateless, probed
// once at construction and injected as a fixed slice.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/periscan/periscan/internal/types"
)

// minAcceptChars is the trimmed-length threshold at which the first
// engine's output is accepted without consulting the fallbacks.
const minAcceptChars = 200

// ErrInvalidDocument is returned when the input does not carry a PDF
// magic header. Fatal: the document is not processed further.
var ErrInvalidDocument = errors.New("invalid document: missing PDF header")

// AllEnginesFailedError is returned when every engine produced no text.
// It carries the per-engine error trail to aid diagnosis.
type AllEnginesFailedError struct {
	Trail []string
}

func (e *AllEnginesFailedError) Error() string {
	return fmt.Sprintf("all extraction engines failed: %s", strings.Join(e.Trail, "; "))
}

// Result is one engine's output.
type Result struct {
	Pages      []types.PageText
	TotalPages int
}

// textLength returns the total trimmed text length across pages.
func (r *Result) textLength() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Pages {
		n += len(strings.TrimSpace(p.Text))
	}
	return n
}

// Engine extracts text from raw PDF bytes.
type Engine interface {
	Name() string
	Extract(data []byte) (*Result, error)
}
