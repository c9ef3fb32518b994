package pdftext

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/periscan/periscan/internal/types"
)

// pdfMagic is searched for within the first kilobyte: some scanners
// prepend junk bytes before the header.
var pdfMagic = []byte("%PDF-")

// Chain tries extraction engines in strict priority order.
type Chain struct {
	engines []Engine
	logger  *slog.Logger
}

// NewChain builds the default chain: positional layout, library plain
// text, then poppler's pdftotext.
func NewChain(logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		engines: []Engine{
			&layoutEngine{},
			&plainEngine{},
			&popplerEngine{},
		},
		logger: logger,
	}
}

// NewChainWithEngines builds a chain over an explicit engine slice (tests).
func NewChainWithEngines(engines []Engine, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{engines: engines, logger: logger}
}

// Extract runs the chain over raw PDF bytes. The first engine is
// accepted outright when it yields at least minAcceptChars of text;
// otherwise every engine runs and the longest non-empty output wins,
// with ties going to the later engine. A longer partial from an earlier
// engine is never discarded for a shorter or empty later one.
func (c *Chain) Extract(data []byte) (*types.ParsedDocument, string, error) {
	if !hasPDFHeader(data) {
		return nil, "", ErrInvalidDocument
	}

	var (
		best       *Result
		bestEngine string
		trail      []string
	)

	for i, engine := range c.engines {
		res, err := engine.Extract(data)
		if err != nil {
			trail = append(trail, fmt.Sprintf("%s: %v", engine.Name(), err))
			c.logger.Debug("extraction engine failed", "engine", engine.Name(), "error", err)
			continue
		}

		length := res.textLength()
		c.logger.Debug("extraction engine done", "engine", engine.Name(), "chars", length, "pages", len(res.Pages))
		if length == 0 {
			trail = append(trail, fmt.Sprintf("%s: no text", engine.Name()))
			continue
		}

		if length >= best.textLength() {
			best = res
			bestEngine = engine.Name()
		}

		// the primary engine short-circuits the fallbacks when its
		// output is plausibly complete
		if i == 0 && length >= minAcceptChars {
			break
		}
	}

	if best == nil {
		return nil, "failed", &AllEnginesFailedError{Trail: trail}
	}

	doc := &types.ParsedDocument{
		Pages:      best.Pages,
		TotalPages: best.TotalPages,
	}
	if doc.TotalPages < len(doc.Pages) {
		doc.TotalPages = len(doc.Pages)
	}
	return doc, bestEngine, nil
}

func hasPDFHeader(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, pdfMagic)
}
