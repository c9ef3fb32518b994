package pdftext

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/periscan/periscan/internal/types"
)

const (
	// rowTolerance groups glyphs whose Y coordinates differ by less than
	// this many points into the same visual line.
	rowTolerance = 3.0
	// wordGapFactor of the font size marks a word boundary between
	// adjacent glyph runs on the same line.
	wordGapFactor = 0.3
	// paragraphGapFactor of the line height marks a paragraph break
	// between consecutive lines.
	paragraphGapFactor = 1.8
)

// layoutEngine reconstructs line and paragraph breaks from glyph
// coordinates. Perizie are single-column documents, so reading order is
// top-to-bottom, left-to-right with no column detection.
type layoutEngine struct{}

func (e *layoutEngine) Name() string { return "layout" }

func (e *layoutEngine) Extract(data []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	res := &Result{TotalPages: r.NumPage()}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := e.renderPage(page)
		if text == "" {
			continue
		}
		res.Pages = append(res.Pages, types.PageText{Page: i, Text: text})
	}
	return res, nil
}

// renderPage rebuilds a page's text from positioned glyph runs.
func (e *layoutEngine) renderPage(page pdf.Page) (out string) {
	// ledongthuc/pdf panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()

	content := page.Content()
	texts := make([]pdf.Text, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	rows := groupRows(texts)

	var b strings.Builder
	var prevY float64
	var prevSize float64
	for i, row := range rows {
		if i > 0 {
			gap := prevY - row[0].Y
			lineHeight := prevSize
			if lineHeight <= 0 {
				lineHeight = 12
			}
			if gap > lineHeight*paragraphGapFactor {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		writeRow(&b, row)
		prevY = row[0].Y
		prevSize = row[0].FontSize
	}
	return strings.TrimSpace(b.String())
}

// groupRows clusters glyphs into visual lines by Y coordinate and orders
// the lines top to bottom (PDF Y grows upward), glyphs left to right.
func groupRows(texts []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdf.Text
	for _, t := range sorted {
		if len(rows) > 0 {
			last := rows[len(rows)-1]
			if last[0].Y-t.Y < rowTolerance {
				rows[len(rows)-1] = append(last, t)
				continue
			}
		}
		rows = append(rows, []pdf.Text{t})
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
	}
	return rows
}

// writeRow concatenates one line's glyph runs, inserting spaces at
// word-sized horizontal gaps.
func writeRow(b *strings.Builder, row []pdf.Text) {
	for i, t := range row {
		if i > 0 {
			prev := row[i-1]
			gap := t.X - (prev.X + prev.W)
			size := prev.FontSize
			if size <= 0 {
				size = 12
			}
			if gap > size*wordGapFactor {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
}

var _ Engine = (*layoutEngine)(nil)
