package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/periscan/periscan/internal/types"
)

// plainEngine uses the library's built-in plain-text rendering, with no
// layout reconstruction beyond what the content stream provides.
type plainEngine struct{}

func (e *plainEngine) Name() string { return "plain" }

func (e *plainEngine) Extract(data []byte) (*Result, error) {
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
		text := plainPageText(page)
		if text == "" {
			continue
		}
		res.Pages = append(res.Pages, types.PageText{Page: i, Text: text})
	}
	return res, nil
}

func plainPageText(page pdf.Page) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

var _ Engine = (*plainEngine)(nil)
