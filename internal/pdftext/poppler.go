package pdftext

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/periscan/periscan/internal/types"
)

// popplerEngine is the last-resort extractor: pdftotext (poppler-utils)
// invoked page by page with no layout reconstruction. It handles
// documents whose content streams the pure-Go readers choke on.
type popplerEngine struct {
	// binary name or absolute path; "pdftotext" when empty
	binary string
}

func (e *popplerEngine) Name() string { return "poppler" }

func (e *popplerEngine) Extract(data []byte) (*Result, error) {
	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	tmp, err := os.CreateTemp("", "periscan-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	tmp.Close()

	binary := e.binary
	if binary == "" {
		binary = "pdftotext"
	}

	res := &Result{TotalPages: pageCount}
	var lastErr error
	for page := 1; page <= pageCount; page++ {
		p := strconv.Itoa(page)
		cmd := exec.Command(binary, "-f", p, "-l", p, "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
		var out, errb bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &errb
		if err := cmd.Run(); err != nil {
			// page-level failure: keep going, report the last one
			lastErr = fmt.Errorf("pdftotext page %d: %w (%s)", page, err, strings.TrimSpace(errb.String()))
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(out.String(), "\f", ""))
		if text == "" {
			continue
		}
		res.Pages = append(res.Pages, types.PageText{Page: page, Text: text})
	}

	if len(res.Pages) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return res, nil
}

var _ Engine = (*popplerEngine)(nil)
