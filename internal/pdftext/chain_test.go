package pdftext

import (
	"errors"
	"strings"
	"testing"

	"github.com/periscan/periscan/internal/types"
)

// stubEngine returns canned results for chain tests.
type stubEngine struct {
	name   string
	result *Result
	err    error
	calls  int
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Extract([]byte) (*Result, error) {
	s.calls++
	return s.result, s.err
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\nfake body for tests")
}

func resultWith(text string, page int) *Result {
	return &Result{
		Pages:      []types.PageText{{Page: page, Text: text}},
		TotalPages: page,
	}
}

func TestChain_InvalidHeader(t *testing.T) {
	chain := NewChain(nil)
	_, _, err := chain.Extract([]byte("PK\x03\x04 not a pdf"))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("err = %v, want ErrInvalidDocument", err)
	}
}

func TestChain_HeaderAfterJunk(t *testing.T) {
	data := append([]byte("\xef\xbb\xbfjunk-prefix "), pdfBytes()...)
	first := &stubEngine{name: "layout", result: resultWith(strings.Repeat("a", 300), 1)}
	chain := NewChainWithEngines([]Engine{first}, nil)
	if _, _, err := chain.Extract(data); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
}

func TestChain_FirstEngineAccepted(t *testing.T) {
	first := &stubEngine{name: "layout", result: resultWith(strings.Repeat("a", minAcceptChars), 1)}
	second := &stubEngine{name: "plain", result: resultWith(strings.Repeat("b", 5000), 1)}
	chain := NewChainWithEngines([]Engine{first, second}, nil)

	_, engine, err := chain.Extract(pdfBytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if engine != "layout" {
		t.Errorf("engine = %q, want layout", engine)
	}
	if second.calls != 0 {
		t.Error("fallback engine invoked despite acceptable primary output")
	}
}

func TestChain_FallbackPreferredWhenLonger(t *testing.T) {
	first := &stubEngine{name: "layout", result: resultWith("breve", 1)}
	second := &stubEngine{name: "plain", result: resultWith(strings.Repeat("testo ", 100), 1)}
	chain := NewChainWithEngines([]Engine{first, second}, nil)

	doc, engine, err := chain.Extract(pdfBytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if engine != "plain" {
		t.Errorf("engine = %q, want plain", engine)
	}
	if len(doc.Pages) != 1 {
		t.Errorf("pages = %d, want 1", len(doc.Pages))
	}
}

func TestChain_TieGoesToLaterEngine(t *testing.T) {
	first := &stubEngine{name: "layout", result: resultWith("stesso testo", 1)}
	second := &stubEngine{name: "plain", result: resultWith("testo stesso", 1)}
	chain := NewChainWithEngines([]Engine{first, second}, nil)

	_, engine, err := chain.Extract(pdfBytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if engine != "plain" {
		t.Errorf("engine = %q, want plain on equal-length output", engine)
	}
}

func TestChain_PartialNeverDiscardedForEmpty(t *testing.T) {
	first := &stubEngine{name: "layout", result: resultWith("testo parziale ma presente", 1)}
	second := &stubEngine{name: "plain", result: &Result{TotalPages: 1}}
	third := &stubEngine{name: "poppler", err: errors.New("binary not found")}
	chain := NewChainWithEngines([]Engine{first, second, third}, nil)

	doc, engine, err := chain.Extract(pdfBytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if engine != "layout" {
		t.Errorf("engine = %q, want layout partial kept", engine)
	}
	if doc.Pages[0].Text != "testo parziale ma presente" {
		t.Errorf("unexpected text %q", doc.Pages[0].Text)
	}
}

func TestChain_AllEnginesFailed(t *testing.T) {
	first := &stubEngine{name: "layout", err: errors.New("xref broken")}
	second := &stubEngine{name: "plain", result: &Result{TotalPages: 3}}
	third := &stubEngine{name: "poppler", err: errors.New("exit status 1")}
	chain := NewChainWithEngines([]Engine{first, second, third}, nil)

	_, engine, err := chain.Extract(pdfBytes())
	if engine != "failed" {
		t.Errorf("engine = %q, want failed", engine)
	}
	var aef *AllEnginesFailedError
	if !errors.As(err, &aef) {
		t.Fatalf("err = %v, want AllEnginesFailedError", err)
	}
	// the trail must mention every engine, not just the last
	for _, want := range []string{"layout: xref broken", "plain: no text", "poppler: exit status 1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error trail missing %q: %v", want, err)
		}
	}
}

func TestChain_TotalPagesAtLeastExtracted(t *testing.T) {
	res := &Result{
		Pages: []types.PageText{
			{Page: 1, Text: strings.Repeat("a", 300)},
			{Page: 2, Text: "b"},
		},
		TotalPages: 1, // engine under-reported
	}
	chain := NewChainWithEngines([]Engine{&stubEngine{name: "layout", result: res}}, nil)
	doc, _, err := chain.Extract(pdfBytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if doc.TotalPages < len(doc.Pages) {
		t.Errorf("TotalPages = %d < %d pages", doc.TotalPages, len(doc.Pages))
	}
}
