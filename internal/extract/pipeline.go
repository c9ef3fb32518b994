package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/ocr"
	"github.com/periscan/periscan/internal/pdftext"
	"github.com/periscan/periscan/internal/quality"
	"github.com/periscan/periscan/internal/render"
	"github.com/periscan/periscan/internal/types"
)

// Report sources.
const (
	SourceTextLayer = "text_layer"
	SourceVisionOCR = "vision_ocr"
)

// maxOcrPayloadChars bounds the reassembled OCR text sent to field
// extraction. Pages are kept by keyword density when over budget.
const maxOcrPayloadChars = 60000

// Report is the full analysis outcome for one document.
type Report struct {
	DocumentID string          `json:"document_id"`
	Engine     string          `json:"engine"`
	Source     string          `json:"source"`
	TotalPages int             `json:"total_pages"`
	Quality    quality.Verdict `json:"quality"`

	Atti         types.FieldResult[types.Act]          `json:"atti"`
	Spese        types.FieldResult[types.LegalCost]    `json:"spese"`
	Irregolarita types.FieldResult[types.Irregularity] `json:"irregolarita"`
	Valore       types.FieldResult[types.ExpertValue]  `json:"valore"`

	OcrPages []types.OcrPageResult `json:"ocr_pages,omitempty"`
}

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	Chain    *pdftext.Chain
	Renderer *render.Renderer
	Ocr      *ocr.Orchestrator
	Home     *home.Dir

	// MaxRenderPages bounds the rendering fallback.
	MaxRenderPages int
	// KeepArtifacts leaves rendered images on disk after analysis so
	// the debug image endpoint can serve them. Off by default: render
	// artifacts are request-scoped.
	KeepArtifacts bool

	Logger *slog.Logger
}

// Pipeline analyzes one document at a time. All intermediate state is
// request-scoped; instances are safe for concurrent use.
type Pipeline struct {
	cfg PipelineConfig
	log *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.MaxRenderPages <= 0 {
		cfg.MaxRenderPages = 10
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Analyze runs the full pipeline: extraction chain, quality gate,
// vision-OCR escalation when the text layer is unusable, then the four
// field extractors. Only an invalid document or a fully failed
// extraction chain is a document-level error.
func (p *Pipeline) Analyze(ctx context.Context, pdfBytes []byte) (*Report, error) {
	docID := uuid.New().String()
	log := p.log.With("doc_id", docID)

	parsed, engine, err := p.cfg.Chain.Extract(pdfBytes)
	if err != nil {
		return nil, err
	}

	verdict := quality.Classify(parsed.FullText(), parsed.TotalPages)
	report := &Report{
		DocumentID: docID,
		Engine:     engine,
		Source:     SourceTextLayer,
		TotalPages: parsed.TotalPages,
		Quality:    verdict,
	}

	pages := parsed.Pages
	if !verdict.Usable {
		log.Info("text layer rejected, escalating to vision ocr",
			"reason", verdict.Reason, "length", verdict.Metrics.Length)

		ocrPages, ocrResults, err := p.transcribeDocument(ctx, pdfBytes, docID, parsed.TotalPages)
		if err != nil {
			return nil, err
		}
		pages = ocrPages
		report.Source = SourceVisionOCR
		report.OcrPages = ocrResults
	}

	report.Atti = ExtractActs(pages)
	report.Spese = ExtractLegalCosts(pages)
	report.Irregolarita = ExtractIrregularities(pages)
	report.Valore = ExtractExpertValue(pages)

	log.Info("analysis complete",
		"source", report.Source,
		"engine", report.Engine,
		"atti", report.Atti.Status,
		"spese", report.Spese.Status,
		"irregolarita", report.Irregolarita.Status,
		"valore", report.Valore.Status)

	return report, nil
}

// transcribeDocument renders a bounded page subset and runs vision OCR
// over it. Render artifacts are removed before returning unless the
// pipeline is configured to keep them for debug retrieval.
func (p *Pipeline) transcribeDocument(ctx context.Context, pdfBytes []byte, docID string, totalPages int) ([]types.PageText, []types.OcrPageResult, error) {
	if !p.cfg.KeepArtifacts {
		defer func() {
			if err := p.cfg.Home.CleanupRenders(docID); err != nil {
				p.log.Warn("failed to clean up render artifacts", "doc_id", docID, "error", err)
			}
		}()
	}

	selected := render.SelectPages(totalPages, nil, p.cfg.MaxRenderPages)
	rendered, err := p.cfg.Renderer.RenderPages(ctx, pdfBytes, docID, selected)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render pages: %w", err)
	}

	results := p.cfg.Ocr.Transcribe(ctx, rendered)
	return reassemble(results), results, nil
}

// reassemble turns OCR results into page text for field extraction,
// truncating by keyword density when the payload is over budget.
func reassemble(results []types.OcrPageResult) []types.PageText {
	total := 0
	for _, r := range results {
		total += r.Chars
	}

	keep := make(map[int]bool, len(results))
	if total > maxOcrPayloadChars {
		budget := 0
		for _, r := range ocr.RankPagesByKeywordDensity(results) {
			if budget+r.Chars > maxOcrPayloadChars && budget > 0 {
				continue
			}
			keep[r.Page] = true
			budget += r.Chars
		}
	}

	pages := make([]types.PageText, 0, len(results))
	for _, r := range results {
		if r.Status != types.OcrOK {
			continue
		}
		if total > maxOcrPayloadChars && !keep[r.Page] {
			continue
		}
		pages = append(pages, types.PageText{
			Page: r.Page,
			Text: strings.TrimSpace(r.Text),
		})
	}
	return pages
}
