// Package render rasterizes selected PDF pages to JPEG images and
// classifies blank pages by sampled pixel brightness.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/types"
)

const (
	// Blankness thresholds. A page is blank when it is almost entirely
	// white or when the compressed image is too small to hold content.
	blankWhitenessThreshold = 0.97
	blankByteThreshold      = 8000

	// pixelStride is the sampling step for the whiteness score.
	pixelStride = 50
)

// Config controls rasterization.
type Config struct {
	// ScaleToX is the output width in pixels passed to pdftoppm.
	ScaleToX int
	// JPEGQuality is the JPEG quality setting (1-100).
	JPEGQuality int
	// Home locates the request-scoped artifact directory.
	Home *home.Dir
	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer rasterizes pages via pdftoppm (poppler-utils).
type Renderer struct {
	cfg Config
	log *slog.Logger
}

// NewRenderer creates a Renderer with the given config.
func NewRenderer(cfg Config) *Renderer {
	if cfg.ScaleToX <= 0 {
		cfg.ScaleToX = 1200
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 75
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{cfg: cfg, log: log}
}

// SelectPages returns the pages to rasterize, 1-indexed and sorted.
// An explicit list wins; otherwise the first (max-2) pages plus the
// last 2 pages are chosen, which covers title pages and the closing
// valuation summary of typical appraisal reports.
func SelectPages(totalPages int, explicit []int, maxPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	seen := make(map[int]bool)
	var pages []int
	add := func(p int) {
		if p >= 1 && p <= totalPages && !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}

	if len(explicit) > 0 {
		for _, p := range explicit {
			add(p)
		}
	} else {
		if maxPages <= 0 {
			maxPages = 10
		}
		head := maxPages - 2
		if head < 1 {
			head = 1
		}
		for p := 1; p <= head; p++ {
			add(p)
		}
		add(totalPages - 1)
		add(totalPages)
	}

	sort.Ints(pages)
	return pages
}

// RenderPages rasterizes the given pages of the PDF. Failures are
// per-page: a page that cannot be rendered yields a blank placeholder
// carrying the error note, never an aborted batch. Rendered bytes are
// persisted under the document's render directory for debug retrieval.
func (r *Renderer) RenderPages(ctx context.Context, pdfBytes []byte, docID string, pages []int) ([]types.RenderedPage, error) {
	if _, err := r.cfg.Home.EnsureRendersDir(docID); err != nil {
		return nil, fmt.Errorf("failed to prepare render directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "periscan-render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF: %w", err)
	}

	results := make([]types.RenderedPage, 0, len(pages))
	for _, pageNum := range pages {
		page := r.renderPage(ctx, pdfPath, tmpDir, pageNum)
		if page.Error == "" {
			if err := r.persist(docID, page); err != nil {
				r.log.Warn("failed to persist rendered page", "doc_id", docID, "page", pageNum, "error", err)
			}
		}
		results = append(results, page)
	}

	return results, nil
}

// renderPage rasterizes a single page. Any failure produces a blank
// placeholder with the error recorded, not an error return.
func (r *Renderer) renderPage(ctx context.Context, pdfPath, tmpDir string, pageNum int) types.RenderedPage {
	pageStr := strconv.Itoa(pageNum)
	outputPrefix := filepath.Join(tmpDir, "page_"+pageStr)

	// -jpeg: output JPEG format
	// -f N / -l N: render only page N
	// -scale-to-x: output width in pixels (-1 height keeps aspect)
	// -singlefile: don't add page number suffix
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-jpeg",
		"-jpegopt", fmt.Sprintf("quality=%d", r.cfg.JPEGQuality),
		"-f", pageStr,
		"-l", pageStr,
		"-scale-to-x", strconv.Itoa(r.cfg.ScaleToX),
		"-scale-to-y", "-1",
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		r.log.Warn("pdftoppm failed", "page", pageNum, "error", err, "output", string(output))
		return blankPlaceholder(pageNum, fmt.Sprintf("pdftoppm failed: %v", err))
	}

	data, err := os.ReadFile(outputPrefix + ".jpg")
	if err != nil {
		return blankPlaceholder(pageNum, fmt.Sprintf("pdftoppm did not create expected output: %v", err))
	}

	return ClassifyImage(pageNum, data)
}

// ClassifyImage decodes JPEG bytes, computes the whiteness score and
// blankness verdict, and returns the populated page record. A decode
// failure yields a blank placeholder with the error note.
func ClassifyImage(pageNum int, data []byte) types.RenderedPage {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return blankPlaceholder(pageNum, fmt.Sprintf("failed to decode image: %v", err))
	}

	bounds := img.Bounds()
	whiteness := whitenessScore(img)

	return types.RenderedPage{
		PageNumber: pageNum,
		ImageBytes: data,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Whiteness:  whiteness,
		IsBlank:    IsBlank(whiteness, len(data)),
	}
}

// IsBlank reports whether a rendered page carries no content worth
// transcribing: almost entirely white pixels, or a compressed size too
// small for a page with text.
func IsBlank(whiteness float64, byteSize int) bool {
	return whiteness > blankWhitenessThreshold || byteSize < blankByteThreshold
}

// whitenessScore samples every 50th pixel and averages the R, G, B
// channels, normalized to [0,1]. 1.0 is a fully white page.
func whitenessScore(img image.Image) float64 {
	bounds := img.Bounds()
	var sum, count float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += pixelStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += pixelStride {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels.
			sum += float64(r+g+b) / (3 * 65535)
			count++
		}
	}
	if count == 0 {
		return types.WhitenessUnknown
	}
	return sum / count
}

func blankPlaceholder(pageNum int, note string) types.RenderedPage {
	return types.RenderedPage{
		PageNumber: pageNum,
		Whiteness:  types.WhitenessUnknown,
		IsBlank:    true,
		Error:      note,
	}
}

func (r *Renderer) persist(docID string, page types.RenderedPage) error {
	path, err := r.cfg.Home.RenderedPagePath(docID, page.PageNumber)
	if err != nil {
		return err
	}
	return os.WriteFile(path, page.ImageBytes, 0o644)
}
