// Package ocr transcribes rendered PDF pages through a vision
// completion provider, batching pages and isolating per-page failures.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/periscan/periscan/internal/backoff"
	"github.com/periscan/periscan/internal/providers"
	"github.com/periscan/periscan/internal/sections"
	"github.com/periscan/periscan/internal/types"
)

const (
	// batchSize is how many pages share one completion call.
	batchSize = 2

	// blankSentinel is the token the model must emit for pages that
	// carry no transcribable text.
	blankSentinel = "[PAGINA_VUOTA]"

	// minUsableChars below which a transcription counts as empty.
	minUsableChars = 10
)

const systemPrompt = `Sei un trascrittore di perizie immobiliari per aste giudiziarie.
Trascrivi fedelmente il testo del corpo di ogni pagina fornita come immagine.
Ignora filigrane, timbri e diciture ripetute dei portali d'asta.
Per ogni pagina inizia la trascrizione con il marcatore letterale ===PAGINA N===
dove N è il numero di pagina indicato nella richiesta.
Se una pagina è priva di testo, scrivi solo ` + blankSentinel + ` dopo il marcatore.
Non aggiungere commenti, riassunti o traduzioni.`

// Orchestrator drives vision OCR over rendered pages.
type Orchestrator struct {
	client  providers.VisionClient
	limiter *providers.RateLimiter
	policy  backoff.Policy
	log     *slog.Logger
}

// Config for the orchestrator.
type Config struct {
	Client providers.VisionClient
	// Limiter is optional; when set it paces calls and is drained on 429s.
	Limiter *providers.RateLimiter
	// Policy defaults to backoff.New() retrying only rate limits.
	Policy *backoff.Policy
	Logger *slog.Logger
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	policy := backoff.New(providers.IsRateLimited)
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	if policy.IsRetryable == nil {
		policy.IsRetryable = providers.IsRateLimited
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		client:  cfg.Client,
		limiter: cfg.Limiter,
		policy:  policy,
		log:     log,
	}
}

// Transcribe runs OCR over the rendered pages and returns one result
// per page, sorted by page number. Pages marked blank never reach the
// provider. A failed batch marks only its own pages; sibling batches
// proceed.
func (o *Orchestrator) Transcribe(ctx context.Context, pages []types.RenderedPage) []types.OcrPageResult {
	results := make([]types.OcrPageResult, 0, len(pages))

	var pending []types.RenderedPage
	for _, p := range pages {
		if p.IsBlank {
			results = append(results, types.OcrPageResult{
				Page:   p.PageNumber,
				Status: types.OcrSkippedBlank,
			})
			continue
		}
		pending = append(pending, p)
	}

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		results = append(results, o.transcribeBatch(ctx, pending[start:end])...)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })
	return results
}

func (o *Orchestrator) transcribeBatch(ctx context.Context, batch []types.RenderedPage) []types.OcrPageResult {
	var sb strings.Builder
	images := make([][]byte, 0, len(batch))
	for _, p := range batch {
		fmt.Fprintf(&sb, "Trascrivi la pagina %d. Inizia con ===PAGINA %d===\n", p.PageNumber, p.PageNumber)
		images = append(images, p.ImageBytes)
	}

	var response string
	err := o.policy.Do(ctx, func() error {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		out, err := o.client.Complete(ctx, systemPrompt, sb.String(), images)
		if err != nil {
			if providers.IsRateLimited(err) && o.limiter != nil {
				o.limiter.Record429()
			}
			return err
		}
		response = out
		return nil
	})
	if err != nil {
		status := types.OcrFailed
		if providers.IsRateLimited(err) {
			status = types.OcrRateLimited
		}
		o.log.Warn("ocr batch failed", "pages", pageNumbers(batch), "status", status, "error", err)
		failed := make([]types.OcrPageResult, 0, len(batch))
		for _, p := range batch {
			failed = append(failed, types.OcrPageResult{Page: p.PageNumber, Status: status})
		}
		return failed
	}

	parsed := make([]types.OcrPageResult, 0, len(batch))
	for _, p := range batch {
		parsed = append(parsed, parsePage(response, p.PageNumber))
	}
	return parsed
}

// parsePage extracts one page's transcription from a marker-delimited
// response. A missing marker means the model lost track of the page:
// treat it as empty rather than guessing which text belongs to it.
func parsePage(response string, pageNum int) types.OcrPageResult {
	marker := fmt.Sprintf("===PAGINA %d===", pageNum)
	idx := strings.Index(response, marker)
	if idx < 0 {
		return types.OcrPageResult{Page: pageNum, Status: types.OcrEmpty}
	}

	text := response[idx+len(marker):]
	if next := strings.Index(text, "===PAGINA "); next >= 0 {
		text = text[:next]
	}
	text = strings.TrimSpace(text)

	if text == "" || strings.Contains(text, blankSentinel) || len(text) < minUsableChars {
		return types.OcrPageResult{Page: pageNum, Status: types.OcrEmpty}
	}

	return types.OcrPageResult{
		Page:   pageNum,
		Text:   text,
		Chars:  len(text),
		Status: types.OcrOK,
	}
}

func pageNumbers(pages []types.RenderedPage) []int {
	nums := make([]int, 0, len(pages))
	for _, p := range pages {
		nums = append(nums, p.PageNumber)
	}
	return nums
}

// RankPagesByKeywordDensity orders successfully transcribed pages by
// how densely they mention appraisal-field vocabulary, most relevant
// first. Callers use it to truncate the text payload sent to field
// extraction without losing the pages that matter.
func RankPagesByKeywordDensity(results []types.OcrPageResult) []types.OcrPageResult {
	keywords := sections.AllKeywords()

	type ranked struct {
		result  types.OcrPageResult
		density float64
	}
	rankedPages := make([]ranked, 0, len(results))
	for _, r := range results {
		if r.Status != types.OcrOK || r.Chars == 0 {
			continue
		}
		lower := strings.ToLower(r.Text)
		hits := 0
		for _, kw := range keywords {
			hits += strings.Count(lower, kw)
		}
		rankedPages = append(rankedPages, ranked{
			result:  r,
			density: float64(hits) / float64(r.Chars),
		})
	}

	sort.SliceStable(rankedPages, func(i, j int) bool {
		if rankedPages[i].density != rankedPages[j].density {
			return rankedPages[i].density > rankedPages[j].density
		}
		return rankedPages[i].result.Page < rankedPages[j].result.Page
	})

	out := make([]types.OcrPageResult, 0, len(rankedPages))
	for _, r := range rankedPages {
		out = append(out, r.result)
	}
	return out
}
