package types

// WhitenessUnknown marks a page whose brightness could not be sampled.
// It must never by itself imply blankness.
const WhitenessUnknown = -1.0

// RenderedPage is a rasterized PDF page with its blankness classification.
type RenderedPage struct {
	PageNumber int     `json:"page_number"`
	ImageBytes []byte  `json:"-"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Whiteness  float64 `json:"whiteness"` // [0,1], or WhitenessUnknown
	IsBlank    bool    `json:"is_blank"`
	Error      string  `json:"error,omitempty"` // render failure note, page kept as placeholder
}

// OcrStatus classifies the outcome of OCR for a single page.
type OcrStatus string

const (
	// OcrOK means the page was transcribed successfully.
	OcrOK OcrStatus = "ok"
	// OcrEmpty means the model returned the blank sentinel, near-empty
	// text, or a response that could not be split per page.
	OcrEmpty OcrStatus = "empty"
	// OcrSkippedBlank means the page was classified blank before any call.
	OcrSkippedBlank OcrStatus = "skipped_blank"
	// OcrRateLimited means retries were exhausted on rate-limit responses.
	OcrRateLimited OcrStatus = "rate_limited"
	// OcrFailed means a non-retryable error terminated OCR for this page.
	OcrFailed OcrStatus = "failed"
)

// OcrPageResult is the per-page outcome of the vision-OCR orchestrator.
type OcrPageResult struct {
	Page   int       `json:"page"`
	Text   string    `json:"text"`
	Chars  int       `json:"chars"`
	Status OcrStatus `json:"status"`
}
