// Package quality decides whether a PDF's extracted text layer is usable
// or whether the document must escalate to page rendering and OCR.
package quality

import "strings"

// Reason tags for classifier verdicts, machine readable.
const (
	ReasonOK                 = "ok"
	ReasonTooShort           = "too_short"
	ReasonLowAvgChars        = "low_avg_chars_per_page"
	ReasonRepeatedDisclaimer = "repeated_disclaimer"
	ReasonWatermarkDominated = "watermark_dominated"
	ReasonLowUniqueTokens    = "low_unique_tokens"
)

// Fixed thresholds. Documents are rejected for cheap size reasons before
// the repetition and vocabulary analysis is even meaningful.
const (
	minTotalLength        = 1200
	minAvgCharsPerPage    = 200
	maxRepetitionScore    = 0.20
	maxWatermarkDensity   = 0.25
	watermarkLengthCeil   = 8000
	minUniqueTokenRatio   = 0.12
	uniqueTokenLengthCeil = 6000
)

// watermarkVocabulary is the fixed disclaimer/stamp/portal-branding
// vocabulary matched against lower-cased text.
var watermarkVocabulary = []string{
	"astalegale",
	"aste giudiziarie",
	"portale delle vendite pubbliche",
	"pvp.giustizia",
	"copia conforme",
	"firmato digitalmente",
	"documento informatico",
	"riproduzione vietata",
	"tutti i diritti riservati",
	"edicomstore",
	"copia su supporto analogico",
	"ai sensi del d.lgs",
	"pagina pubblicata",
	"watermark",
}

// Metrics are the raw measurements behind a verdict, surfaced so a
// rejected document can be diagnosed without re-running the classifier.
type Metrics struct {
	Length           int     `json:"length"`
	AvgCharsPerPage  float64 `json:"avg_chars_per_page"`
	WatermarkHits    int     `json:"watermark_hits"`
	WatermarkDensity float64 `json:"watermark_density"`
	RepetitionScore  float64 `json:"repetition_score"`
	UniqueTokenRatio float64 `json:"unique_token_ratio"`
}

// Verdict is the classifier outcome.
type Verdict struct {
	Usable  bool    `json:"usable"`
	Reason  string  `json:"reason"`
	Metrics Metrics `json:"metrics"`
}

// Classify examines concatenated extracted text against the page count and
// decides whether the text layer is usable. The first failing check wins.
func Classify(text string, pageCount int) Verdict {
	m := measure(text, pageCount)

	switch {
	case m.Length < minTotalLength:
		return Verdict{Usable: false, Reason: ReasonTooShort, Metrics: m}
	case m.AvgCharsPerPage < minAvgCharsPerPage:
		return Verdict{Usable: false, Reason: ReasonLowAvgChars, Metrics: m}
	case m.RepetitionScore > maxRepetitionScore:
		return Verdict{Usable: false, Reason: ReasonRepeatedDisclaimer, Metrics: m}
	case m.WatermarkDensity > maxWatermarkDensity && m.Length < watermarkLengthCeil:
		return Verdict{Usable: false, Reason: ReasonWatermarkDominated, Metrics: m}
	case m.UniqueTokenRatio < minUniqueTokenRatio && m.Length < uniqueTokenLengthCeil:
		return Verdict{Usable: false, Reason: ReasonLowUniqueTokens, Metrics: m}
	default:
		return Verdict{Usable: true, Reason: ReasonOK, Metrics: m}
	}
}

func measure(text string, pageCount int) Metrics {
	m := Metrics{Length: len(text)}

	if pageCount > 0 {
		m.AvgCharsPerPage = float64(m.Length) / float64(pageCount)
	} else {
		m.AvgCharsPerPage = float64(m.Length)
	}

	lower := strings.ToLower(text)
	for _, w := range watermarkVocabulary {
		m.WatermarkHits += strings.Count(lower, w)
	}
	if m.Length > 0 {
		m.WatermarkDensity = float64(m.WatermarkHits*40) / float64(m.Length)
	}

	m.RepetitionScore = repetitionScore(text)
	m.UniqueTokenRatio = uniqueTokenRatio(lower)
	return m
}

// repetitionScore is the fraction of lines longer than 15 chars that share
// the single most frequent normalized line value. A high score means the
// same disclaimer is stamped on every page.
func repetitionScore(text string) float64 {
	counts := make(map[string]int)
	total := 0
	for _, line := range strings.Split(text, "\n") {
		norm := strings.ToLower(strings.TrimSpace(line))
		if len(norm) <= 15 {
			continue
		}
		counts[norm]++
		total++
	}
	if total == 0 {
		return 0
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return float64(max) / float64(total)
}

// uniqueTokenRatio is distinct tokens longer than 2 chars divided by the
// total token count.
func uniqueTokenRatio(lower string) float64 {
	tokens := strings.Fields(lower)
	if len(tokens) == 0 {
		return 0
	}
	distinct := make(map[string]struct{})
	for _, tok := range tokens {
		if len(tok) > 2 {
			distinct[tok] = struct{}{}
		}
	}
	return float64(len(distinct)) / float64(len(tokens))
}
