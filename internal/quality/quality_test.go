package quality

import (
	"strings"
	"testing"
)

// realistic body text fragment, varied vocabulary
const bodyFragment = `Il sottoscritto perito, esaminati gli atti del procedimento ` +
	`esecutivo, ha rilevato che il compendio pignorato consiste in un appartamento ` +
	`sito al terzo piano con annessa cantina e posto auto scoperto. `

var detailFragments = []string{
	"La descrizione prosegue con dettagli catastali, confini e consistenza dei beni.\n",
	"Le visure ipotecarie evidenziano formalita pregiudizievoli iscritte e trascritte.\n",
	"Lo stato di occupazione risulta accertato mediante sopralluogo del tecnico.\n",
	"La conformita urbanistica viene verificata presso gli uffici comunali competenti.\n",
	"Il valore commerciale tiene conto delle condizioni manutentive riscontrate.\n",
}

func usableText(pages int) string {
	var b strings.Builder
	for i := 0; i < pages; i++ {
		b.WriteString(bodyFragment)
		b.WriteString(detailFragments[i%len(detailFragments)])
	}
	return b.String()
}

func TestClassify_TooShort(t *testing.T) {
	// Rejected on length alone, regardless of other metrics.
	v := Classify(strings.Repeat("a", 900), 1)
	if v.Usable {
		t.Fatal("want rejection")
	}
	if v.Reason != ReasonTooShort {
		t.Errorf("Reason = %q, want %q", v.Reason, ReasonTooShort)
	}
	if v.Metrics.Length != 900 {
		t.Errorf("Length = %d, want 900", v.Metrics.Length)
	}
}

func TestClassify_LowAvgCharsPerPage(t *testing.T) {
	// 1500 chars over 20 pages: long enough, but far too sparse.
	v := Classify(usableText(8)[:1500], 20)
	if v.Usable || v.Reason != ReasonLowAvgChars {
		t.Errorf("got %+v, want %s rejection", v, ReasonLowAvgChars)
	}
}

func TestClassify_RepeatedDisclaimer(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Documento privo di valore legale estratto dal fascicolo telematico\n")
	}
	// a little distinct content so length passes
	b.WriteString(usableText(2))
	v := Classify(b.String(), 5)
	if v.Usable || v.Reason != ReasonRepeatedDisclaimer {
		t.Errorf("got reason %q, want %q", v.Reason, ReasonRepeatedDisclaimer)
	}
	if v.Metrics.RepetitionScore <= 0.20 {
		t.Errorf("RepetitionScore = %v, want > 0.20", v.Metrics.RepetitionScore)
	}
}

func TestClassify_WatermarkDominated(t *testing.T) {
	// Many watermark hits with distinct surrounding tokens and distinct
	// lines, under the 8000-char ceiling.
	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString("astalegale rete aste giudiziarie avviso numero ")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(" riferimento pratica codice univoco differente\n")
	}
	text := b.String()
	v := Classify(text, 2)
	if v.Usable {
		t.Fatalf("want rejection, metrics %+v", v.Metrics)
	}
	if v.Reason != ReasonWatermarkDominated {
		t.Errorf("Reason = %q, want %q (metrics %+v)", v.Reason, ReasonWatermarkDominated, v.Metrics)
	}
}

func TestClassify_LowUniqueTokens(t *testing.T) {
	// Same few tokens repeated on distinct lines: vocabulary collapse.
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString(strings.Repeat("foglio particella subalterno ", 12))
		b.WriteString("riga")
		b.WriteByte(byte('a' + i))
		b.WriteString("\n")
	}
	v := Classify(b.String(), 2)
	if v.Usable || v.Reason != ReasonLowUniqueTokens {
		t.Errorf("got reason %q (metrics %+v), want %q", v.Reason, v.Metrics, ReasonLowUniqueTokens)
	}
}

func TestClassify_OK(t *testing.T) {
	v := Classify(usableText(10), 10)
	if !v.Usable {
		t.Fatalf("want usable, got %q with metrics %+v", v.Reason, v.Metrics)
	}
	if v.Reason != ReasonOK {
		t.Errorf("Reason = %q, want %q", v.Reason, ReasonOK)
	}
}

func TestClassify_OrderShortBeforeRepetition(t *testing.T) {
	// A short document full of repeated lines must still report too_short:
	// size checks come before the repetition analysis.
	text := strings.Repeat("Riproduzione riservata a uso esclusivo del tribunale\n", 10)
	if len(text) >= 1200 {
		t.Fatal("test fixture grew past the length threshold")
	}
	v := Classify(text, 1)
	if v.Reason != ReasonTooShort {
		t.Errorf("Reason = %q, want %q", v.Reason, ReasonTooShort)
	}
}
