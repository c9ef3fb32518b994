package extract

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/ocr"
	"github.com/periscan/periscan/internal/pdftext"
	"github.com/periscan/periscan/internal/providers"
	"github.com/periscan/periscan/internal/render"
	"github.com/periscan/periscan/internal/types"
)

type stubEngine struct {
	name   string
	result *pdftext.Result
	err    error
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Extract([]byte) (*pdftext.Result, error) {
	return s.result, s.err
}

func perizia() *pdftext.Result {
	return &pdftext.Result{
		TotalPages: 9,
		Pages: []types.PageText{
			{Page: 1, Text: "Tribunale di Milano. Esecuzione immobiliare n. 123/2024. " +
				"Perizia estimativa dell'appartamento sito in via Roma 10, piano secondo, " +
				"composto da tre locali oltre servizi e cantina pertinenziale, redatta " +
				"dal perito incaricato a seguito di sopralluogo svolto in contraddittorio " +
				"con il custode giudiziario. La presente relazione descrive lo stato di " +
				"fatto e di diritto del compendio pignorato, le risultanze delle verifiche " +
				"ipocatastali eseguite presso i pubblici registri e gli esiti delle " +
				"indagini presso gli uffici comunali competenti."},
			{Page: 3, Text: "CAPITOLO 4 - ATTI ANTECEDENTI E PROVENIENZA\n" +
				"L'immobile è pervenuto all'esecutato con atto di compravendita del " +
				"12/05/2010, rep. 4521, notaio Bianchi. Sul bene grava iscrizione di " +
				"ipoteca volontaria a favore della banca mutuante, oltre alla formalità " +
				"derivante dal procedimento esecutivo in corso. Il ventennio catastale " +
				"risulta ricostruito senza soluzione di continuità nei passaggi di " +
				"proprietà intermedi, come documentato dagli allegati alla relazione."},
			{Page: 7, Text: "STATO DEI PAGAMENTI\nDall'amministratore risultano spese " +
				"condominiali arretrate ultimi due anni: € 3.450,00, oltre oneri " +
				"accessori non ancora quantificati alla data del sopralluogo. Il " +
				"regolamento condominiale non contiene clausole limitative della " +
				"commerciabilità e il bilancio preventivo approvato non prevede " +
				"interventi straordinari deliberati a carico dell'unità in esame."},
			{Page: 8, Text: "REGOLARITÀ EDILIZIA\nSi rileva una lieve difformità della " +
				"planimetria catastale rispetto allo stato dei luoghi, regolarizzabile " +
				"mediante aggiornamento della scheda presso l'agenzia del territorio. " +
				"Il fabbricato risulta edificato in forza di licenza originaria e " +
				"successiva concessione per l'ampliamento del corpo scale, con " +
				"certificato di abitabilità rilasciato dal comune in data antecedente."},
			{Page: 9, Text: "GIUDIZIO DI STIMA\nIl più probabile valore di stima " +
				"dell'immobile nello stato di fatto e di diritto in cui si trova è pari " +
				"a € 120.000,00, determinato con il metodo comparativo sulla base delle " +
				"quotazioni di zona e delle condizioni manutentive riscontrate, tenuto " +
				"conto della vetustà degli impianti e della necessità di opere di " +
				"ordinaria manutenzione alle finiture interne dell'alloggio."},
		},
	}
}

func newTestPipeline(t *testing.T, engine pdftext.Engine, mock *providers.MockVisionClient) (*Pipeline, *home.Dir) {
	t.Helper()
	hd, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New: %v", err)
	}
	if err := hd.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPipeline(PipelineConfig{
		Chain:    pdftext.NewChainWithEngines([]pdftext.Engine{engine}, log),
		Renderer: render.NewRenderer(render.Config{Home: hd, Logger: log}),
		Ocr:      ocr.New(ocr.Config{Client: mock, Logger: log}),
		Home:     hd,
		Logger:   log,
	}), hd
}

func TestAnalyze_UsableTextLayer(t *testing.T) {
	mock := &providers.MockVisionClient{}
	p, _ := newTestPipeline(t, &stubEngine{name: "stub", result: perizia()}, mock)

	report, err := p.Analyze(context.Background(), []byte("%PDF-1.7 test bytes"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.Source != SourceTextLayer {
		t.Errorf("Source = %q, want %q", report.Source, SourceTextLayer)
	}
	if report.Engine != "stub" {
		t.Errorf("Engine = %q, want stub", report.Engine)
	}
	if !report.Quality.Usable {
		t.Fatalf("quality rejected usable fixture: %+v", report.Quality)
	}
	if len(mock.Calls()) != 0 {
		t.Errorf("vision provider called for a usable text layer")
	}

	for name, status := range map[string]types.FieldStatus{
		"atti":         report.Atti.Status,
		"spese":        report.Spese.Status,
		"irregolarita": report.Irregolarita.Status,
		"valore":       report.Valore.Status,
	} {
		if status != types.StatusFound {
			t.Errorf("%s status = %q, want %q", name, status, types.StatusFound)
		}
	}
	if report.Spese.Candidates[0].Value.Importo != 3450 {
		t.Errorf("Importo = %v, want 3450", report.Spese.Candidates[0].Value.Importo)
	}
}

func TestAnalyze_RejectedTextEscalatesAndCleansUp(t *testing.T) {
	// Text too short for the quality gate; rendering falls back to blank
	// placeholders when rasterization fails, so OCR short-circuits and
	// every field ends on the sentinel path.
	short := &pdftext.Result{
		TotalPages: 4,
		Pages:      []types.PageText{{Page: 1, Text: "indice degli allegati"}},
	}
	mock := &providers.MockVisionClient{}
	p, hd := newTestPipeline(t, &stubEngine{name: "stub", result: short}, mock)

	report, err := p.Analyze(context.Background(), []byte("%PDF-1.7 test bytes"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.Source != SourceVisionOCR {
		t.Errorf("Source = %q, want %q", report.Source, SourceVisionOCR)
	}
	if report.Quality.Usable || report.Quality.Reason != "too_short" {
		t.Errorf("quality = %+v, want too_short rejection", report.Quality)
	}
	if len(report.OcrPages) == 0 {
		t.Error("report missing per-page OCR outcomes")
	}
	if report.Atti.Status != types.StatusNotFound {
		t.Errorf("atti status = %q, want %q", report.Atti.Status, types.StatusNotFound)
	}

	// Render artifacts are request-scoped: nothing may survive analysis.
	entries, err := os.ReadDir(filepath.Join(hd.Path(), "renders"))
	if err != nil {
		t.Fatalf("read renders dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("render artifacts leaked: %v", entries)
	}
}

func TestAnalyze_InvalidHeaderFatal(t *testing.T) {
	mock := &providers.MockVisionClient{}
	p, _ := newTestPipeline(t, &stubEngine{name: "stub", result: perizia()}, mock)

	_, err := p.Analyze(context.Background(), []byte("not a pdf at all"))
	if !errors.Is(err, pdftext.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestAnalyze_AllEnginesFailedFatal(t *testing.T) {
	mock := &providers.MockVisionClient{}
	p, _ := newTestPipeline(t, &stubEngine{name: "stub", err: errors.New("boom")}, mock)

	_, err := p.Analyze(context.Background(), []byte("%PDF-1.7 test bytes"))
	var allFailed *pdftext.AllEnginesFailedError
	if !errors.As(err, &allFailed) {
		t.Fatalf("error = %v, want AllEnginesFailedError", err)
	}
}
