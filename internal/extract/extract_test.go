package extract

import (
	"strings"
	"testing"

	"github.com/periscan/periscan/internal/types"
)

func TestExtractActs_HeadingAndVocabulary(t *testing.T) {
	pages := []types.PageText{
		{Page: 1, Text: "Tribunale di Milano. Esecuzione immobiliare n. 123/2024. Perizia estimativa."},
		{Page: 3, Text: "CAPITOLO 4 - ATTI ANTECEDENTI E PROVENIENZA\n" +
			"L'immobile è pervenuto all'esecutato con atto di compravendita del 12/05/2010, " +
			"rep. 4521, notaio Bianchi. Sul bene grava iscrizione di ipoteca volontaria " +
			"a favore della banca mutuante, trascritta in data 03/06/2010."},
	}

	result := ExtractActs(pages)

	if result.Status != types.StatusFound {
		t.Fatalf("status = %q, want %q", result.Status, types.StatusFound)
	}
	if result.Confidence <= 0 {
		t.Errorf("confidence = %v, want > 0", result.Confidence)
	}
	if len(result.Citations) == 0 || result.Citations[0].Page != 3 {
		t.Fatalf("citations = %+v, want first citation on page 3", result.Citations)
	}

	best := result.Candidates[0]
	if !strings.Contains(best.Value.TipoAtto, "compravendita") ||
		!strings.Contains(best.Value.TipoAtto, "ipoteca") {
		t.Errorf("TipoAtto = %q, want both compravendita and ipoteca", best.Value.TipoAtto)
	}
	if best.Value.Data != "2010-05-12" {
		t.Errorf("Data = %q, want 2010-05-12", best.Value.Data)
	}
}

func TestExtractLegalCosts_AmountAndRecencyFlag(t *testing.T) {
	pages := []types.PageText{
		{Page: 7, Text: "STATO DEI PAGAMENTI\n" +
			"Dall'amministratore di condominio risultano spese condominiali arretrate " +
			"ultimi due anni: € 3.450,00, oltre oneri accessori non quantificati."},
	}

	result := ExtractLegalCosts(pages)

	if result.Status != types.StatusFound {
		t.Fatalf("status = %q, want %q", result.Status, types.StatusFound)
	}
	best := result.Candidates[0]
	if best.Value.Importo != 3450 {
		t.Errorf("Importo = %v, want 3450", best.Value.Importo)
	}
	if !best.Value.UltimiDueAnni {
		t.Error("UltimiDueAnni = false, want true")
	}
	if best.Citations[0].Page != 7 {
		t.Errorf("citation page = %d, want 7", best.Citations[0].Page)
	}
}

func TestExtractLegalCosts_NoAmountPenalty(t *testing.T) {
	pages := []types.PageText{
		{Page: 2, Text: "Si segnala la presenza di spese condominiali arretrate e morosità " +
			"dell'esecutato, il cui ammontare non è stato comunicato dall'amministratore."},
	}

	result := ExtractLegalCosts(pages)

	if result.Status != types.StatusFound {
		t.Fatalf("status = %q, want %q", result.Status, types.StatusFound)
	}
	best := result.Candidates[0]
	if best.Value.Importo != 0 {
		t.Errorf("Importo = %v, want 0", best.Value.Importo)
	}
	if best.Confidence < 0 {
		t.Errorf("confidence = %v, want >= 0 (penalty floored)", best.Confidence)
	}
}

func TestExtractIrregularities_CategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCategory string
		wantSeverity string
	}{
		{
			name: "abuso is edilizia alta",
			text: "Si rileva un abuso edilizio consistente in opere abusive realizzate " +
				"senza titolo, non sanabile secondo la normativa vigente.",
			wantCategory: "edilizia",
			wantSeverity: types.SeverityAlta,
		},
		{
			name: "lieve difformita catastale is bassa",
			text: "La planimetria catastale presenta una lieve difformità rispetto allo " +
				"stato dei luoghi, rientrante nella tolleranza del due per cento.",
			wantCategory: "catastale",
			wantSeverity: types.SeverityBassa,
		},
		{
			name: "concessione edilizia is urbanistica media",
			text: "L'ampliamento risulta eseguito in assenza di concessione edilizia; " +
				"la destinazione d'uso non è conforme al piano regolatore vigente.",
			wantCategory: "urbanistica",
			wantSeverity: types.SeverityMedia,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractIrregularities([]types.PageText{{Page: 5, Text: tt.text}})
			if result.Status != types.StatusFound {
				t.Fatalf("status = %q, want %q", result.Status, types.StatusFound)
			}
			best := result.Candidates[0]
			if best.Value.Categoria != tt.wantCategory {
				t.Errorf("Categoria = %q, want %q", best.Value.Categoria, tt.wantCategory)
			}
			if best.Value.Severita != tt.wantSeverity {
				t.Errorf("Severita = %q, want %q", best.Value.Severita, tt.wantSeverity)
			}
		})
	}
}

func TestExtractIrregularities_ImpactNote(t *testing.T) {
	pages := []types.PageText{
		{Page: 4, Text: "Le difformità riscontrate sono sanabili mediante presentazione di " +
			"sanatoria; sono necessari lavori di ripristino delle aperture originarie."},
	}

	result := ExtractIrregularities(pages)
	best := result.Candidates[0]
	if !strings.Contains(best.Value.Impatto, "regolarizzabile") {
		t.Errorf("Impatto = %q, want regularizability note", best.Value.Impatto)
	}
	if !strings.Contains(best.Value.Impatto, "richiede interventi") {
		t.Errorf("Impatto = %q, want works-needed note", best.Value.Impatto)
	}
}

func TestExtractExpertValue_PriorityAndRange(t *testing.T) {
	pages := []types.PageText{
		{Page: 10, Text: "DETERMINAZIONE DEL PREZZO BASE\n" +
			"Si propone quale prezzo base d'asta l'importo di € 96.000,00, " +
			"tenuto conto della riduzione per assenza di garanzia."},
		{Page: 9, Text: "GIUDIZIO DI STIMA\n" +
			"Il più probabile valore di stima dell'immobile nello stato di fatto e di " +
			"diritto in cui si trova è pari a € 120.000,00, con un intervallo compreso " +
			"tra € 110.000,00 ed € 128.000,00 in funzione delle condizioni di vendita."},
	}

	result := ExtractExpertValue(pages)

	if result.Status != types.StatusFound {
		t.Fatalf("status = %q, want %q", result.Status, types.StatusFound)
	}
	best := result.Candidates[0]
	if best.Value.TipoValore != "valore di stima" {
		t.Errorf("TipoValore = %q, want valore di stima (priority over prezzo base)", best.Value.TipoValore)
	}
	if best.Value.Valore != 128000 {
		t.Errorf("Valore = %v, want 128000 (max amount in window)", best.Value.Valore)
	}
	if best.Value.ValoreMin != 110000 || best.Value.ValoreMax != 128000 {
		t.Errorf("range = [%v, %v], want [110000, 128000]", best.Value.ValoreMin, best.Value.ValoreMax)
	}
	if best.Citations[0].Page != 9 {
		t.Errorf("citation page = %d, want 9", best.Citations[0].Page)
	}
}

func TestExtractors_NotFoundSentinels(t *testing.T) {
	pages := []types.PageText{
		{Page: 1, Text: "Documento amministrativo generico privo di contenuti rilevanti. " +
			"Elenco allegati e riferimenti di protocollo interni."},
	}

	checkSentinel := func(t *testing.T, status types.FieldStatus, confidence float64, reasons []string) {
		t.Helper()
		if status != types.StatusNotFound {
			t.Errorf("status = %q, want %q", status, types.StatusNotFound)
		}
		if confidence != 0 {
			t.Errorf("confidence = %v, want 0", confidence)
		}
		if len(reasons) != 1 {
			t.Fatalf("got %d candidates, want exactly 1 sentinel", len(reasons))
		}
		if !strings.Contains(reasons[0], "cercare manualmente") {
			t.Errorf("reason = %q, want a manual-search suggestion", reasons[0])
		}
	}

	atti := ExtractActs(pages)
	checkSentinel(t, atti.Status, atti.Confidence, []string{atti.Candidates[0].Reason})

	spese := ExtractLegalCosts(pages)
	checkSentinel(t, spese.Status, spese.Confidence, []string{spese.Candidates[0].Reason})

	irr := ExtractIrregularities(pages)
	checkSentinel(t, irr.Status, irr.Confidence, []string{irr.Candidates[0].Reason})

	valore := ExtractExpertValue(pages)
	checkSentinel(t, valore.Status, valore.Confidence, []string{valore.Candidates[0].Reason})
}
