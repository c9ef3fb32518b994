package endpoints

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/periscan/periscan/internal/api"
	"github.com/periscan/periscan/internal/pdftext"
	"github.com/periscan/periscan/internal/svcctx"
)

// AnalyzeEndpoint handles POST /api/documents/analyze. It accepts a
// perizia PDF either as a multipart "file" field or as a raw
// application/pdf body and returns the analysis report.
type AnalyzeEndpoint struct{}

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.ServicesFrom(r.Context())

	maxBytes := svc.Config.Get().Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	pdfBytes, err := readPDF(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("document exceeds upload limit of %d bytes", maxBytes))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := svc.Pipeline.Analyze(r.Context(), pdfBytes)
	if err != nil {
		var allFailed *pdftext.AllEnginesFailedError
		switch {
		case errors.Is(err, pdftext.ErrInvalidDocument):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &allFailed):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			svc.Logger.Error("analysis failed", "error", err)
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// readPDF extracts PDF bytes from a multipart form or a raw body.
func readPDF(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing multipart field %q: %w", "file", err)
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Analyze an appraisal PDF via the running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			client := api.NewClient(getServerURL())
			var report map[string]any
			if err := client.PostRaw(cmd.Context(), "/api/documents/analyze", "application/pdf", data, &report); err != nil {
				return err
			}
			return api.Output(report)
		},
	}
}
