package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/periscan/periscan/internal/api"
	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/svcctx"
)

// maxPageNum bounds the page number accepted in image retrieval URLs.
const maxPageNum = 10000

// PageImageEndpoint handles GET /api/documents/{doc_id}/pages/{page_num}/image.
// It serves previously rendered page images for debugging. The document
// identifier is validated against a fixed safe-character pattern before
// touching the filesystem.
type PageImageEndpoint struct{}

func (e *PageImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{doc_id}/pages/{page_num}/image", e.handler
}

func (e *PageImageEndpoint) RequiresInit() bool { return true }

func (e *PageImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("doc_id")
	if !home.DocumentIDPattern.MatchString(docID) {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	pageNum, err := strconv.Atoi(r.PathValue("page_num"))
	if err != nil || pageNum < 1 || pageNum > maxPageNum {
		writeError(w, http.StatusBadRequest, "invalid page number")
		return
	}

	hd := svcctx.HomeFrom(r.Context())
	path, err := hd.RenderedPagePath(docID, pageNum)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "rendered page not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read rendered page")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (e *PageImageEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "page-image <doc-id> <page>",
		Short: "Fetch a rendered page image from the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := fmt.Sprintf("/api/documents/%s/pages/%s/image", args[0], args[1])
			data, err := client.GetBytes(cmd.Context(), path)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = fmt.Sprintf("%s_page_%s.jpg", args[0], args[1])
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file path")
	return cmd
}
