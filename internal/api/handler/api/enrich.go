package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/newthinker/fxscout/internal/api/response"
	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/enrich"
	"go.uber.org/zap"
)

const (
	maxUploadSize = 10 << 20

	// ExportLocationHeader names where the enriched file was archived.
	ExportLocationHeader = "X-Export-Location"
)

// EnrichHandler adds historical prices to an uploaded trades CSV.
type EnrichHandler struct {
	enricher *enrich.Enricher
	logger   *zap.Logger
}

// NewEnrichHandler creates a new enrich handler.
func NewEnrichHandler(enricher *enrich.Enricher, logger *zap.Logger) *EnrichHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrichHandler{enricher: enricher, logger: logger}
}

// Enrich reads the multipart field "file" and answers with the enriched
// CSV as an attachment.
func (h *EnrichHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Fail(w, core.WrapError(core.ErrInvalidInput, fmt.Errorf("parsing upload: %w", err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Fail(w, core.WrapError(core.ErrInvalidInput, errors.New("multipart field \"file\" is required")))
		return
	}
	defer file.Close()

	res, err := h.enricher.Enrich(r.Context(), file)
	if err != nil {
		response.Fail(w, err)
		return
	}

	data, err := res.Table.Bytes()
	if err != nil {
		response.Fail(w, err)
		return
	}

	if h.enricher.Exporting() {
		uri, err := h.enricher.Export(r.Context(), res)
		if err != nil {
			response.Fail(w, err)
			return
		}
		w.Header().Set(ExportLocationHeader, uri)
	}

	h.logger.Debug("enrich upload served",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.Int("rows", len(res.Table.Rows)),
		zap.Int("dropped", res.Dropped),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="enriched_trades.csv"`)
	w.Header().Set("X-Rows-Dropped", fmt.Sprint(res.Dropped))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
