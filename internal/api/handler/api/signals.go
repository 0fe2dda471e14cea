package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/newthinker/fxscout/internal/api/response"
	"github.com/newthinker/fxscout/internal/app"
	"github.com/newthinker/fxscout/internal/core"
)

// maxTop bounds the top query parameter.
const maxTop = 50

// Scanner runs a scan over the configured pairs.
type Scanner interface {
	ScanTop(ctx context.Context, n int) (*app.Report, error)
}

// SignalsHandler serves ranked scan results.
type SignalsHandler struct {
	scanner    Scanner
	defaultTop int
}

// NewSignalsHandler creates a new signals handler.
func NewSignalsHandler(scanner Scanner, defaultTop int) *SignalsHandler {
	if defaultTop < 1 {
		defaultTop = 3
	}
	return &SignalsHandler{scanner: scanner, defaultTop: defaultTop}
}

// List scans every pair and returns the top signals plus skipped pairs.
func (h *SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	top := h.defaultTop
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTop {
			response.Fail(w, core.WrapError(core.ErrInvalidInput,
				errors.New("top must be an integer between 1 and 50")))
			return
		}
		top = n
	}

	report, err := h.scanner.ScanTop(r.Context(), top)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"signals":      report.Top,
		"evaluated":    len(report.Signals),
		"skipped":      report.Skipped,
		"message":      emptyMessage(report),
		"generated_at": report.GeneratedAt,
	})
}

func emptyMessage(r *app.Report) string {
	if len(r.Top) == 0 {
		return app.NoOpportunities
	}
	return ""
}
