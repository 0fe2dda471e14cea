package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/newthinker/fxscout/internal/api/response"
	"github.com/newthinker/fxscout/internal/core"
)

// maxEvaluateBody caps the evaluate request size.
const maxEvaluateBody = 1 << 20

// Evaluator classifies a pair from a price series and a live price.
type Evaluator interface {
	Evaluate(pair core.Pair, prices []float64, live float64) (core.TradeSignal, error)
}

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Pair   string    `json:"pair"`
	Prices []float64 `json:"prices"`
	Live   float64   `json:"live"`
}

// EvaluateHandler runs a single evaluation on caller-supplied prices.
type EvaluateHandler struct {
	evaluator Evaluator
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(evaluator Evaluator) *EvaluateHandler {
	return &EvaluateHandler{evaluator: evaluator}
}

// Evaluate decodes the request and returns the resulting signal.
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		response.Fail(w, core.WrapError(core.ErrInvalidInput, fmt.Errorf("decoding body: %w", err)))
		return
	}

	pair, err := core.ParsePair(req.Pair)
	if err != nil {
		response.Fail(w, err)
		return
	}
	sig, err := h.evaluator.Evaluate(pair, req.Prices, req.Live)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, sig)
}
