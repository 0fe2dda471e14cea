package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newthinker/fxscout/internal/core"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// statusByCode is the single mapping from error codes to HTTP statuses.
var statusByCode = map[string]int{
	core.ErrInvalidInput.Code:        http.StatusBadRequest,
	core.ErrUnauthorized.Code:        http.StatusUnauthorized,
	core.ErrSymbolNotFound.Code:      http.StatusNotFound,
	core.ErrNoData.Code:              http.StatusNotFound,
	core.ErrInsufficientData.Code:    http.StatusUnprocessableEntity,
	core.ErrDegenerateIndicator.Code: http.StatusUnprocessableEntity,
	core.ErrCollectorFailed.Code:     http.StatusBadGateway,
	core.ErrExportFailed.Code:        http.StatusBadGateway,
	core.ErrCollectorTimeout.Code:    http.StatusGatewayTimeout,
}

// StatusFor returns the HTTP status for err's code, 500 when unmapped.
func StatusFor(err error) int {
	if status, ok := statusByCode[core.Code(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// JSON writes a success response with data.
func JSON(w http.ResponseWriter, status int, data any) {
	resp := SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, err error) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}

	resp := ErrorResponse{Error: detail}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Fail writes err with the status its code maps to.
func Fail(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
