package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddleware(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	wrapped := HTTPMiddleware(reg)(handler)

	req := httptest.NewRequest("GET", "/api/v1/signals", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, counter(t, reg, "http_requests_total", map[string]string{"path": "/api/v1/signals"}))
	assert.NotNil(t, find(t, reg, "http_request_duration_seconds"))
}

func TestHTTPMiddleware_UsesRoutePattern(t *testing.T) {
	reg := NewRegistry()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items/{id}", func(w http.ResponseWriter, r *http.Request) {})

	wrapped := HTTPMiddleware(reg)(mux)
	req := httptest.NewRequest("GET", "/api/v1/items/42", nil)
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, counter(t, reg, "http_requests_total", map[string]string{"path": "GET /api/v1/items/{id}"}))
}

func TestHTTPMiddleware_TracksInFlight(t *testing.T) {
	reg := NewRegistry()

	inFlightDuringRequest := float64(-1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mf := find(t, reg, "http_requests_in_flight"); mf != nil {
			inFlightDuringRequest = mf.GetMetric()[0].GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := HTTPMiddleware(reg)(handler)
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, 1.0, inFlightDuringRequest)

	mf := find(t, reg, "http_requests_in_flight")
	if assert.NotNil(t, mf) {
		assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
	}
}

func TestHTTPMiddleware_CapturesStatusCode(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.WriteHeader(http.StatusOK) // superfluous, ignored
	})

	wrapped := HTTPMiddleware(reg)(handler)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/evaluate", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1.0, counter(t, reg, "http_requests_total", map[string]string{"status": "4xx"}))
	assert.Equal(t, 0.0, counter(t, reg, "http_requests_total", map[string]string{"status": "2xx"}))
}

func TestHTTPMiddleware_NilRegistry(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	wrapped := HTTPMiddleware(nil)(handler)

	assert.NotPanics(t, func() {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}
