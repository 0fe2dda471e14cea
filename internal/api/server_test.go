package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/fxscout/internal/app"
	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/enrich"
	"github.com/newthinker/fxscout/internal/indicator"
	"github.com/newthinker/fxscout/internal/metrics"
	"github.com/newthinker/fxscout/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptyScanner struct{}

func (emptyScanner) ScanTop(ctx context.Context, n int) (*app.Report, error) {
	return &app.Report{Top: []app.Opportunity{}, Signals: []app.Opportunity{}, Skipped: []app.Skipped{}}, nil
}

type noHistory struct{}

func (noHistory) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	return nil, core.ErrNoData
}

func testDeps(reg *metrics.Registry) Dependencies {
	return Dependencies{
		Scanner: emptyScanner{},
		Evaluator: strategy.NewEvaluator(
			indicator.NewEngine(indicator.DefaultConfig()),
			strategy.NewClassifier(strategy.DefaultConfig()),
		),
		Enricher: enrich.New(noHistory{}),
		Metrics:  reg,
	}
}

func serve(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	srv, err := NewServer(Config{Host: "localhost", Port: 0}, testDeps(nil), zap.NewNop())
	require.NoError(t, err)

	w := serve(t, srv, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(metrics.RequestIDHeader))
}

func TestServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(Config{}, Dependencies{}, nil)
	assert.Error(t, err)
}

func TestServer_APIAuth(t *testing.T) {
	srv, err := NewServer(Config{APIKey: "test-key"}, testDeps(nil), zap.NewNop())
	require.NoError(t, err)

	w := serve(t, srv, httptest.NewRequest("GET", "/api/v1/signals", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/api/v1/signals", nil)
	req.Header.Set("X-API-Key", "test-key")
	w = serve(t, srv, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), app.NoOpportunities)

	// health stays open
	w = serve(t, srv, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Evaluate(t *testing.T) {
	srv, err := NewServer(Config{}, testDeps(nil), zap.NewNop())
	require.NoError(t, err)

	body := `{"pair":"EUR/USD","prices":[1,2,3],"live":1}`
	w := serve(t, srv, httptest.NewRequest("POST", "/api/v1/evaluate", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, err := NewServer(Config{}, testDeps(nil), zap.NewNop())
	require.NoError(t, err)

	w := serve(t, srv, httptest.NewRequest("GET", "/api/v1/evaluate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	srv, err := NewServer(Config{MetricsPath: "/metrics"}, testDeps(reg), zap.NewNop())
	require.NoError(t, err)

	serve(t, srv, httptest.NewRequest("GET", "/api/health", nil))

	w := serve(t, srv, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="GET /api/health",status="2xx"} 1`)
}

func TestServer_MetricsDisabled(t *testing.T) {
	srv, err := NewServer(Config{}, testDeps(nil), zap.NewNop())
	require.NoError(t, err)

	w := serve(t, srv, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
