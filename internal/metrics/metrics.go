package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics. A nil *Registry is valid and
// records nothing, so components can take one optionally.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Scan metrics
	signalsGenerated *prometheus.CounterVec
	pairsSkipped     *prometheus.CounterVec
	scansTotal       prometheus.Counter
	scanDuration     prometheus.Histogram

	// Enrichment metrics
	enrichRows    *prometheus.CounterVec
	enrichLookups *prometheus.CounterVec
	exportsTotal  *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.signalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxscout_signals_generated_total",
			Help: "Signals produced by the classifier",
		},
		[]string{"action", "tier"},
	)
	r.pairsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxscout_pairs_skipped_total",
			Help: "Pairs left out of a scan, by error code",
		},
		[]string{"code"},
	)
	r.scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fxscout_scans_total",
			Help: "Completed scans",
		},
	)
	r.scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxscout_scan_duration_seconds",
			Help:    "Scan duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)
	r.enrichRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxscout_enrich_rows_total",
			Help: "Enrichment input rows by outcome",
		},
		[]string{"outcome"},
	)
	r.enrichLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxscout_enrich_lookups_total",
			Help: "Distinct ticker/date price lookups by status",
		},
		[]string{"status"},
	)
	r.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxscout_exports_total",
			Help: "Enriched file exports by status",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.pairsSkipped)
	reg.MustRegister(r.scansTotal)
	reg.MustRegister(r.scanDuration)
	reg.MustRegister(r.enrichRows)
	reg.MustRegister(r.enrichLookups)
	reg.MustRegister(r.exportsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	if r == nil {
		return
	}
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	if r == nil {
		return
	}
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	if r == nil {
		return
	}
	r.httpRequestsInFlight.Dec()
}

// RecordSignal counts a classified signal.
func (r *Registry) RecordSignal(action string, tier int) {
	if r == nil {
		return
	}
	r.signalsGenerated.WithLabelValues(action, strconv.Itoa(tier)).Inc()
}

// RecordSkipped counts a pair dropped from a scan.
func (r *Registry) RecordSkipped(code string) {
	if r == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	r.pairsSkipped.WithLabelValues(code).Inc()
}

// RecordScan records a scan completion.
func (r *Registry) RecordScan(duration float64) {
	if r == nil {
		return
	}
	r.scansTotal.Inc()
	r.scanDuration.Observe(duration)
}

// RecordEnrich adds per-outcome row counts for one enrichment run.
func (r *Registry) RecordEnrich(enriched, dropped, unpriced int) {
	if r == nil {
		return
	}
	r.enrichRows.WithLabelValues("enriched").Add(float64(enriched))
	r.enrichRows.WithLabelValues("dropped").Add(float64(dropped))
	r.enrichRows.WithLabelValues("unpriced").Add(float64(unpriced))
}

// RecordLookup counts one price lookup.
func (r *Registry) RecordLookup(ok bool) {
	if r == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.enrichLookups.WithLabelValues(status).Inc()
}

// RecordExport counts one export attempt.
func (r *Registry) RecordExport(err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	r.exportsTotal.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
