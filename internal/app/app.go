// Package app runs the scanner: it evaluates every configured pair against
// live data and ranks the resulting trade signals.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/fxscout/internal/collector"
	"github.com/newthinker/fxscout/internal/config"
	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/metrics"
	"github.com/newthinker/fxscout/internal/strategy"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Opportunity is a signal stamped with the time it was produced.
type Opportunity struct {
	core.TradeSignal
	GeneratedAt time.Time `json:"generated_at"`
}

// Skipped records a pair that produced no signal.
type Skipped struct {
	Pair  string `json:"pair"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Report is the outcome of one scan.
type Report struct {
	Top         []Opportunity `json:"top"`
	Signals     []Opportunity `json:"signals"`
	Skipped     []Skipped     `json:"skipped"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    string        `json:"duration"`
}

// App is the scan orchestrator
type App struct {
	cfg       config.ScanConfig
	source    collector.Collector
	evaluator *strategy.Evaluator
	metrics   *metrics.Registry
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a scanner reading prices from source.
func New(cfg config.ScanConfig, source collector.Collector, evaluator *strategy.Evaluator, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Interval == "" {
		cfg.Interval = "1d"
	}
	return &App{
		cfg:       cfg,
		source:    source,
		evaluator: evaluator,
		logger:    logger,
		now:       time.Now,
	}
}

// SetMetrics enables scan metrics.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// Pairs returns the configured watchlist.
func (a *App) Pairs() []string {
	return append([]string(nil), a.cfg.Pairs...)
}

// Scan evaluates all pairs and keeps the configured number of top signals.
func (a *App) Scan(ctx context.Context) (*Report, error) {
	return a.ScanTop(ctx, a.cfg.Top)
}

// ScanTop evaluates all pairs and keeps the top n signals. A pair that
// fails is reported in Skipped and does not stop the scan.
func (a *App) ScanTop(ctx context.Context, n int) (*Report, error) {
	start := a.now()

	type outcome struct {
		opp *Opportunity
		err error
	}
	results := make([]outcome, len(a.cfg.Pairs))

	p := pool.New().WithMaxGoroutines(a.cfg.Workers)
	for i, name := range a.cfg.Pairs {
		p.Go(func() {
			opp, err := a.evaluatePair(ctx, name)
			results[i] = outcome{opp: opp, err: err}
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, core.WrapError(core.ErrCollectorTimeout, fmt.Errorf("scan interrupted: %w", err))
	}

	report := &Report{
		Signals:     []Opportunity{},
		Skipped:     []Skipped{},
		GeneratedAt: start,
	}
	for i, res := range results {
		if res.err != nil {
			code := core.Code(res.err)
			report.Skipped = append(report.Skipped, Skipped{
				Pair:  a.cfg.Pairs[i],
				Code:  code,
				Error: res.err.Error(),
			})
			a.metrics.RecordSkipped(code)
			a.logger.Warn("pair skipped",
				zap.String("pair", a.cfg.Pairs[i]),
				zap.String("code", code),
				zap.Error(res.err),
			)
			continue
		}
		report.Signals = append(report.Signals, *res.opp)
		a.metrics.RecordSignal(string(res.opp.Action), res.opp.Rule)
	}

	report.Top = Rank(report.Signals, n)

	elapsed := a.now().Sub(start)
	report.Duration = elapsed.String()
	a.metrics.RecordScan(elapsed.Seconds())

	a.logger.Info("scan complete",
		zap.Int("pairs", len(a.cfg.Pairs)),
		zap.Int("signals", len(report.Signals)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("top", len(report.Top)),
		zap.Duration("duration", elapsed),
	)
	return report, nil
}

// evaluatePair fetches history and the live quote for one pair and
// classifies it.
func (a *App) evaluatePair(ctx context.Context, name string) (*Opportunity, error) {
	pair, err := core.ParsePair(name)
	if err != nil {
		return nil, err
	}

	// Calendar window wide enough to hold History trading days.
	end := a.now()
	start := end.AddDate(0, 0, -2*a.cfg.History-7)

	bars, err := a.source.FetchHistory(ctx, pair.String(), start, end, a.cfg.Interval)
	if err != nil {
		return nil, err
	}
	closes := collector.Closes(collector.Last(bars, a.cfg.History))

	quote, err := a.source.FetchQuote(ctx, pair.String())
	if err != nil {
		return nil, err
	}
	if !quote.IsValid() {
		return nil, core.WrapError(core.ErrInsufficientData, fmt.Errorf("%s: no live price (quote %v)", pair, quote.Price))
	}

	sig, err := a.evaluator.Evaluate(pair, closes, quote.Price)
	if err != nil {
		return nil, err
	}
	return &Opportunity{TradeSignal: sig, GeneratedAt: a.now()}, nil
}
