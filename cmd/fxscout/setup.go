package main

import (
	"fmt"

	"github.com/newthinker/fxscout/internal/app"
	"github.com/newthinker/fxscout/internal/collector"
	"github.com/newthinker/fxscout/internal/collector/alphavantage"
	"github.com/newthinker/fxscout/internal/collector/yahoo"
	"github.com/newthinker/fxscout/internal/config"
	"github.com/newthinker/fxscout/internal/enrich"
	"github.com/newthinker/fxscout/internal/indicator"
	"github.com/newthinker/fxscout/internal/metrics"
	"github.com/newthinker/fxscout/internal/storage/archive"
	"github.com/newthinker/fxscout/internal/strategy"
	"go.uber.org/zap"
)

func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Debug("no config file specified, using defaults and environment")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newCollectorRegistry() *collector.Registry {
	reg := collector.NewRegistry()
	reg.Register(alphavantage.New())
	reg.Register(yahoo.New())
	return reg
}

// initCollector resolves name and initializes it from cfg.
func initCollector(reg *collector.Registry, cfg *config.Config, name string) (collector.Collector, error) {
	c, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	if err := c.Init(cfg.Collectors.For(name)); err != nil {
		return nil, fmt.Errorf("init collector %s: %w", name, err)
	}
	return c, nil
}

func newEvaluator(cfg *config.Config, log *zap.Logger) *strategy.Evaluator {
	return strategy.NewEvaluator(
		indicator.NewEngine(cfg.Indicators),
		strategy.NewClassifier(cfg.Strategy),
		log,
	)
}

func newScanner(cfg *config.Config, reg *collector.Registry, m *metrics.Registry, log *zap.Logger) (*app.App, error) {
	source, err := initCollector(reg, cfg, cfg.Scan.Collector)
	if err != nil {
		return nil, err
	}
	a := app.New(cfg.Scan, source, newEvaluator(cfg, log), log)
	a.SetMetrics(m)
	return a, nil
}

func newEnricher(cfg *config.Config, reg *collector.Registry, m *metrics.Registry, log *zap.Logger) (*enrich.Enricher, error) {
	source, err := initCollector(reg, cfg, cfg.Enrich.Collector)
	if err != nil {
		return nil, err
	}

	opts := []enrich.Option{enrich.WithLogger(log), enrich.WithMetrics(m)}
	if cfg.Enrich.Export.Enabled() {
		sink, err := archive.New(cfg.Enrich.Export)
		if err != nil {
			return nil, fmt.Errorf("creating export storage: %w", err)
		}
		opts = append(opts, enrich.WithExport(sink))
		log.Info("enrichment export enabled", zap.String("type", cfg.Enrich.Export.Type))
	}
	return enrich.New(source, opts...), nil
}
