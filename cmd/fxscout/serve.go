package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newthinker/fxscout/internal/api"
	"github.com/newthinker/fxscout/internal/logger"
	"github.com/newthinker/fxscout/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fxscout HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer logger.Sync(log)

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	collectors := newCollectorRegistry()
	scanner, err := newScanner(cfg, collectors, reg, log)
	if err != nil {
		return err
	}
	enricher, err := newEnricher(cfg, collectors, reg, log)
	if err != nil {
		return err
	}

	if cfg.Server.APIKey == "" {
		log.Warn("server.api_key is empty, /api/v1 is unauthenticated")
	}

	log.Info("starting fxscout server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Int("pairs", len(scanner.Pairs())),
		zap.String("scan_collector", cfg.Scan.Collector),
		zap.String("enrich_collector", cfg.Enrich.Collector),
	)

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		DefaultTop:  cfg.Scan.Top,
		MetricsPath: cfg.Metrics.Path,
	}, api.Dependencies{
		Scanner:   scanner,
		Evaluator: newEvaluator(cfg, log),
		Enricher:  enricher,
		Metrics:   reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
