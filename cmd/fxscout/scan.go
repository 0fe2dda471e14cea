package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/newthinker/fxscout/internal/app"
	"github.com/newthinker/fxscout/internal/logger"
	"github.com/spf13/cobra"
)

var (
	scanTop  int
	scanJSON bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the configured pairs and print the top opportunities",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&scanTop, "top", "n", 0, "number of opportunities to show (default from config)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the full report as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer logger.Sync(log)

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	scanner, err := newScanner(cfg, newCollectorRegistry(), nil, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	top := scanTop
	if top <= 0 {
		top = cfg.Scan.Top
	}

	report, err := scanner.ScanTop(ctx, top)
	if err != nil {
		return err
	}

	if scanJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return app.WriteText(cmd.OutOrStdout(), report)
}
