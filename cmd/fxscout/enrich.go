package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newthinker/fxscout/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	enrichOutput string
	enrichExport bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <trades.csv>",
	Short: "Add filing-date and forward prices to a trade file",
	Long: `Enrich reads a CSV with ticker and filed columns and appends
filed_price, d30, d60, d90 and d120 price columns.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "enriched_trades.csv", "output file, - for stdout")
	enrichCmd.Flags().BoolVar(&enrichExport, "export", false, "also write the result to the configured export storage")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer logger.Sync(log)

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	enricher, err := newEnricher(cfg, newCollectorRegistry(), nil, log)
	if err != nil {
		return err
	}
	if enrichExport && !enricher.Exporting() {
		return fmt.Errorf("--export needs enrich.export configured")
	}

	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := enricher.Enrich(ctx, in)
	if err != nil {
		return err
	}

	if enrichOutput == "-" {
		if err := res.Table.Write(cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		data, err := res.Table.Bytes()
		if err != nil {
			return err
		}
		if err := os.WriteFile(enrichOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	log.Info("enrichment complete",
		zap.Int("rows", len(res.Table.Rows)),
		zap.Int("dropped", res.Dropped),
		zap.Int("unpriced", res.Unpriced),
		zap.String("output", enrichOutput),
	)

	if enrichExport {
		uri, err := enricher.Export(ctx, res)
		if err != nil {
			return err
		}
		log.Info("exported", zap.String("uri", uri))
	}
	return nil
}
