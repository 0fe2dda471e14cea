package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/logger"
	"github.com/spf13/cobra"
)

var (
	evalPair   string
	evalPrices string
	evalFile   string
	evalLive   float64
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Classify a closing-price series offline",
	Long: `Evaluate runs the indicator engine and rule classifier over a series of
closing prices (oldest first) and prints the resulting signal as JSON.
The live price defaults to the last close.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalPair, "pair", "", "pair name, e.g. EUR/USD (required)")
	evaluateCmd.Flags().StringVar(&evalPrices, "prices", "", "comma separated closing prices")
	evaluateCmd.Flags().StringVarP(&evalFile, "file", "f", "", "file of closing prices, one per line or comma separated")
	evaluateCmd.Flags().Float64Var(&evalLive, "live", 0, "live price (default last close)")

	evaluateCmd.MarkFlagRequired("pair")
	evaluateCmd.MarkFlagsMutuallyExclusive("prices", "file")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer logger.Sync(log)

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	pair, err := core.ParsePair(evalPair)
	if err != nil {
		return err
	}

	raw := evalPrices
	if evalFile != "" {
		data, err := os.ReadFile(evalFile)
		if err != nil {
			return fmt.Errorf("reading prices: %w", err)
		}
		raw = string(data)
	}
	prices, err := parsePrices(raw)
	if err != nil {
		return err
	}

	live := evalLive
	if live == 0 {
		live = prices[len(prices)-1]
	}

	sig, err := newEvaluator(cfg, log).Evaluate(pair, prices, live)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sig)
}

// parsePrices splits on commas and whitespace.
func parsePrices(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, core.WrapError(core.ErrInvalidInput, errors.New("no prices given"))
	}

	prices := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, core.WrapError(core.ErrInvalidInput, fmt.Errorf("price %d: %q is not a number", i+1, f))
		}
		prices[i] = v
	}
	return prices, nil
}
