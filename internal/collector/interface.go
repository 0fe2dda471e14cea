package collector

import (
	"context"
	"time"

	"github.com/newthinker/fxscout/internal/core"
)

// Config holds collector configuration
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Collector is a source of historical bars and live quotes.
type Collector interface {
	Name() string
	SupportedMarkets() []core.Market
	Init(cfg Config) error

	// FetchQuote returns the current price for symbol.
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)
	// FetchHistory returns bars in [start, end], oldest first. A zero start
	// or end leaves that side unbounded.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error)
}

// Closes extracts closing prices in bar order.
func Closes(bars []core.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the trailing n bars, or all of them when there are fewer.
func Last(bars []core.OHLCV, n int) []core.OHLCV {
	if n <= 0 || len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}
