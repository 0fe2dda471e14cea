package indicator

import (
	"fmt"

	"github.com/newthinker/fxscout/internal/core"
)

// MinSeriesLength is the shortest series that yields a full Set with the
// default windows.
const MinSeriesLength = 20

// Config holds indicator windows.
type Config struct {
	FastSMA    int           `mapstructure:"fast_sma"`
	SlowSMA    int           `mapstructure:"slow_sma"`
	RSIPeriod  int           `mapstructure:"rsi_period"`
	MACDFast   int           `mapstructure:"macd_fast"`
	MACDSlow   int           `mapstructure:"macd_slow"`
	MACDSignal int           `mapstructure:"macd_signal"`
	FlatRSI    FlatRSIPolicy `mapstructure:"flat_rsi"`
}

// DefaultConfig returns the standard 5/20 SMA, RSI(14), MACD(12,26,9) setup.
func DefaultConfig() Config {
	return Config{
		FastSMA:    5,
		SlowSMA:    20,
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		FlatRSI:    FlatRSIMissing,
	}
}

// Validate checks windows are positive and ordered.
func (c Config) Validate() error {
	windows := []struct {
		name string
		n    int
	}{
		{"fast_sma", c.FastSMA},
		{"slow_sma", c.SlowSMA},
		{"rsi_period", c.RSIPeriod},
		{"macd_fast", c.MACDFast},
		{"macd_slow", c.MACDSlow},
		{"macd_signal", c.MACDSignal},
	}
	for _, w := range windows {
		if w.n <= 0 {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("%s must be positive, got %d", w.name, w.n))
		}
	}
	if c.FastSMA >= c.SlowSMA {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("fast_sma (%d) must be shorter than slow_sma (%d)", c.FastSMA, c.SlowSMA))
	}
	if c.MACDFast >= c.MACDSlow {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("macd_fast (%d) must be shorter than macd_slow (%d)", c.MACDFast, c.MACDSlow))
	}
	if !c.FlatRSI.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown flat_rsi policy %q", c.FlatRSI))
	}
	return nil
}

// Set holds the latest value of each indicator.
type Set struct {
	SMAFast  Value
	SMASlow  Value
	RSI      Value
	MACDHist Value
}

// Complete reports whether every indicator is defined.
func (s Set) Complete() bool {
	return s.SMAFast.OK && s.SMASlow.OK && s.RSI.OK && s.MACDHist.OK
}

// Missing lists the undefined indicators.
func (s Set) Missing() []string {
	var names []string
	if !s.SMAFast.OK {
		names = append(names, "sma_fast")
	}
	if !s.SMASlow.OK {
		names = append(names, "sma_slow")
	}
	if !s.RSI.OK {
		names = append(names, "rsi")
	}
	if !s.MACDHist.OK {
		names = append(names, "macd_hist")
	}
	return names
}

// Snapshot flattens the set. Undefined values become zero, so only call it
// on a complete set.
func (s Set) Snapshot() core.IndicatorSnapshot {
	return core.IndicatorSnapshot{
		SMAFast:  s.SMAFast.V,
		SMASlow:  s.SMASlow.V,
		RSI:      s.RSI.V,
		MACDHist: s.MACDHist.V,
	}
}

// Engine computes indicator sets from closing prices.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given windows.
func NewEngine(cfg Config) *Engine {
	if cfg.FlatRSI == "" {
		cfg.FlatRSI = FlatRSIMissing
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine windows.
func (e *Engine) Config() Config {
	return e.cfg
}

// Compute returns the latest value of every indicator. The Set is always
// returned with whatever could be computed; the error is ErrInsufficientData
// for a short series and ErrDegenerateIndicator for a flat RSI window under
// the missing policy.
func (e *Engine) Compute(prices []float64) (Set, error) {
	set := Set{
		SMAFast:  LastSMA(prices, e.cfg.FastSMA),
		SMASlow:  LastSMA(prices, e.cfg.SlowSMA),
		MACDHist: MACDHistogram(prices, e.cfg.MACDFast, e.cfg.MACDSlow, e.cfg.MACDSignal),
	}
	rsi, rsiErr := RSI(prices, e.cfg.RSIPeriod, e.cfg.FlatRSI)
	set.RSI = rsi

	if len(prices) < MinSeriesLength {
		return set, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("series has %d closes, need %d", len(prices), MinSeriesLength))
	}
	if rsiErr != nil {
		return set, rsiErr
	}
	if !set.Complete() {
		return set, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("undefined indicators %v for %d closes", set.Missing(), len(prices)))
	}
	return set, nil
}
