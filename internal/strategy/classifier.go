package strategy

import (
	"fmt"
	"math"

	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/indicator"
)

// FallbackPolicy decides the outcome when no directional rule matches.
type FallbackPolicy string

const (
	// FallbackDirectional trades with RSI: BUY below 50, SELL otherwise.
	FallbackDirectional FallbackPolicy = "directional"
	// FallbackHold emits HOLD with low confidence and no levels.
	FallbackHold FallbackPolicy = "hold"
)

// Valid reports whether p is a known policy.
func (p FallbackPolicy) Valid() bool {
	return p == FallbackDirectional || p == FallbackHold
}

// LevelsConfig controls take-profit/stop-loss output.
type LevelsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Wide    Band `mapstructure:"wide"`
	Narrow  Band `mapstructure:"narrow"`
}

// Config holds classifier configuration.
type Config struct {
	Fallback FallbackPolicy `mapstructure:"fallback"`
	Levels   LevelsConfig   `mapstructure:"levels"`
}

// DefaultConfig returns the directional fallback with 1.5%/1.0% levels for
// the strong tiers and 1.2%/1.0% for the rest.
func DefaultConfig() Config {
	return Config{
		Fallback: FallbackDirectional,
		Levels: LevelsConfig{
			Enabled: true,
			Wide:    Band{TakeProfit: 0.015, StopLoss: 0.01},
			Narrow:  Band{TakeProfit: 0.012, StopLoss: 0.01},
		},
	}
}

// Validate checks the policy and band offsets.
func (c Config) Validate() error {
	if !c.Fallback.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown fallback policy %q", c.Fallback))
	}
	bands := []struct {
		name string
		band Band
	}{
		{"wide", c.Levels.Wide},
		{"narrow", c.Levels.Narrow},
	}
	for _, b := range bands {
		if b.band.TakeProfit < 0 || b.band.TakeProfit >= 1 || b.band.StopLoss < 0 || b.band.StopLoss >= 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("%s band offsets must be in [0,1), got %+v", b.name, b.band))
		}
	}
	return nil
}

// Classifier maps an indicator set to a trade signal through the rule table.
type Classifier struct {
	cfg   Config
	rules []Rule
}

// NewClassifier creates a classifier. An empty fallback policy means
// directional.
func NewClassifier(cfg Config) *Classifier {
	if cfg.Fallback == "" {
		cfg.Fallback = FallbackDirectional
	}
	return &Classifier{
		cfg:   cfg,
		rules: Rules(cfg.Fallback),
	}
}

// Rules returns the table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify returns the signal of the first matching rule. An absent
// (non-positive or non-finite) entry and any undefined indicator both fail
// with ErrInsufficientData.
func (c *Classifier) Classify(pair core.Pair, entry float64, set indicator.Set) (core.TradeSignal, error) {
	if math.IsNaN(entry) || math.IsInf(entry, 0) || entry <= 0 {
		return core.TradeSignal{}, core.WrapError(core.ErrInsufficientData, fmt.Errorf("%s: no live price (entry %v)", pair, entry))
	}
	if !set.Complete() {
		return core.TradeSignal{}, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("%s: undefined indicators %v", pair, set.Missing()))
	}

	for _, r := range c.rules {
		if r.When(set) {
			return c.build(pair, entry, set, r), nil
		}
	}

	// The fallback rule always matches.
	panic("strategy: rule table has no terminal rule")
}

func (c *Classifier) build(pair core.Pair, entry float64, set indicator.Set, r Rule) core.TradeSignal {
	sig := core.TradeSignal{
		Pair:       pair,
		Action:     r.Action(set),
		Confidence: r.Confidence,
		Rule:       r.Tier,
		Entry:      entry,
		Reason:     r.Reason,
		Indicators: set.Snapshot(),
	}

	if !c.cfg.Levels.Enabled {
		return sig
	}

	band := c.cfg.Levels.Narrow
	if r.Band == BandWide {
		band = c.cfg.Levels.Wide
	}
	if lv, ok := ComputeLevels(sig.Action, entry, band); ok {
		sig.Entry = lv.Entry
		sig.TakeProfit = &lv.TakeProfit
		sig.StopLoss = &lv.StopLoss
		sig.RewardRisk = lv.RewardRisk
	}
	return sig
}
