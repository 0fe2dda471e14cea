package indicator

import (
	"fmt"

	"github.com/newthinker/fxscout/internal/core"
)

// FlatRSIPolicy decides what RSI is when the window has neither gains nor
// losses.
type FlatRSIPolicy string

const (
	// FlatRSIMissing leaves RSI undefined and reports ErrDegenerateIndicator.
	FlatRSIMissing FlatRSIPolicy = "missing"
	// FlatRSINeutral reports RSI = 50.
	FlatRSINeutral FlatRSIPolicy = "neutral"
)

// Valid reports whether p is a known policy.
func (p FlatRSIPolicy) Valid() bool {
	return p == FlatRSIMissing || p == FlatRSINeutral
}

// RSI computes the relative strength index over the trailing period price
// changes using simple (not Wilder-smoothed) averages of gains and losses.
//
// A window with gains and no losses yields 100. A window with neither is
// resolved by policy. Fewer than period+1 prices yields a missing value and
// no error.
func RSI(prices []float64, period int, policy FlatRSIPolicy) (Value, error) {
	if period <= 0 || len(prices) < period+1 {
		return Missing(), nil
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	switch {
	case avgLoss == 0 && avgGain == 0:
		if policy == FlatRSINeutral {
			return Of(50), nil
		}
		return Missing(), core.WrapError(core.ErrDegenerateIndicator,
			fmt.Errorf("rsi(%d): no price change in window", period))
	case avgLoss == 0:
		return Of(100), nil
	}

	rs := avgGain / avgLoss
	return Of(100 - 100/(1+rs)), nil
}
