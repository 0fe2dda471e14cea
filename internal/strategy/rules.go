package strategy

import (
	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/indicator"
)

// BandKind selects which take-profit/stop-loss band a rule uses.
type BandKind int

const (
	BandNarrow BandKind = iota
	BandWide
)

// Rule is one row of the decision table.
type Rule struct {
	Tier       int
	When       func(indicator.Set) bool
	Action     func(indicator.Set) core.Action
	Confidence float64
	Reason     string
	Band       BandKind
}

func always(a core.Action) func(indicator.Set) core.Action {
	return func(indicator.Set) core.Action { return a }
}

// Rules returns the decision table in priority order. The last rule always
// matches and implements the fallback policy.
func Rules(fallback FallbackPolicy) []Rule {
	rules := []Rule{
		{
			Tier: 1,
			When: func(s indicator.Set) bool {
				return s.RSI.V < 30 && s.MACDHist.V > 0 && s.SMAFast.V > s.SMASlow.V
			},
			Action:     always(core.ActionBuy),
			Confidence: core.MaxConfidence,
			Reason:     "RSI oversold, MACD bullish, uptrend",
			Band:       BandWide,
		},
		{
			Tier: 2,
			When: func(s indicator.Set) bool {
				return s.RSI.V > 70 && s.MACDHist.V < 0 && s.SMAFast.V < s.SMASlow.V
			},
			Action:     always(core.ActionSell),
			Confidence: core.MaxConfidence,
			Reason:     "RSI overbought, MACD bearish, downtrend",
			Band:       BandWide,
		},
		{
			Tier: 3,
			When: func(s indicator.Set) bool {
				return s.RSI.V < 40 && s.MACDHist.V > 0
			},
			Action:     always(core.ActionBuy),
			Confidence: 3,
			Reason:     "MACD up, RSI low",
		},
		{
			Tier: 4,
			When: func(s indicator.Set) bool {
				return s.RSI.V > 60 && s.MACDHist.V < 0
			},
			Action:     always(core.ActionSell),
			Confidence: 3,
			Reason:     "MACD down, RSI high",
		},
	}

	return append(rules, fallbackRule(fallback))
}

func fallbackRule(policy FallbackPolicy) Rule {
	matchAll := func(indicator.Set) bool { return true }

	if policy == FallbackHold {
		return Rule{
			Tier:       5,
			When:       matchAll,
			Action:     always(core.ActionHold),
			Confidence: 0.5,
			Reason:     "No qualifying setup",
		}
	}

	return Rule{
		Tier: 5,
		When: matchAll,
		Action: func(s indicator.Set) core.Action {
			if s.RSI.V < 50 {
				return core.ActionBuy
			}
			return core.ActionSell
		},
		Confidence: 2,
		Reason:     "Fallback trade based on RSI",
	}
}
