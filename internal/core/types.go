package core

import (
	"fmt"
	"strings"
	"time"
)

// Market represents a trading market
type Market string

const (
	MarketUS Market = "US"
	MarketHK Market = "HK"
	MarketEU Market = "EU"
	MarketFX Market = "FX"
)

// Pair identifies an instrument. FX pairs carry both legs; equity tickers
// only set Base.
type Pair struct {
	Base  string `json:"base"`
	Quote string `json:"quote,omitempty"`
}

// String renders BASE/QUOTE, or just BASE for single-leg instruments.
func (p Pair) String() string {
	if p.Quote == "" {
		return p.Base
	}
	return p.Base + "/" + p.Quote
}

// IsFX reports whether the pair has two currency legs.
func (p Pair) IsFX() bool {
	return p.Base != "" && p.Quote != ""
}

// ParsePair accepts "EUR/USD", "EUR-USD", "EURUSD" or a plain ticker.
// A dash only separates two 3-letter currency codes, so share-class tickers
// such as BRK-B stay single-leg.
func ParsePair(s string) (Pair, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Pair{}, WrapError(ErrInvalidInput, fmt.Errorf("empty pair"))
	}
	if base, quote, ok := strings.Cut(s, "/"); ok {
		if base == "" || quote == "" {
			return Pair{}, WrapError(ErrInvalidInput, fmt.Errorf("malformed pair %q", s))
		}
		return Pair{Base: base, Quote: quote}, nil
	}
	if base, quote, ok := strings.Cut(s, "-"); ok && isCurrency(base) && isCurrency(quote) {
		return Pair{Base: base, Quote: quote}, nil
	}
	if len(s) == 6 && isAlpha(s) {
		return Pair{Base: s[:3], Quote: s[3:]}, nil
	}
	return Pair{Base: s}, nil
}

func isCurrency(s string) bool {
	return len(s) == 3 && isAlpha(s)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Quote represents a real-time price quote
type Quote struct {
	Symbol string
	Market Market
	Price  float64
	Volume int64
	Time   time.Time
	Source string
}

// IsValid checks if the quote has required fields
func (q Quote) IsValid() bool {
	return q.Symbol != "" && q.Price > 0
}

// OHLCV represents a candlestick/bar
type OHLCV struct {
	Symbol   string
	Interval string // "1d", "1wk"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // 0 when the source has no adjusted series
	Volume   int64
	Time     time.Time
}

// Action represents a trading signal action
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// IsTrade reports whether the action opens a position.
func (a Action) IsTrade() bool {
	return a == ActionBuy || a == ActionSell
}

// MaxConfidence is the top of the confidence scale.
const MaxConfidence = 5.0

// IndicatorSnapshot is the indicator state a signal was derived from.
type IndicatorSnapshot struct {
	SMAFast  float64 `json:"sma_fast"`
	SMASlow  float64 `json:"sma_slow"`
	RSI      float64 `json:"rsi"`
	MACDHist float64 `json:"macd_hist"`
}

// TradeSignal is the classifier output for one pair. It carries no
// timestamp, so identical inputs give identical values.
type TradeSignal struct {
	Pair       Pair              `json:"pair"`
	Action     Action            `json:"action"`
	Confidence float64           `json:"confidence"`
	Rule       int               `json:"rule"`
	Entry      float64           `json:"entry"`
	TakeProfit *float64          `json:"take_profit,omitempty"`
	StopLoss   *float64          `json:"stop_loss,omitempty"`
	RewardRisk float64           `json:"reward_risk"`
	Reason     string            `json:"reason"`
	Indicators IndicatorSnapshot `json:"indicators"`
}

// HasLevels reports whether take-profit and stop-loss are both set.
func (s TradeSignal) HasLevels() bool {
	return s.TakeProfit != nil && s.StopLoss != nil
}
