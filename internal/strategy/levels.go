package strategy

import (
	"github.com/newthinker/fxscout/internal/core"
	"github.com/shopspring/decimal"
)

const (
	pricePlaces = 5
	ratioPlaces = 2
)

// Band is a pair of fractional offsets from entry.
type Band struct {
	TakeProfit float64 `mapstructure:"take_profit"`
	StopLoss   float64 `mapstructure:"stop_loss"`
}

// Levels holds take-profit and stop-loss prices for a trade.
type Levels struct {
	Entry      float64
	TakeProfit float64
	StopLoss   float64
	RewardRisk float64
}

// ComputeLevels derives take-profit, stop-loss and reward/risk for a BUY or
// SELL at entry. Prices are rounded to 5 places, the ratio to 2. The ratio
// is 0 when the stop distance is zero. ok is false for HOLD.
func ComputeLevels(action core.Action, entry float64, band Band) (Levels, bool) {
	if !action.IsTrade() {
		return Levels{}, false
	}

	one := decimal.NewFromInt(1)
	e := decimal.NewFromFloat(entry)
	p := decimal.NewFromFloat(band.TakeProfit)
	q := decimal.NewFromFloat(band.StopLoss)

	var tp, sl decimal.Decimal
	if action == core.ActionBuy {
		tp = e.Mul(one.Add(p))
		sl = e.Mul(one.Sub(q))
	} else {
		tp = e.Mul(one.Sub(p))
		sl = e.Mul(one.Add(q))
	}

	ratio := decimal.Zero
	if risk := sl.Sub(e).Abs(); !risk.IsZero() {
		ratio = tp.Sub(e).Abs().Div(risk)
	}

	return Levels{
		Entry:      e.Round(pricePlaces).InexactFloat64(),
		TakeProfit: tp.Round(pricePlaces).InexactFloat64(),
		StopLoss:   sl.Round(pricePlaces).InexactFloat64(),
		RewardRisk: ratio.Round(ratioPlaces).InexactFloat64(),
	}, true
}
