package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/newthinker/fxscout/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opp(pair string, action core.Action, confidence float64) Opportunity {
	p, err := core.ParsePair(pair)
	if err != nil {
		panic(err)
	}
	return Opportunity{TradeSignal: core.TradeSignal{Pair: p, Action: action, Confidence: confidence}}
}

func TestRank(t *testing.T) {
	opps := []Opportunity{
		opp("GBP/JPY", core.ActionSell, 3),
		opp("EUR/USD", core.ActionBuy, 2),
		opp("AUD/JPY", core.ActionBuy, 5),
		opp("USD/CHF", core.ActionHold, 0),
		opp("EUR/GBP", core.ActionSell, 5),
	}

	ranked := Rank(opps, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "AUD/JPY", ranked[0].Pair.String())
	assert.Equal(t, "EUR/GBP", ranked[1].Pair.String())
	assert.Equal(t, "GBP/JPY", ranked[2].Pair.String())

	all := Rank(opps, 0)
	assert.Len(t, all, 4, "HOLD excluded")

	// input untouched
	assert.Equal(t, "GBP/JPY", opps[0].Pair.String())
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, 3))
	assert.Empty(t, Rank([]Opportunity{opp("EUR/USD", core.ActionHold, 0)}, 3))
}

func TestWriteText(t *testing.T) {
	tp, sl := 1.218, 1.188
	o := opp("EUR/USD", core.ActionBuy, 5)
	o.Entry = 1.2
	o.TakeProfit = &tp
	o.StopLoss = &sl
	o.RewardRisk = 1.5
	o.Rule = 1
	o.Reason = "RSI oversold, MACD bullish, uptrend"

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, &Report{
		Top:     []Opportunity{o},
		Skipped: []Skipped{{Pair: "USD/JPY", Code: "INSUFFICIENT_DATA"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "1. EUR/USD  BUY  confidence 5/5")
	assert.Contains(t, out, "entry 1.20000  TP 1.21800  SL 1.18800  R/R 1.5")
	assert.Contains(t, out, "RSI oversold, MACD bullish, uptrend (rule 1)")
	assert.Contains(t, out, "USD/JPY  INSUFFICIENT_DATA")
	assert.False(t, strings.Contains(out, NoOpportunities))
}

func TestWriteText_NoOpportunities(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, &Report{}))
	assert.Equal(t, NoOpportunities+"\n", buf.String())
}
