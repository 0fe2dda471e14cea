package strategy

import (
	"testing"

	"github.com/newthinker/fxscout/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLevels_Buy(t *testing.T) {
	lv, ok := ComputeLevels(core.ActionBuy, 1.2000, Band{TakeProfit: 0.015, StopLoss: 0.01})
	require.True(t, ok)

	assert.Equal(t, 1.2, lv.Entry)
	assert.Equal(t, 1.218, lv.TakeProfit)
	assert.Equal(t, 1.188, lv.StopLoss)
	assert.Equal(t, 1.5, lv.RewardRisk)
}

func TestComputeLevels_Sell(t *testing.T) {
	lv, ok := ComputeLevels(core.ActionSell, 150.25, Band{TakeProfit: 0.012, StopLoss: 0.01})
	require.True(t, ok)

	// 150.25 * 0.988 = 148.447, 150.25 * 1.01 = 151.7525
	assert.Equal(t, 148.447, lv.TakeProfit)
	assert.Equal(t, 151.7525, lv.StopLoss)
	assert.Equal(t, 1.2, lv.RewardRisk)
}

func TestComputeLevels_RoundsToFivePlaces(t *testing.T) {
	lv, ok := ComputeLevels(core.ActionBuy, 0.654321, Band{TakeProfit: 0.012, StopLoss: 0.01})
	require.True(t, ok)

	// 0.654321 * 1.012 = 0.662172852
	assert.Equal(t, 0.65432, lv.Entry)
	assert.Equal(t, 0.66217, lv.TakeProfit)
	assert.Equal(t, 0.64778, lv.StopLoss)
}

func TestComputeLevels_ZeroStopDistance(t *testing.T) {
	lv, ok := ComputeLevels(core.ActionBuy, 1.2, Band{TakeProfit: 0.015, StopLoss: 0})
	require.True(t, ok)
	assert.Zero(t, lv.RewardRisk)
	assert.Equal(t, 1.2, lv.StopLoss)
}

func TestComputeLevels_Hold(t *testing.T) {
	_, ok := ComputeLevels(core.ActionHold, 1.2, Band{TakeProfit: 0.015, StopLoss: 0.01})
	assert.False(t, ok)
}
