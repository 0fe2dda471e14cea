package indicator

import (
	"errors"
	"testing"

	"github.com/newthinker/fxscout/internal/core"
)

func TestRSI_HandComputed(t *testing.T) {
	// period 2 over [1,2,1,3]: last two changes are -1 and +2
	// avgGain = 1, avgLoss = 0.5, RS = 2, RSI = 100 - 100/3
	v, err := RSI([]float64{1, 2, 1, 3}, 2, FlatRSIMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(v.V, 100-100.0/3, 1e-9) {
		t.Errorf("expected 66.6667, got %f", v.V)
	}
}

func TestRSI_UsesTrailingWindowOnly(t *testing.T) {
	// Large early drop must not leak into a period-3 window of pure gains.
	prices := []float64{50, 10, 11, 12, 13}
	v, err := RSI(prices, 3, FlatRSIMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.V != 100 {
		t.Errorf("expected 100, got %f", v.V)
	}
}

func TestRSI_StrictlyIncreasingIs100(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 1.10 + float64(i)*0.001
	}

	v, err := RSI(prices, 14, FlatRSIMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.OK || v.V != 100 {
		t.Errorf("expected RSI 100 for all-gain window, got %v", v)
	}
}

func TestRSI_StrictlyDecreasingIsZero(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 150 - float64(i)
	}

	v, err := RSI(prices, 14, FlatRSIMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.V != 0 {
		t.Errorf("expected RSI 0 for all-loss window, got %f", v.V)
	}
}

func TestRSI_FlatWindow(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 0.6543
	}

	t.Run("missing policy", func(t *testing.T) {
		v, err := RSI(prices, 14, FlatRSIMissing)
		if !errors.Is(err, core.ErrDegenerateIndicator) {
			t.Fatalf("expected DEGENERATE_INDICATOR, got %v", err)
		}
		if v.OK {
			t.Errorf("expected missing value, got %v", v)
		}
	})

	t.Run("neutral policy", func(t *testing.T) {
		v, err := RSI(prices, 14, FlatRSINeutral)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.V != 50 {
			t.Errorf("expected 50, got %f", v.V)
		}
	})
}

func TestRSI_NotEnoughData(t *testing.T) {
	// period 14 needs 15 prices
	prices := make([]float64, 14)
	for i := range prices {
		prices[i] = float64(i)
	}

	v, err := RSI(prices, 14, FlatRSIMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.OK {
		t.Error("expected missing value")
	}
}
