package core

import (
	"errors"
	"testing"
	"time"
)

func TestQuote_IsValid(t *testing.T) {
	q := Quote{
		Symbol: "EURUSD",
		Market: MarketFX,
		Price:  1.0842,
		Time:   time.Now(),
	}

	if !q.IsValid() {
		t.Error("expected valid quote")
	}

	invalid := Quote{Symbol: "", Price: 0}
	if invalid.IsValid() {
		t.Error("expected invalid quote")
	}
}

func TestAction_Constants(t *testing.T) {
	actions := []Action{ActionBuy, ActionSell, ActionHold}
	expected := []string{"BUY", "SELL", "HOLD"}

	for i, a := range actions {
		if string(a) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], a)
		}
	}

	if ActionHold.IsTrade() {
		t.Error("HOLD should not be a trade")
	}
	if !ActionSell.IsTrade() {
		t.Error("SELL should be a trade")
	}
}

func TestParsePair(t *testing.T) {
	tests := []struct {
		input string
		want  Pair
	}{
		{"EUR/USD", Pair{Base: "EUR", Quote: "USD"}},
		{"gbp-jpy", Pair{Base: "GBP", Quote: "JPY"}},
		{"AUDJPY", Pair{Base: "AUD", Quote: "JPY"}},
		{"AAPL", Pair{Base: "AAPL"}},
		{" msft ", Pair{Base: "MSFT"}},
		{"0700.HK", Pair{Base: "0700.HK"}},
		{"BRK-B", Pair{Base: "BRK-B"}},
		{"bf-b", Pair{Base: "BF-B"}},
		{"RDS-A", Pair{Base: "RDS-A"}},
	}

	for _, tc := range tests {
		got, err := ParsePair(tc.input)
		if err != nil {
			t.Errorf("ParsePair(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePair(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestParsePair_Invalid(t *testing.T) {
	for _, input := range []string{"", "  ", "EUR/", "/USD"} {
		_, err := ParsePair(input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParsePair(%q) error = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestPair_String(t *testing.T) {
	if s := (Pair{Base: "USD", Quote: "JPY"}).String(); s != "USD/JPY" {
		t.Errorf("expected USD/JPY, got %s", s)
	}
	if s := (Pair{Base: "AAPL"}).String(); s != "AAPL" {
		t.Errorf("expected AAPL, got %s", s)
	}
}

func TestTradeSignal_HasLevels(t *testing.T) {
	tp, sl := 1.1, 1.0
	if (TradeSignal{}).HasLevels() {
		t.Error("zero signal should have no levels")
	}
	if !(TradeSignal{TakeProfit: &tp, StopLoss: &sl}).HasLevels() {
		t.Error("expected levels")
	}
}
