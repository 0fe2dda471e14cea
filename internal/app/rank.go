package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/newthinker/fxscout/internal/core"
)

// NoOpportunities is printed when a scan yields nothing to trade.
const NoOpportunities = "No opportunities found."

// Rank orders trade signals by confidence, highest first, and returns at
// most n of them. HOLD signals are left out. Ties keep pair-name order so
// the ranking is stable across runs. n <= 0 keeps all.
func Rank(opps []Opportunity, n int) []Opportunity {
	ranked := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.Action.IsTrade() {
			ranked = append(ranked, o)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Pair.String() < ranked[j].Pair.String()
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// WriteText renders ranked opportunities and skipped pairs for a terminal.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder

	if len(r.Top) == 0 {
		b.WriteString(NoOpportunities + "\n")
	}
	for i, o := range r.Top {
		fmt.Fprintf(&b, "%d. %s  %s  confidence %g/%g\n", i+1, o.Pair, o.Action, o.Confidence, core.MaxConfidence)
		fmt.Fprintf(&b, "   entry %s", formatLevel(&o.Entry))
		if o.HasLevels() {
			fmt.Fprintf(&b, "  TP %s  SL %s  R/R %g", formatLevel(o.TakeProfit), formatLevel(o.StopLoss), o.RewardRisk)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   %s (rule %d)\n", o.Reason, o.Rule)
	}

	if len(r.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "   %s  %s\n", s.Pair, s.Code)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatLevel(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f", *v)
}
