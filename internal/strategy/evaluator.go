package strategy

import (
	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/indicator"
	"go.uber.org/zap"
)

// Evaluator turns a price series and a live quote into a trade signal.
type Evaluator struct {
	engine     *indicator.Engine
	classifier *Classifier
	logger     *zap.Logger
}

// NewEvaluator creates an evaluator
func NewEvaluator(engine *indicator.Engine, classifier *Classifier, logger ...*zap.Logger) *Evaluator {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Evaluator{
		engine:     engine,
		classifier: classifier,
		logger:     l,
	}
}

// Evaluate computes indicators over prices and classifies them against live.
// Errors from the indicator engine are returned unchanged so callers can
// match ErrInsufficientData or ErrDegenerateIndicator.
func (e *Evaluator) Evaluate(pair core.Pair, prices []float64, live float64) (core.TradeSignal, error) {
	set, err := e.engine.Compute(prices)
	if err != nil {
		e.logger.Debug("indicators unavailable",
			zap.String("pair", pair.String()),
			zap.Int("closes", len(prices)),
			zap.Strings("missing", set.Missing()),
			zap.Error(err),
		)
		return core.TradeSignal{}, err
	}

	sig, err := e.classifier.Classify(pair, live, set)
	if err != nil {
		return core.TradeSignal{}, err
	}

	e.logger.Debug("pair classified",
		zap.String("pair", pair.String()),
		zap.String("action", string(sig.Action)),
		zap.Int("rule", sig.Rule),
		zap.Float64("confidence", sig.Confidence),
		zap.Float64("rsi", set.RSI.V),
		zap.Float64("macd_hist", set.MACDHist.V),
	)
	return sig, nil
}
