// Package enrich adds historical closing prices at fixed day offsets after
// a filing date to a CSV of filed trades.
package enrich

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/metrics"
	"github.com/newthinker/fxscout/internal/storage/archive"
	"go.uber.org/zap"
)

// Offsets are the days after filing at which a price is looked up.
var Offsets = []int{0, 30, 60, 90, 120}

// Columns are the output columns, one per offset.
var Columns = []string{"filed_price", "d30", "d60", "d90", "d120"}

// historyWindow covers the largest offset plus slack for weekends and
// holidays.
const historyWindow = 130

var filedLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
}

// PriceSource supplies daily history; collector.Collector satisfies it.
type PriceSource interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error)
}

// Lookup is the price set for one (ticker, filed) pair. Nil prices mean
// the lookup failed or no bar existed on or after the target date.
type Lookup struct {
	Ticker     string
	Filed      time.Time
	FiledPrice *float64
	D30        *float64
	D60        *float64
	D90        *float64
	D120       *float64
}

// Prices returns the lookup values in Columns order.
func (l Lookup) Prices() []*float64 {
	return []*float64{l.FiledPrice, l.D30, l.D60, l.D90, l.D120}
}

// Priced reports whether any price was found.
func (l Lookup) Priced() bool {
	for _, p := range l.Prices() {
		if p != nil {
			return true
		}
	}
	return false
}

// Result is the outcome of one enrichment run.
type Result struct {
	Table    *Table
	Lookups  int // distinct (ticker, filed) pairs queried
	Dropped  int // rows excluded because filed did not parse
	Unpriced int // kept rows with no price at any offset
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records row and lookup counts.
func WithMetrics(reg *metrics.Registry) Option {
	return func(e *Enricher) {
		e.metrics = reg
	}
}

// WithExport stores every enriched file in sink.
func WithExport(sink archive.Storage) Option {
	return func(e *Enricher) {
		e.sink = sink
	}
}

// Enricher joins filed trades with historical prices.
type Enricher struct {
	source  PriceSource
	sink    archive.Storage
	metrics *metrics.Registry
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// New creates an enricher reading history from source.
func New(source PriceSource, opts ...Option) *Enricher {
	e := &Enricher{
		source: source,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  newExportID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich reads trades from r and returns them with the price columns
// added. The input needs ticker and filed columns; rows whose filed value
// is not a date are dropped.
func (e *Enricher) Enrich(ctx context.Context, r io.Reader) (*Result, error) {
	in, err := ReadTable(r)
	if err != nil {
		return nil, err
	}

	tickerIdx, filedIdx := in.Index("ticker"), in.Index("filed")
	if tickerIdx < 0 || filedIdx < 0 {
		return nil, core.WrapError(core.ErrInvalidInput,
			fmt.Errorf("CSV needs ticker and filed columns, got %v", in.Header))
	}

	type parsedRow struct {
		cells []string
		key   string
	}

	rows := make([]parsedRow, 0, len(in.Rows))
	pending := make(map[string]Lookup)
	var order []string
	result := &Result{}

	for _, rec := range in.Rows {
		filed, ok := ParseFiled(rec[filedIdx])
		if !ok {
			result.Dropped++
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(rec[tickerIdx]))
		key := ticker + "|" + filed.Format(time.RFC3339)
		if _, seen := pending[key]; !seen {
			pending[key] = Lookup{Ticker: ticker, Filed: filed}
			order = append(order, key)
		}
		rows = append(rows, parsedRow{cells: rec, key: key})
	}

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, core.WrapError(core.ErrCollectorTimeout, err)
		}
		pending[key] = e.lookup(ctx, pending[key])
	}
	result.Lookups = len(order)

	// Existing columns with an output name are replaced.
	var keep []int
	out := &Table{}
	for i, h := range in.Header {
		if !isOutputColumn(h) {
			keep = append(keep, i)
			out.Header = append(out.Header, h)
		}
	}
	out.Header = append(out.Header, Columns...)

	for _, row := range rows {
		cells := make([]string, 0, len(out.Header))
		for _, i := range keep {
			cells = append(cells, row.cells[i])
		}
		lk := pending[row.key]
		if !lk.Priced() {
			result.Unpriced++
		}
		for _, p := range lk.Prices() {
			cells = append(cells, formatPrice(p))
		}
		out.Rows = append(out.Rows, cells)
	}
	result.Table = out

	e.metrics.RecordEnrich(len(out.Rows)-result.Unpriced, result.Dropped, result.Unpriced)
	e.logger.Info("trades enriched",
		zap.Int("rows", len(out.Rows)),
		zap.Int("lookups", result.Lookups),
		zap.Int("dropped", result.Dropped),
		zap.Int("unpriced", result.Unpriced),
	)
	return result, nil
}

func (e *Enricher) lookup(ctx context.Context, lk Lookup) Lookup {
	if lk.Ticker == "" {
		e.metrics.RecordLookup(false)
		return lk
	}

	bars, err := e.source.FetchHistory(ctx, lk.Ticker, lk.Filed, lk.Filed.AddDate(0, 0, historyWindow), "1d")
	if err != nil || len(bars) == 0 {
		e.metrics.RecordLookup(false)
		e.logger.Warn("price lookup failed",
			zap.String("ticker", lk.Ticker),
			zap.Time("filed", lk.Filed),
			zap.Int("bars", len(bars)),
			zap.Error(err),
		)
		return lk
	}
	e.metrics.RecordLookup(true)

	prices := make([]*float64, len(Offsets))
	for i, offset := range Offsets {
		prices[i] = priceOnOrAfter(bars, lk.Filed.AddDate(0, 0, offset))
	}
	lk.FiledPrice, lk.D30, lk.D60, lk.D90, lk.D120 = prices[0], prices[1], prices[2], prices[3], prices[4]
	return lk
}

// priceOnOrAfter returns the adjusted close (close when no adjusted value
// exists) of the first bar at or after target. Bars are oldest first.
func priceOnOrAfter(bars []core.OHLCV, target time.Time) *float64 {
	for _, b := range bars {
		if b.Time.Before(target) {
			continue
		}
		v := b.AdjClose
		if v <= 0 {
			v = b.Close
		}
		if v <= 0 {
			return nil
		}
		return &v
	}
	return nil
}

// ParseFiled parses a filing date in one of the accepted layouts.
func ParseFiled(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range filedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isOutputColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
