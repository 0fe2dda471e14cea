// Package alphavantage implements an FX collector backed by the Alpha
// Vantage query API.
package alphavantage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/newthinker/fxscout/internal/collector"
	"github.com/newthinker/fxscout/internal/core"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://www.alphavantage.co/query"
	dateLayout     = "2006-01-02"
	refreshLayout  = "2006-01-02 15:04:05"

	// compact output covers roughly the last 100 trading days.
	compactSpan = 100 * 24 * time.Hour
	maxBody     = 8 << 20
)

// AlphaVantage implements the Alpha Vantage FX collector
type AlphaVantage struct {
	client  *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

// New creates a new Alpha Vantage collector
func New() *AlphaVantage {
	return &AlphaVantage{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
}

func (a *AlphaVantage) Name() string {
	return "alphavantage"
}

func (a *AlphaVantage) SupportedMarkets() []core.Market {
	return []core.Market{core.MarketFX}
}

func (a *AlphaVantage) Init(cfg collector.Config) error {
	if cfg.APIKey == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("alphavantage: api_key is required"))
	}
	a.apiKey = cfg.APIKey
	if cfg.BaseURL != "" {
		a.baseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		a.client.Timeout = cfg.Timeout
	}
	return nil
}

// FetchQuote fetches the realtime exchange rate for an FX pair.
func (a *AlphaVantage) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	pair, err := parseFX(symbol)
	if err != nil {
		return nil, err
	}

	body, err := a.get(ctx, url.Values{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {pair.Base},
		"to_currency":   {pair.Quote},
	})
	if err != nil {
		return nil, err
	}

	rate := gjson.GetBytes(body, `Realtime Currency Exchange Rate`)
	if !rate.Exists() {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no exchange rate for %s", pair))
	}

	price, err := strconv.ParseFloat(rate.Get(`5\. Exchange Rate`).String(), 64)
	if err != nil || price <= 0 {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("bad exchange rate for %s: %q", pair, rate.Get(`5\. Exchange Rate`).String()))
	}

	quoteTime := a.now()
	if t, err := time.Parse(refreshLayout, rate.Get(`6\. Last Refreshed`).String()); err == nil {
		quoteTime = t
	}

	return &core.Quote{
		Symbol: pair.String(),
		Market: core.MarketFX,
		Price:  price,
		Time:   quoteTime,
		Source: a.Name(),
	}, nil
}

// FetchHistory fetches daily, weekly or monthly FX bars.
func (a *AlphaVantage) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	pair, err := parseFX(symbol)
	if err != nil {
		return nil, err
	}

	function, seriesKey := toFunction(interval)
	params := url.Values{
		"function":    {function},
		"from_symbol": {pair.Base},
		"to_symbol":   {pair.Quote},
		"outputsize":  {"compact"},
	}
	if !start.IsZero() && a.now().Sub(start) > compactSpan {
		params.Set("outputsize", "full")
	}

	body, err := a.get(ctx, params)
	if err != nil {
		return nil, err
	}

	series := gjson.GetBytes(body, seriesKey)
	if !series.Exists() {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no %s series for %s", interval, pair))
	}

	var bars []core.OHLCV
	var parseErr error
	series.ForEach(func(key, value gjson.Result) bool {
		day, err := time.Parse(dateLayout, key.String())
		if err != nil {
			parseErr = fmt.Errorf("bad date %q: %w", key.String(), err)
			return false
		}
		if (!start.IsZero() && day.Before(start)) || (!end.IsZero() && day.After(end)) {
			return true
		}
		bars = append(bars, core.OHLCV{
			Symbol:   pair.String(),
			Interval: interval,
			Open:     value.Get(`1\. open`).Float(),
			High:     value.Get(`2\. high`).Float(),
			Low:      value.Get(`3\. low`).Float(),
			Close:    value.Get(`4\. close`).Float(),
			Time:     day,
		})
		return true
	})
	if parseErr != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, parseErr)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (a *AlphaVantage) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.WrapError(core.ErrCollectorTimeout, err)
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("%s: %w", params.Get("function"), err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("reading response: %w", err))
	}
	if !gjson.ValidBytes(body) {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("invalid JSON response"))
	}

	// Rate limits and bad parameters come back as 200 with a message.
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg := gjson.GetBytes(body, key); msg.Exists() {
			return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("alphavantage: %s", msg.String()))
		}
	}

	return body, nil
}

func parseFX(symbol string) (core.Pair, error) {
	pair, err := core.ParsePair(symbol)
	if err != nil {
		return core.Pair{}, err
	}
	if !pair.IsFX() {
		return core.Pair{}, core.WrapError(core.ErrInvalidInput, fmt.Errorf("alphavantage: %q is not an FX pair", symbol))
	}
	return pair, nil
}

func toFunction(interval string) (function, seriesKey string) {
	switch interval {
	case "1wk":
		return "FX_WEEKLY", "Time Series FX (Weekly)"
	case "1mo":
		return "FX_MONTHLY", "Time Series FX (Monthly)"
	default:
		return "FX_DAILY", "Time Series FX (Daily)"
	}
}
