package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/newthinker/fxscout/internal/collector"
	"github.com/newthinker/fxscout/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches tickers like AAPL, BRK-B, 0700.HK, SAP.DE
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9-]{1,10}(\.[A-Za-z]{1,4})?$`)

var euSuffixes = []string{".DE", ".PA", ".AS", ".L", ".MI", ".MC", ".SW"}

// Yahoo implements the Yahoo Finance chart collector
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo collector
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

func (y *Yahoo) SupportedMarkets() []core.Market {
	return []core.Market{core.MarketUS, core.MarketHK, core.MarketEU, core.MarketFX}
}

func (y *Yahoo) Init(cfg collector.Config) error {
	if cfg.BaseURL != "" {
		y.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		y.client.Timeout = cfg.Timeout
	}
	return nil
}

// toYahooSymbol maps a pair or ticker to Yahoo's notation.
// EUR/USD -> EURUSD=X, tickers pass through upper-cased.
func toYahooSymbol(symbol string) (string, core.Pair, error) {
	pair, err := core.ParsePair(symbol)
	if err != nil {
		return "", core.Pair{}, err
	}
	if pair.IsFX() {
		return pair.Base + pair.Quote + "=X", pair, nil
	}
	if !validSymbol.MatchString(pair.Base) {
		return "", core.Pair{}, core.WrapError(core.ErrInvalidInput, fmt.Errorf("invalid symbol format: %s", symbol))
	}
	return pair.Base, pair, nil
}

func detectMarket(pair core.Pair) core.Market {
	if pair.IsFX() {
		return core.MarketFX
	}
	if strings.HasSuffix(pair.Base, ".HK") {
		return core.MarketHK
	}
	for _, suffix := range euSuffixes {
		if strings.HasSuffix(pair.Base, suffix) {
			return core.MarketEU
		}
	}
	return core.MarketUS
}

// FetchQuote fetches the latest regular-market price
func (y *Yahoo) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	yahooSymbol, pair, err := toYahooSymbol(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{"interval": {"1d"}, "range": {"1d"}}
	r, err := y.chart(ctx, yahooSymbol, params)
	if err != nil {
		return nil, err
	}

	meta := r.Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no price for symbol: %s", symbol))
	}

	return &core.Quote{
		Symbol: pair.String(),
		Market: detectMarket(pair),
		Price:  meta.RegularMarketPrice,
		Volume: int64(meta.RegularMarketVolume),
		Time:   time.Unix(int64(meta.RegularMarketTime), 0).UTC(),
		Source: y.Name(),
	}, nil
}

// FetchHistory fetches historical OHLCV bars in ascending time order
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	yahooSymbol, pair, err := toYahooSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if end.IsZero() {
		end = time.Now()
	}

	params := url.Values{
		"interval": {toYahooInterval(interval)},
		"period1":  {fmt.Sprint(start.Unix())},
		"period2":  {fmt.Sprint(end.Unix())},
		"events":   {"div,splits"},
	}
	r, err := y.chart(ctx, yahooSymbol, params)
	if err != nil {
		return nil, err
	}
	if len(r.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no bars for symbol: %s", symbol))
	}

	quotes := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	data := make([]core.OHLCV, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePrice := at(quotes.Close, i)
		if closePrice == nil {
			continue // holiday or halted session
		}
		bar := core.OHLCV{
			Symbol:   pair.String(),
			Interval: interval,
			Open:     deref(at(quotes.Open, i)),
			High:     deref(at(quotes.High, i)),
			Low:      deref(at(quotes.Low, i)),
			Close:    *closePrice,
			AdjClose: deref(at(adj, i)),
			Time:     time.Unix(ts, 0).UTC(),
		}
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			bar.Volume = *quotes.Volume[i]
		}
		data = append(data, bar)
	}

	return data, nil
}

func (y *Yahoo) chart(ctx context.Context, yahooSymbol string, params url.Values) (*chartResult, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", y.baseURL, url.PathEscape(yahooSymbol), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "fxscout/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.WrapError(core.ErrCollectorTimeout, err)
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching chart: %w", err))
	}
	defer resp.Body.Close()

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		if result.Chart.Error.Code == "Not Found" {
			return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("yahoo: %s", result.Chart.Error.Description))
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}
	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", yahooSymbol))
	}

	return &result.Chart.Result[0], nil
}

func toYahooInterval(interval string) string {
	switch interval {
	case "1h", "1d", "1wk", "1mo":
		return interval
	default:
		return "1d"
	}
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol              string  `json:"symbol"`
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	RegularMarketVolume int64   `json:"regularMarketVolume"`
	RegularMarketTime   int64   `json:"regularMarketTime"`
}

type indicators struct {
	Quote    []quoteIndicator `json:"quote"`
	AdjClose []struct {
		AdjClose []*float64 `json:"adjclose"`
	} `json:"adjclose"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}
