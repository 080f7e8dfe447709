// Package yahoo implements market.PriceSource against the public Yahoo
// Finance chart and search endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rustyeddy/odyssey/market"
)

// DefaultBaseURL is the Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects requests without a browser-ish user agent.
const userAgent = "Mozilla/5.0 (compatible; odyssey/1.0)"

// Client is a Yahoo Finance API client. The zero Timeout defaults to 30s.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// chartResponse is the subset of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				DayHigh            float64 `json:"regularMarketDayHigh"`
				DayLow             float64 `json:"regularMarketDayLow"`
				Volume             float64 `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Link                string `json:"link"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// Quote is a symbol's daily stats snapshot.
type Quote struct {
	Symbol    string
	Price     float64
	PrevClose float64
	DayHigh   float64
	DayLow    float64
	Volume    float64
}

// Current returns the latest market price for symbol, falling back to the
// previous close when a live price is not published.
func (c *Client) Current(ctx context.Context, symbol string) (float64, error) {
	q, err := c.Quote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Quote fetches the daily stats for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	resp, err := c.chart(ctx, symbol, params)
	if err != nil {
		return Quote{}, err
	}

	meta := resp.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price == 0 {
		price = meta.PreviousClose
	}
	if price == 0 {
		return Quote{}, fmt.Errorf("quote %s: no price in response: %w", symbol, market.ErrSourceUnavailable)
	}

	return Quote{
		Symbol:    symbol,
		Price:     price,
		PrevClose: meta.PreviousClose,
		DayHigh:   meta.DayHigh,
		DayLow:    meta.DayLow,
		Volume:    meta.Volume,
	}, nil
}

// Candles returns OHLCV bars ordered oldest first. Bars with a null close
// (halted or partial rows) are skipped.
func (c *Client) Candles(ctx context.Context, req market.CandlesRequest) ([]market.Candle, error) {
	params := url.Values{}

	interval := req.Interval
	if interval == "" {
		interval = market.Interval1D
	}
	params.Set("interval", string(interval))

	if req.From != nil && req.To != nil {
		params.Set("period1", fmt.Sprintf("%d", req.From.Unix()))
		params.Set("period2", fmt.Sprintf("%d", req.To.Unix()))
	} else {
		r := req.Range
		if r == "" {
			r = market.Range1Mo
		}
		params.Set("range", string(r))
	}

	resp, err := c.chart(ctx, req.Symbol, params)
	if err != nil {
		return nil, err
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("candles %s: empty quote data: %w", req.Symbol, market.ErrSourceUnavailable)
	}
	quote := result.Indicators.Quote[0]

	candles := make([]market.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		candles = append(candles, market.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("candles %s: no bars returned: %w", req.Symbol, market.ErrSourceUnavailable)
	}
	return candles, nil
}

// News returns recent headlines for symbol via the search endpoint.
func (c *Client) News(ctx context.Context, symbol string) ([]market.NewsItem, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", "10")
	params.Set("quotesCount", "0")

	apiURL := fmt.Sprintf("%s/v1/finance/search?%s", c.baseURL, params.Encode())

	var resp searchResponse
	if err := c.getJSON(ctx, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("news %s: %w", symbol, err)
	}

	items := make([]market.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		if n.Title == "" || n.Link == "" {
			continue
		}
		items = append(items, market.NewsItem{
			Title:     n.Title,
			Link:      n.Link,
			Publisher: n.Publisher,
			Published: time.Unix(n.ProviderPublishTime, 0).UTC(),
		})
	}
	return items, nil
}

func (c *Client) chart(ctx context.Context, symbol string, params url.Values) (*chartResponse, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.getJSON(ctx, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s: %w", symbol, resp.Chart.Error.Description, market.ErrSourceUnavailable)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result: %w", symbol, market.ErrSourceUnavailable)
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", market.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", market.ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", market.ErrSourceUnavailable, err)
	}
	return nil
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
