// Package yahoo provides a Yahoo Finance client for daily price histories and
// company metadata.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/aristath/factorlens/internal/domain"
	"github.com/aristath/factorlens/pkg/formulas"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance API
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultRange is the history requested for scoring; ten years covers
	// the longest CAGR window.
	DefaultRange = "10y"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 20 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second)
	DefaultRateLimit = 2.0

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) factorlens/1.0"
)

// Client is a Yahoo Finance API client
type Client struct {
	baseURL    string
	historyLen string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithRange sets the history range requested from the chart endpoint
func WithRange(historyLen string) ClientOption {
	return func(c *Client) {
		c.historyLen = historyLen
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		historyLen: DefaultRange,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), int(DefaultRateLimit)),
		log:        log.With().Str("client", "yahoo").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "yahoo",
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Unknown tickers and cancelled requests say nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return c
}

// GetDailyPrices fetches the adjusted daily closes of a ticker, oldest first.
// Days without a close are dropped.
func (c *Client) GetDailyPrices(ctx context.Context, ticker string) ([]domain.DailyPrice, error) {
	params := url.Values{}
	params.Set("range", c.historyLen)
	params.Set("interval", "1d")
	params.Set("events", "div,splits")

	var resp chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), params, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode:  http.StatusNotFound,
			Code:        resp.Chart.Error.Code,
			Description: resp.Chart.Error.Description,
			Endpoint:    "chart",
		}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoPriceData, ticker)
	}

	prices := parseChart(resp.Chart.Result[0])
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoPriceData, ticker)
	}

	c.log.Debug().Str("ticker", ticker).Int("points", len(prices)).Msg("Fetched daily prices")
	return prices, nil
}

// GetPriceSeries fetches a ticker's adjusted close history as a price series
func (c *Client) GetPriceSeries(ctx context.Context, ticker string) (formulas.PriceSeries, error) {
	prices, err := c.GetDailyPrices(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return domain.ToPriceSeries(prices)
}

// GetMetadata looks up company name, sector and listing details
func (c *Client) GetMetadata(ctx context.Context, ticker string) (*domain.CompanyMetadata, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("quotesCount", "5")
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	for _, q := range resp.Quotes {
		if !strings.EqualFold(q.Symbol, ticker) {
			continue
		}

		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		return &domain.CompanyMetadata{
			Ticker:      domain.NormalizeTicker(q.Symbol),
			Name:        name,
			Sector:      q.Sector,
			Industry:    q.Industry,
			Exchange:    q.Exchange,
			ProductType: domain.ParseProductType(q.QuoteType),
			FetchedAt:   time.Now().UTC(),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, ticker)
}

// get performs a rate limited GET through the circuit breaker
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, params, result)
	})
	return err
}

func (c *Client) do(ctx context.Context, path string, params url.Values, result interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("path", path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: path}

		var chart chartResponse
		if json.Unmarshal(body, &chart) == nil && chart.Chart.Error != nil {
			apiErr.Code = chart.Chart.Error.Code
			apiErr.Description = chart.Chart.Error.Description
		} else {
			apiErr.Description = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseChart zips timestamps with closes. Adjusted closes are preferred;
// the raw close is used when Yahoo omits the adjclose indicator.
func parseChart(result chartResult) []domain.DailyPrice {
	var closes, adjCloses []*float64
	var volumes []*int64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
		volumes = result.Indicators.Quote[0].Volume
	}
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	prices := make([]domain.DailyPrice, 0, len(result.Timestamp))
	lastDate := ""
	for i, ts := range result.Timestamp {
		closePrice := valueAt(closes, i)
		adjClose := valueAt(adjCloses, i)
		if adjClose == nil {
			adjClose = closePrice
		}
		if adjClose == nil || *adjClose <= 0 {
			continue
		}

		// Shift into exchange time so the session date is not off by one
		date := time.Unix(ts+result.Meta.GMTOffset, 0).UTC().Format("2006-01-02")
		if date == lastDate {
			continue
		}
		lastDate = date

		p := domain.DailyPrice{Date: date, AdjClose: *adjClose}
		if closePrice != nil {
			p.Close = *closePrice
		}
		if i < len(volumes) && volumes[i] != nil {
			p.Volume = *volumes[i]
		}
		prices = append(prices, p)
	}

	return prices
}

func valueAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
