package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches market data from the remote data gateway.
// The gateway is a dumb fetcher: every endpoint returns a JSON list which may
// legitimately be empty when the upstream source has nothing for a symbol.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new market data client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// GetQuotes fetches the latest quotes for a batch of symbols
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	var quotes []Quote
	if err := c.getJSON(ctx, "/quotes", url.Values{"symbols": {strings.Join(symbols, ",")}}, &quotes); err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	return quotes, nil
}

// GetProfiles fetches fundamentals profiles for a batch of symbols
func (c *Client) GetProfiles(ctx context.Context, symbols []string) ([]Profile, error) {
	var profiles []Profile
	if err := c.getJSON(ctx, "/profiles", url.Values{"symbols": {strings.Join(symbols, ",")}}, &profiles); err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	return profiles, nil
}

// GetChart fetches a daily price history for one symbol in [from, to]
func (c *Client) GetChart(ctx context.Context, symbol string, from, to time.Time) ([]PricePoint, error) {
	params := url.Values{
		"from": {from.Format("2006-01-02")},
		"to":   {to.Format("2006-01-02")},
	}

	var points []PricePoint
	if err := c.getJSON(ctx, "/chart/"+url.PathEscape(symbol), params, &points); err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}
	return points, nil
}

// GetDividends fetches the full dividend history for one symbol
func (c *Client) GetDividends(ctx context.Context, symbol string) ([]DividendRecord, error) {
	var records []DividendRecord
	if err := c.getJSON(ctx, "/dividends/"+url.PathEscape(symbol), nil, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch dividends for %s: %w", symbol, err)
	}
	return records, nil
}

// GetSplits fetches the split history for one symbol
func (c *Client) GetSplits(ctx context.Context, symbol string) ([]SplitRecord, error) {
	var records []SplitRecord
	if err := c.getJSON(ctx, "/splits/"+url.PathEscape(symbol), nil, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch splits for %s: %w", symbol, err)
	}
	return records, nil
}

// GetStockNews fetches recent news for a batch of symbols
func (c *Client) GetStockNews(ctx context.Context, symbols []string) ([]NewsItem, error) {
	var items []NewsItem
	if err := c.getJSON(ctx, "/news", url.Values{"symbols": {strings.Join(symbols, ",")}}, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	return items, nil
}

// getJSON performs a GET request against the gateway and decodes the response
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
