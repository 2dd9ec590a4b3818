// Package nse fetches option chain and futures data from the NSE public API.
package nse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrUnavailable wraps every failure to obtain usable market data
// (network error, timeout, non-200 status, malformed body, missing fields).
var ErrUnavailable = errors.New("market data unavailable")

// Max response body read from the API
const maxBodyBytes = 16 << 20

// ClientConfig holds client configuration
type ClientConfig struct {
	BaseURL string
	Symbol  string
	Timeout time.Duration
}

// Client for the NSE website API
type Client struct {
	baseURL string
	symbol  string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a new NSE client.
// The client keeps a cookie jar because the API rejects requests without
// the session cookies set by the website.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil) // only fails with non-nil options

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		symbol:  cfg.Symbol,
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout, Jar: jar},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
		log:     log.With().Str("client", "nse").Logger(),
	}
}

// PrimeSession loads the website home page to collect session cookies
func (c *Client) PrimeSession(ctx context.Context) error {
	_, err := c.get(ctx, "/", nil)
	return err
}

// FetchOptionChain fetches and parses the option chain of the configured index
func (c *Client) FetchOptionChain(ctx context.Context) (*OptionChain, error) {
	body, err := c.get(ctx, "/api/option-chain-indices", url.Values{"symbol": {c.symbol}})
	if err != nil {
		return nil, fmt.Errorf("%w: option chain: %w", ErrUnavailable, err)
	}

	chain, err := parseOptionChain(body)
	if err != nil {
		return nil, fmt.Errorf("%w: option chain: %w", ErrUnavailable, err)
	}

	c.log.Debug().
		Str("expiry", chain.Expiry).
		Float64("spot", chain.Spot).
		Int("strikes", len(chain.Rows)).
		Msg("Fetched option chain")

	return chain, nil
}

// FetchFutures fetches and parses the futures quote of the configured index
func (c *Client) FetchFutures(ctx context.Context) (*Futures, error) {
	body, err := c.get(ctx, "/api/quote-derivative", url.Values{"symbol": {c.symbol}})
	if err != nil {
		return nil, fmt.Errorf("%w: futures: %w", ErrUnavailable, err)
	}

	futures, err := parseFutures(body)
	if err != nil {
		return nil, fmt.Errorf("%w: futures: %w", ErrUnavailable, err)
	}

	c.log.Debug().Int64("volume", futures.TradedVolume).Msg("Fetched futures quote")
	return futures, nil
}

// get performs a rate-limited GET with browser-like headers and returns the body
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json,text/javascript,*/*;q=0.01")
	req.Header.Set("Referer", c.baseURL+"/option-chain")
	req.Header.Set("Connection", "keep-alive")

	c.log.Debug().Str("url", reqURL).Msg("Fetching")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
