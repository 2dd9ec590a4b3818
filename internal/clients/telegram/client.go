// Package telegram delivers notifications through the Telegram Bot API.
package telegram

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
	"golang.org/x/time/rate"
)

var (
	// ErrNotConfigured is returned when the bot token or chat id is missing
	ErrNotConfigured = errors.New("telegram not configured")
	// ErrSend wraps every delivery failure
	ErrSend = errors.New("telegram send failed")
)

// ClientConfig holds client configuration
type ClientConfig struct {
	BaseURL string
	Token   string
	ChatID  string
	Timeout time.Duration
}

// Client sends HTML-formatted messages to one chat
type Client struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewClient creates a new Telegram client
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		chatID:  cfg.ChatID,
		client:  &http.Client{Timeout: cfg.Timeout},
		// Bot API allows roughly one message per second per chat
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log.With().Str("client", "telegram").Logger(),
	}
}

// Enabled reports whether both credentials are present
func (c *Client) Enabled() bool {
	return c.token != "" && c.chatID != ""
}

// Send posts one message with parse_mode=HTML
func (c *Client) Send(ctx context.Context, text string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrSend, err)
	}

	form := url.Values{
		"chat_id":    {c.chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}

	// The endpoint embeds the token, so it is never logged
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: failed to create request", ErrSend)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSend, redact(err.Error(), c.token))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed apiResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK || !parsed.OK {
		return fmt.Errorf("%w: status %d: %s", ErrSend, resp.StatusCode, parsed.Description)
	}

	c.log.Debug().Int("length", len(text)).Msg("Message sent")
	return nil
}

// redact strips the bot token from transport error messages, which quote the URL
func redact(msg, token string) string {
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "<redacted>")
}
