package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrDeliveryFailed indicates a digest could not be posted. Delivery
// failures never invalidate the rendered digest on disk.
var ErrDeliveryFailed = errors.New("digest delivery failed")

// Config holds settings for the Slack webhook deliverer.
type Config struct {
	WebhookURL string
	TimeoutMs  int
	MaxChars   int // per-message chunk limit
}

// DefaultConfig returns a Config with conservative webhook defaults.
// The webhook URL must be supplied by the environment or config file.
func DefaultConfig() Config {
	return Config{
		TimeoutMs: 20000,
		MaxChars:  35000,
	}
}

// LoadConfig reads delivery configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TEAMDIGEST_SLACK_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("TEAMDIGEST_SLACK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	return cfg
}

// ValidateWebhookURL checks that a URL has the shape of a Slack
// incoming webhook before any post is attempted.
func ValidateWebhookURL(url string) error {
	if !strings.HasPrefix(url, "https://hooks.slack.com/services/") {
		return fmt.Errorf("%w: %q is not a Slack incoming webhook URL", ErrDeliveryFailed, url)
	}
	return nil
}

// Client posts rendered digests to a Slack incoming webhook.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a webhook deliverer. The URL is validated at
// delivery time, not here, so a zero config is safe to hold.
func NewClient(cfg Config) *Client {
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultConfig().MaxChars
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

type slackPayload struct {
	Text string `json:"text"`
}

// Deliver posts a digest to the webhook, splitting long bodies into
// multiple messages on paragraph boundaries. The first message carries
// the title and file name, later ones a "(part N)" marker.
func (c *Client) Deliver(ctx context.Context, name, title, body string) error {
	if c.cfg.WebhookURL == "" {
		return fmt.Errorf("%w: no webhook URL configured", ErrDeliveryFailed)
	}

	chunks := chunkText(body, c.cfg.MaxChars)

	var preface strings.Builder
	if title != "" {
		fmt.Fprintf(&preface, "*%s*\n", strings.TrimSpace(title))
	}
	fmt.Fprintf(&preface, "```%s```\n\n", name)

	if err := c.post(ctx, preface.String()+"```"+chunks[0]+"```"); err != nil {
		return err
	}
	for i, chunk := range chunks[1:] {
		msg := fmt.Sprintf("(part %d) of `%s`\n```%s```", i+2, name, chunk)
		if err := c.post(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	data, err := json.Marshal(slackPayload{Text: text})
	if err != nil {
		return fmt.Errorf("%w: marshaling payload: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: slack returned status %d: %s", ErrDeliveryFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// chunkText splits text on blank lines so no chunk exceeds limit.
// A single paragraph longer than the limit becomes its own chunk.
func chunkText(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var buf strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		p := para + "\n\n"
		if buf.Len()+len(p) > limit && buf.Len() > 0 {
			parts = append(parts, strings.TrimRight(buf.String(), "\n"))
			buf.Reset()
		}
		buf.WriteString(p)
	}
	if buf.Len() > 0 {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	return parts
}
