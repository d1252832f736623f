package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
)

// Notifier defines the interface for the Slack audit channel
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Client posts messages to a Slack incoming webhook
type Client struct {
	enabled    bool
	webhookURL string
	channel    string
	logger     *logger.Logger
	httpClient *retryablehttp.Client
}

// NewClient creates a new Slack notifier
func NewClient(cfg *config.Configuration, log *logger.Logger) Notifier {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.HTTPClient.Timeout = 10 * time.Second
	httpClient.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		enabled:    cfg.Slack.Enabled,
		webhookURL: cfg.Slack.WebhookURL,
		channel:    cfg.Slack.Channel,
		logger:     log,
		httpClient: httpClient,
	}
}

// Notify posts a message to the configured webhook
func (c *Client) Notify(ctx context.Context, text string) error {
	if !c.enabled || c.webhookURL == "" {
		c.logger.Debugw("slack notifications disabled, skipping", "text", text)
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"text":    text,
		"channel": c.channel,
	})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Slack notification failed").
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ierr.NewErrorf("slack webhook returned status %d", resp.StatusCode).
			Mark(ierr.ErrSystem)
	}
	return nil
}
