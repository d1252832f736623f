package email

import (
	"context"

	"github.com/resend/resend-go/v2"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// EmailClient wraps the resend client
type EmailClient struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
}

// NewEmailClient creates a new email client from configuration
func NewEmailClient(cfg *config.Configuration) *EmailClient {
	var client *resend.Client
	if cfg.Email.Enabled && cfg.Email.APIKey != "" {
		client = resend.NewClient(cfg.Email.APIKey)
	}

	return &EmailClient{
		client:      client,
		enabled:     cfg.Email.Enabled && cfg.Email.APIKey != "",
		fromAddress: cfg.Email.FromAddress,
	}
}

// IsEnabled reports whether outbound email is configured
func (c *EmailClient) IsEnabled() bool {
	return c.enabled
}

// GetFromAddress returns the configured sender address
func (c *EmailClient) GetFromAddress() string {
	return c.fromAddress
}

// SendEmail sends a single email and returns the provider message id
func (c *EmailClient) SendEmail(ctx context.Context, from, to, subject, html, text string) (string, error) {
	if !c.enabled {
		return "", ierr.NewError("email client is disabled").Mark(ierr.ErrInvalidOperation)
	}

	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Email provider rejected the message").
			Mark(ierr.ErrSystem)
	}
	return sent.Id, nil
}
