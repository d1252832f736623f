package email

import (
	"bytes"
	"context"
	"html/template"

	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/types"
)

// SendTemplateRequest describes a templated notification email
type SendTemplateRequest struct {
	ToAddress string
	Kind      types.NotificationKind
	Language  string
	Data      map[string]interface{}
}

// SendTemplateResponse is the result of a templated send
type SendTemplateResponse struct {
	MessageID string
	Success   bool
	Error     string
}

// Sender defines the interface consumed by the notification fan-out
type Sender interface {
	SendTemplate(ctx context.Context, req SendTemplateRequest) (*SendTemplateResponse, error)
	SendAdminSummary(ctx context.Context, toAddress, subject, body string) error
}

// Email handles templated email operations
type Email struct {
	client *EmailClient
	logger *logger.Logger
}

// NewEmail creates a new email service
func NewEmail(client *EmailClient, logger *logger.Logger) *Email {
	return &Email{
		client: client,
		logger: logger,
	}
}

// SendTemplate renders the localized template for the notification kind and
// sends it. Unknown languages fall back to English.
func (s *Email) SendTemplate(ctx context.Context, req SendTemplateRequest) (*SendTemplateResponse, error) {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", req.ToAddress,
			"kind", req.Kind,
		)
		return &SendTemplateResponse{
			Success: false,
			Error:   "email client is disabled",
		}, nil
	}

	language := req.Language
	if language == "" {
		language = types.DefaultLanguage
	}

	body, subject, ok := lookupTemplate(req.Kind, language)
	if !ok {
		return nil, ierr.NewErrorf("no template for notification kind %s", req.Kind).
			Mark(ierr.ErrInternal)
	}

	tmpl, err := template.New(string(req.Kind)).Parse(body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse email template").
			Mark(ierr.ErrInternal)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, req.Data); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render email template").
			Mark(ierr.ErrInternal)
	}

	messageID, err := s.client.SendEmail(ctx, s.client.GetFromAddress(),
		req.ToAddress, subject, rendered.String(), "")
	if err != nil {
		s.logger.Errorw("failed to send email",
			"error", err,
			"to", req.ToAddress,
			"kind", req.Kind,
		)
		return &SendTemplateResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	s.logger.Infow("email sent successfully",
		"message_id", messageID,
		"to", req.ToAddress,
		"kind", req.Kind,
	)

	return &SendTemplateResponse{
		MessageID: messageID,
		Success:   true,
	}, nil
}

// SendAdminSummary sends a plain text summary to the billing admin address
func (s *Email) SendAdminSummary(ctx context.Context, toAddress, subject, body string) error {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping admin summary",
			"to", toAddress,
			"subject", subject,
		)
		return nil
	}

	_, err := s.client.SendEmail(ctx, s.client.GetFromAddress(), toAddress, subject, "", body)
	if err != nil {
		s.logger.Errorw("failed to send admin summary",
			"error", err,
			"to", toAddress,
			"subject", subject,
		)
		return err
	}
	return nil
}
