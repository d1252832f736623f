package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
)

// Contact is a CRM contact record
type Contact struct {
	ID    string `json:"id"`
	Email string `json:"Email"`
}

// Lead is the CRM lead/contact payload synced on a new plan activation
type Lead struct {
	Email         string `json:"Email"`
	FirstName     string `json:"First_Name,omitempty"`
	LastName      string `json:"Last_Name,omitempty"`
	PlanName      string `json:"Plan_Name,omitempty"`
	PaymentMethod string `json:"Payment_Method,omitempty"`
	Country       string `json:"Country,omitempty"`
}

// CRMClient defines the interface for the Zoho CRM sync
type CRMClient interface {
	SearchContact(ctx context.Context, email string) (*Contact, error)
	UpsertLead(ctx context.Context, lead *Lead) error
}

// Client talks to the Zoho CRM HTTP API. Used only as a best-effort sink on
// new plan activations.
type Client struct {
	baseURL    string
	token      string
	logger     *logger.Logger
	httpClient *retryablehttp.Client
}

// NewClient creates a new Zoho CRM client
func NewClient(cfg *config.Configuration, log *logger.Logger) CRMClient {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.HTTPClient.Timeout = 10 * time.Second
	httpClient.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		baseURL:    cfg.Zoho.BaseURL,
		token:      cfg.Zoho.RefreshToken,
		logger:     log,
		httpClient: httpClient,
	}
}

// SearchContact looks up a CRM contact by email; nil with nil error means no
// contact exists yet
func (c *Client) SearchContact(ctx context.Context, email string) (*Contact, error) {
	path := fmt.Sprintf("/crm/v2/Contacts/search?email=%s", url.QueryEscape(email))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("CRM contact search failed").
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ierr.NewErrorf("CRM returned status %d", resp.StatusCode).Mark(ierr.ErrSystem)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var result struct {
		Data []Contact `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// UpsertLead creates or updates the CRM lead for the account
func (c *Client) UpsertLead(ctx context.Context, lead *Lead) error {
	payload, err := json.Marshal(map[string]interface{}{
		"data": []*Lead{lead},
	})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/crm/v2/Leads/upsert", bytes.NewReader(payload))
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("CRM lead upsert failed").
			WithReportableDetails(map[string]interface{}{
				"email": lead.Email,
			}).
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ierr.NewErrorf("CRM returned status %d", resp.StatusCode).
			WithReportableDetails(map[string]interface{}{
				"email": lead.Email,
			}).
			Mark(ierr.ErrSystem)
	}

	c.logger.Infow("CRM lead synced", "email", lead.Email)
	return nil
}
