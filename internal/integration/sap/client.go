package sap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
)

// BillingRecord is the composed billing payload forwarded to SAP after a
// chargeable agreement completes
type BillingRecord struct {
	AccountID           string          `json:"account_id"`
	InvoiceID           string          `json:"invoice_id"`
	BillingCreditID     int             `json:"billing_credit_id"`
	PlanID              int             `json:"plan_id"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Taxes               decimal.Decimal `json:"taxes"`
	PaymentMethod       string          `json:"payment_method"`
	BillingCountry      string          `json:"billing_country"`
	AuthorizationNumber string          `json:"authorization_number,omitempty"`
}

// SAPClient defines the one-way billing sink interface
type SAPClient interface {
	SendBillingRecord(ctx context.Context, record *BillingRecord) error
}

// Client forwards billing records to SAP. This is a best-effort sink: the
// caller logs failures and never unwinds the agreement.
type Client struct {
	enabled    bool
	baseURL    string
	apiKey     string
	logger     *logger.Logger
	httpClient *retryablehttp.Client
}

// NewClient creates a new SAP client
func NewClient(cfg *config.Configuration, log *logger.Logger) SAPClient {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.HTTPClient.Timeout = 15 * time.Second
	httpClient.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		enabled:    cfg.SAP.Enabled,
		baseURL:    cfg.SAP.BaseURL,
		apiKey:     cfg.SAP.APIKey,
		logger:     log,
		httpClient: httpClient,
	}
}

// SendBillingRecord posts the billing record to SAP
func (c *Client) SendBillingRecord(ctx context.Context, record *BillingRecord) error {
	if !c.enabled {
		c.logger.Debugw("SAP integration disabled, skipping billing record",
			"account_id", record.AccountID,
			"invoice_id", record.InvoiceID)
		return nil
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/billing", bytes.NewReader(payload))
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("SAP billing sync failed").
			WithReportableDetails(map[string]interface{}{
				"account_id": record.AccountID,
				"invoice_id": record.InvoiceID,
			}).
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ierr.NewErrorf("SAP returned status %d", resp.StatusCode).
			WithReportableDetails(map[string]interface{}{
				"account_id": record.AccountID,
				"invoice_id": record.InvoiceID,
			}).
			Mark(ierr.ErrSystem)
	}

	c.logger.Infow("billing record sent to SAP",
		"account_id", record.AccountID,
		"invoice_id", record.InvoiceID)
	return nil
}
