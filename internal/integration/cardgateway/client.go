package cardgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
)

// GatewayClient defines the interface for card processor operations
type GatewayClient interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)
}

// Client talks to the card processor's HTTP API. Charges are never retried
// here: a timeout after submission could double-charge, so retry policy is
// left to manual reconciliation.
type Client struct {
	baseURL    string
	apiKey     string
	logger     *logger.Logger
	httpClient *http.Client
}

// NewClient creates a new card gateway client
func NewClient(cfg *config.Configuration, logger *logger.Logger) GatewayClient {
	return &Client{
		baseURL: cfg.CardGateway.BaseURL,
		apiKey:  cfg.CardGateway.APIKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Charge submits a charge for the encrypted instrument
func (c *Client) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if req.Instrument == "" {
		return nil, ierr.NewError("payment instrument is required").Mark(ierr.ErrValidation)
	}
	if req.Amount.IsZero() || req.Amount.IsNegative() {
		return nil, ierr.NewError("amount must be positive").Mark(ierr.ErrValidation)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode charge request").
			Mark(ierr.ErrInternal)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/charges", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Infow("submitting card charge",
		"account_id", req.AccountID,
		"amount", req.Amount.String(),
		"currency", req.Currency)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Card gateway request failed").
			WithReportableDetails(map[string]interface{}{
				"account_id": req.AccountID,
			}).
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read card gateway response").
			Mark(ierr.ErrSystem)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, ierr.NewErrorf("card gateway returned status %d", resp.StatusCode).
			WithHint("Card gateway rejected the charge request").
			WithReportableDetails(map[string]interface{}{
				"status_code": resp.StatusCode,
				"body":        string(respBody),
			}).
			Mark(ierr.ErrSystem)
	}

	var chargeResp ChargeResponse
	if err := json.Unmarshal(respBody, &chargeResp); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode card gateway response").
			Mark(ierr.ErrSystem)
	}

	c.logger.Infow("card charge completed",
		"account_id", req.AccountID,
		"status", chargeResp.Status,
		"authorization_number", chargeResp.AuthorizationNumber)

	return &chargeResp, nil
}
