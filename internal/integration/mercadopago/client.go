package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
)

// Conversion rates move slowly; cache them briefly so one agreement does not
// trigger repeated rate lookups.
const (
	rateCacheTTL     = 5 * time.Minute
	rateCacheCleanup = 10 * time.Minute
)

// WalletClient defines the interface for MercadoPago operations
type WalletClient interface {
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Payment, error)
	ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (*CurrencyConversion, error)
}

// Client talks to the MercadoPago HTTP API. Payments are not retried for the
// same reason the card gateway does not retry.
type Client struct {
	baseURL     string
	accessToken string
	logger      *logger.Logger
	httpClient  *http.Client
	rateCache   *gocache.Cache
}

// NewClient creates a new MercadoPago client
func NewClient(cfg *config.Configuration, logger *logger.Logger) WalletClient {
	return &Client{
		baseURL:     cfg.MercadoPago.BaseURL,
		accessToken: cfg.MercadoPago.AccessToken,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateCache: gocache.New(rateCacheTTL, rateCacheCleanup),
	}
}

// CreatePayment charges the account's wallet
func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Payment, error) {
	if req.Amount.IsZero() || req.Amount.IsNegative() {
		return nil, ierr.NewError("amount must be positive").Mark(ierr.ErrValidation)
	}

	var payment Payment
	if err := c.post(ctx, "/v1/payments", req, &payment); err != nil {
		return nil, err
	}

	c.logger.Infow("wallet payment created",
		"account_id", req.AccountID,
		"payment_id", payment.ID,
		"status", payment.Status,
		"status_detail", payment.StatusDetail)

	return &payment, nil
}

// ConvertCurrency converts an amount into the wallet's settlement currency,
// returning the rate, taxes and converted total
func (c *Client) ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (*CurrencyConversion, error) {
	if from == to {
		return &CurrencyConversion{
			From: from, To: to,
			Rate:  decimal.NewFromInt(1),
			Total: amount,
		}, nil
	}

	quote, err := c.conversionQuote(ctx, from, to)
	if err != nil {
		return nil, err
	}

	converted := amount.Mul(quote.Ratio).Round(2)
	taxes := converted.Mul(quote.TaxRatio).Round(2)
	return &CurrencyConversion{
		From:  from,
		To:    to,
		Rate:  quote.Ratio,
		Taxes: taxes,
		Total: converted.Add(taxes),
	}, nil
}

// conversionQuote is the rate service's answer for a currency pair: the
// exchange ratio plus the tax ratio levied on wallet settlements in the
// target currency
type conversionQuote struct {
	Ratio    decimal.Decimal `json:"ratio"`
	TaxRatio decimal.Decimal `json:"tax_ratio"`
}

func (c *Client) conversionQuote(ctx context.Context, from, to string) (*conversionQuote, error) {
	cacheKey := from + ":" + to
	if cached, ok := c.rateCache.Get(cacheKey); ok {
		return cached.(*conversionQuote), nil
	}

	var quote conversionQuote
	path := fmt.Sprintf("/currency_conversions/search?from=%s&to=%s", from, to)
	if err := c.get(ctx, path, &quote); err != nil {
		return nil, err
	}
	if quote.Ratio.IsZero() {
		return nil, ierr.NewErrorf("no conversion rate available for %s/%s", from, to).
			Mark(ierr.ErrSystem)
	}

	c.rateCache.Set(cacheKey, &quote, gocache.DefaultExpiration)
	return &quote, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Wallet request failed").
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ierr.NewErrorf("wallet API returned status %d", resp.StatusCode).
			WithReportableDetails(map[string]interface{}{
				"status_code": resp.StatusCode,
				"path":        path,
				"body":        string(respBody),
			}).
			Mark(ierr.ErrSystem)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to decode wallet response").
				Mark(ierr.ErrSystem)
		}
	}
	return nil
}
