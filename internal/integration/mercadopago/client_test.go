package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendwell/sendwell/internal/config"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) WalletClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.GetDefaultConfig()
	cfg.MercadoPago.BaseURL = srv.URL
	cfg.MercadoPago.AccessToken = "test-token"
	return NewClient(cfg, logger.GetLogger())
}

func TestCreatePayment(t *testing.T) {
	var gotAuth string
	var gotReq CreatePaymentRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(Payment{
			ID:                424242,
			Status:            types.WalletStatusInProcess,
			StatusDetail:      "pending_review_manual",
			TransactionAmount: gotReq.Amount,
			Currency:          gotReq.Currency,
		})
	})

	payment, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(18150),
		Currency:  "ARS",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, int64(424242), payment.ID)
	assert.Equal(t, types.WalletStatusInProcess, payment.Status)
	assert.Equal(t, "pending_review_manual", payment.StatusDetail)
	assert.True(t, decimal.NewFromInt(18150).Equal(gotReq.Amount))
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("wallet should not be called for invalid amounts")
	})

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{
			AccountID: "acc-1",
			Amount:    amount,
			Currency:  "ARS",
		})
		assert.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	}
}

func TestCreatePaymentErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(100),
		Currency:  "ARS",
	})
	assert.Error(t, err)
	assert.True(t, ierr.IsInternal(err))
}

func TestConvertCurrency(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currency_conversions/search", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "ARS", r.URL.Query().Get("to"))
		json.NewEncoder(w).Encode(map[string]string{"ratio": "1210"})
	})

	conv, err := client.ConvertCurrency(context.Background(), decimal.NewFromInt(15), "USD", "ARS")
	require.NoError(t, err)
	assert.Equal(t, "USD", conv.From)
	assert.Equal(t, "ARS", conv.To)
	assert.True(t, decimal.NewFromInt(1210).Equal(conv.Rate))
	assert.True(t, decimal.NewFromInt(18150).Equal(conv.Total))
}

func TestConvertCurrencyAppliesTaxes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"ratio":     "1000",
			"tax_ratio": "0.21",
		})
	})

	conv, err := client.ConvertCurrency(context.Background(), decimal.NewFromInt(15), "USD", "ARS")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3150).Equal(conv.Taxes), "taxes = %s", conv.Taxes)
	assert.True(t, decimal.NewFromInt(18150).Equal(conv.Total), "total = %s", conv.Total)
}

func TestConvertCurrencySameCurrencyShortCircuits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no rate lookup expected for same-currency conversion")
	})

	conv, err := client.ConvertCurrency(context.Background(), decimal.NewFromInt(15), "USD", "USD")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(conv.Rate))
	assert.True(t, decimal.NewFromInt(15).Equal(conv.Total))
}

func TestConvertCurrencyCachesRate(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"ratio": "17.5"})
	})

	for i := 0; i < 3; i++ {
		_, err := client.ConvertCurrency(context.Background(), decimal.NewFromInt(10), "USD", "MXN")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestConvertCurrencyMissingRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"ratio": "0"})
	})

	_, err := client.ConvertCurrency(context.Background(), decimal.NewFromInt(10), "USD", "ARS")
	assert.Error(t, err)
	assert.True(t, ierr.IsInternal(err))
}
