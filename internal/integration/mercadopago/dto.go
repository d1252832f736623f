package mercadopago

import (
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/types"
)

// CreatePaymentRequest is the request to charge the account's wallet
type CreatePaymentRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"transaction_amount"`
	Currency    string          `json:"currency_id"`
	Description string          `json:"description,omitempty"`
	Instrument  string          `json:"token,omitempty"`
}

// Payment is the wallet's payment object
type Payment struct {
	ID                int64                     `json:"id"`
	Status            types.WalletPaymentStatus `json:"status"`
	StatusDetail      string                    `json:"status_detail,omitempty"`
	TransactionAmount decimal.Decimal           `json:"transaction_amount"`
	Currency          string                    `json:"currency_id"`
	AuthorizationCode string                    `json:"authorization_code,omitempty"`
}

// CurrencyConversion is the result of converting an amount into the wallet's
// settlement currency
type CurrencyConversion struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Rate  decimal.Decimal `json:"rate"`
	Taxes decimal.Decimal `json:"taxes"`
	Total decimal.Decimal `json:"total"`
}
