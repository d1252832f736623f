package cardgateway

import (
	"github.com/shopspring/decimal"
)

// ChargeStatus is the gateway's native status vocabulary
type ChargeStatus string

const (
	ChargeStatusApproved ChargeStatus = "approved"
	ChargeStatusDeclined ChargeStatus = "declined"
)

// ChargeRequest is the request to charge an encrypted card on file
type ChargeRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Instrument  string          `json:"instrument"`
	Description string          `json:"description,omitempty"`
}

// ChargeResponse is the gateway's charge result
type ChargeResponse struct {
	TransactionID       string       `json:"transaction_id"`
	Status              ChargeStatus `json:"status"`
	AuthorizationNumber string       `json:"authorization_number"`
	StatusDetail        string       `json:"status_detail,omitempty"`
}
