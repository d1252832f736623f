package payment

import (
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/types"
)

// Outcome is the immutable result of a charge attempt. It drives both the
// ledger shape and the notification content.
type Outcome struct {
	Status              types.PaymentStatus `json:"status"`
	AuthorizationNumber string              `json:"authorization_number,omitempty"`
	StatusDetail        string              `json:"status_detail,omitempty"`
	PaidAmount          decimal.Decimal     `json:"paid_amount"`
	Currency            string              `json:"currency"`
}

// Approved reports whether the charge settled
func (o *Outcome) Approved() bool {
	return o.Status == types.PaymentStatusApproved
}

// AssumedApproved is the pass-through outcome used when no online charge is
// required (zero total, or transfer settled offline)
func AssumedApproved(amount decimal.Decimal, currency string) *Outcome {
	return &Outcome{
		Status:     types.PaymentStatusApproved,
		PaidAmount: amount,
		Currency:   currency,
	}
}

// Instrument is the encrypted card on file for an account. The raw PAN is
// never held in memory; Encrypted is forwarded opaquely to the gateway.
type Instrument struct {
	Encrypted       string `json:"-"`
	HolderName      string `json:"holder_name"`
	LastFourDigits  string `json:"last_four_digits"`
	Brand           string `json:"brand"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
}
