package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/types"
	"github.com/sendwell/sendwell/internal/validator"
)

// CreateAgreementRequest is the inbound body for an agreement purchase or
// upgrade. Total is nullable: a nil total means nothing is charged upfront.
type CreateAgreementRequest struct {
	PlanID        int              `json:"plan_id" validate:"required,gt=0"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	PromoCode     string           `json:"promo_code,omitempty"`
	OriginInbound string           `json:"origin_inbound,omitempty"`
}

func (r *CreateAgreementRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Total != nil && r.Total.IsNegative() {
		return ierr.NewError("total cannot be negative").
			WithHint("Provide a zero or positive total").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RequestedTotal returns the upfront amount, zero when none was sent
func (r *CreateAgreementRequest) RequestedTotal() decimal.Decimal {
	if r.Total == nil {
		return decimal.Zero
	}
	return *r.Total
}

// AgreementResponse reports the outcome of a completed agreement
type AgreementResponse struct {
	BillingCreditID     int                  `json:"billing_credit_id"`
	InvoiceID           string               `json:"invoice_id"`
	Transition          types.PlanTransition `json:"transition"`
	PaymentStatus       types.PaymentStatus  `json:"payment_status"`
	UpgradePending      bool                 `json:"upgrade_pending"`
	AuthorizationNumber string               `json:"authorization_number,omitempty"`
	Total               decimal.Decimal      `json:"total"`
}
