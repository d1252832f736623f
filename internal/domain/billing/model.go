package billing

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/types"
)

// BillingCredit is the ledger row recording one plan purchase or upgrade
// event and its terms
type BillingCredit struct {
	ID        int    `json:"id"`
	AccountID string `json:"account_id"`
	PlanID    int    `json:"plan_id"`

	Date           time.Time  `json:"date"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	ActivationDate *time.Time `json:"activation_date,omitempty"`

	Approved bool `json:"approved"`
	Payed    bool `json:"payed"`

	PaymentMethod  types.PaymentMethod `json:"payment_method"`
	PlanFee        decimal.Decimal     `json:"plan_fee"`
	Total          decimal.Decimal     `json:"total"`
	CreditsQty     *int                `json:"credits_qty,omitempty"`
	SubscribersQty *int                `json:"subscribers_qty,omitempty"`

	// DiscountPercentage is the promotion discount applied to this event;
	// DiscountPlanFeeAdmin is the standing admin discount carried forward
	// across tier upgrades
	DiscountPercentage    decimal.Decimal `json:"discount_percentage"`
	DiscountPlanFeeAdmin  decimal.Decimal `json:"discount_plan_fee_admin"`
	ExtraCreditsPromotion int             `json:"extra_credits_promotion"`
	PromotionID           *int            `json:"promotion_id,omitempty"`

	Type types.BillingCreditType `json:"type"`

	types.BaseModel
}

// Validate validates the billing credit before persistence
func (b *BillingCredit) Validate() error {
	if b.AccountID == "" {
		return ierr.NewError("account_id is required").Mark(ierr.ErrValidation)
	}
	if b.PlanID <= 0 {
		return ierr.NewError("billing credit must reference a valid plan").Mark(ierr.ErrValidation)
	}
	if b.Type == "" {
		return ierr.NewError("billing credit type is required").Mark(ierr.ErrValidation)
	}
	// An upgrade that is still pending cannot claim settlement dates
	if !b.Approved && (b.PaymentDate != nil || b.ActivationDate != nil) {
		return ierr.NewError("unapproved billing credit cannot carry payment or activation dates").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AccountingEntry is an invoice or payment row recording a monetary
// transaction routed to a downstream billing system
type AccountingEntry struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`

	EntryType types.AccountingEntryType   `json:"entry_type"`
	Status    types.AccountingEntryStatus `json:"status"`
	Source    types.BillingSystem         `json:"source"`

	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Taxes    decimal.Decimal `json:"taxes"`

	AuthorizationNumber string `json:"authorization_number,omitempty"`

	// Card fields, set only on payment entries charged to a card
	CCHolderName     string `json:"cc_holder_name,omitempty"`
	CCLastFourDigits string `json:"cc_last_four_digits,omitempty"`
	CCBrand          string `json:"cc_brand,omitempty"`

	Date time.Time `json:"date"`
}

// Validate validates the accounting entry
func (e *AccountingEntry) Validate() error {
	if e.AccountID == "" {
		return ierr.NewError("account_id is required").Mark(ierr.ErrValidation)
	}
	if e.EntryType != types.AccountingEntryInvoice && e.EntryType != types.AccountingEntryPayment {
		return ierr.NewErrorf("invalid accounting entry type: %s", e.EntryType).Mark(ierr.ErrValidation)
	}
	if e.Amount.IsNegative() {
		return ierr.NewError("accounting entry amount cannot be negative").Mark(ierr.ErrValidation)
	}
	return nil
}

// MovementCredit is the ledger row recording a change in an account's
// available email credit balance
type MovementCredit struct {
	ID              int       `json:"id"`
	AccountID       string    `json:"account_id"`
	BillingCreditID int       `json:"billing_credit_id"`
	CreditsQty      int       `json:"credits_qty"`
	Date            time.Time `json:"date"`
}
