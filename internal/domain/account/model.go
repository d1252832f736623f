package account

import (
	"time"

	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/types"
)

// BillingProfile is the billing state of an account. It is the only record
// the agreement workflow mutates; within one workflow run there is a single
// writer for a given account.
type BillingProfile struct {
	AccountID      string              `json:"account_id"`
	Email          string              `json:"email"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Language       string              `json:"language"`
	PaymentMethod  types.PaymentMethod `json:"payment_method"`
	BillingCountry types.CountryCode   `json:"billing_country"`

	// CurrentBillingCreditID points at the billing credit created by the
	// last completed plan transition; zero when the account never paid
	CurrentBillingCreditID int  `json:"current_billing_credit_id"`
	UpgradePending         bool `json:"upgrade_pending"`

	UTCUpgrade      *time.Time `json:"utc_upgrade,omitempty"`
	UTCFirstPayment *time.Time `json:"utc_first_payment,omitempty"`
	MaxSubscribers  int        `json:"max_subscribers"`

	TaxProfile TaxProfile `json:"tax_profile"`

	types.BaseModel
}

// TaxProfile carries the fiscal fields required by the method-specific
// accounting mappers. Which fields are populated depends on the payment
// method and billing country.
type TaxProfile struct {
	RazonSocial           string `json:"razon_social,omitempty"`
	IDConsumerType        string `json:"id_consumer_type,omitempty"`
	CFDIUse               string `json:"cfdi_use,omitempty"`
	PaymentType           string `json:"payment_type,omitempty"`
	PaymentWay            string `json:"payment_way,omitempty"`
	BankName              string `json:"bank_name,omitempty"`
	BankAccount           string `json:"bank_account,omitempty"`
	CUIT                  string `json:"cuit,omitempty"`
	BillingResponsibility string `json:"billing_responsibility,omitempty"`
}

// Validate validates the billing profile
func (p *BillingProfile) Validate() error {
	if p.AccountID == "" {
		return ierr.NewError("account_id is required").Mark(ierr.ErrValidation)
	}
	if err := p.PaymentMethod.Validate(); err != nil {
		return err
	}
	return nil
}

// DisplayName returns the name used in notification templates
func (p *BillingProfile) DisplayName() string {
	if p.FirstName == "" {
		return p.Email
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// NotificationLanguage returns the account language, defaulting to "en"
func (p *BillingProfile) NotificationLanguage() string {
	if p.Language == "" {
		return types.DefaultLanguage
	}
	return p.Language
}
