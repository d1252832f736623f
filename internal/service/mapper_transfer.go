package service

import (
	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/payment"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/types"
)

// transferMapper maps bank transfer agreements: no card fields, the billing
// system is derived from the billing country, and VAT applies only where the
// billing configuration defines a rate (Mexico and Argentina).
type transferMapper struct {
	cfg config.BillingConfig
}

func newTransferMapper(cfg config.BillingConfig) AgreementMapper {
	return &transferMapper{cfg: cfg}
}

func (m *transferMapper) InvoiceEntry(in MapperInput) (*billing.AccountingEntry, error) {
	country := in.Profile.BillingCountry
	taxRate := m.cfg.VATRate(country)

	return &billing.AccountingEntry{
		AccountID: in.Profile.AccountID,
		EntryType: types.AccountingEntryInvoice,
		Status:    types.AccountingEntryStatusPending,
		Source:    types.BillingSystemForTransfer(country),
		Amount:    in.Total,
		Currency:  types.CurrencyUSD,
		TaxRate:   taxRate,
		Taxes:     in.Total.Mul(taxRate).Round(2),
		Date:      in.Now.UTC(),
	}, nil
}

func (m *transferMapper) PaymentEntry(invoice *billing.AccountingEntry, instrument *payment.Instrument) (*billing.AccountingEntry, error) {
	// Transfers settle offline; a payment entry is written by the
	// settlement process, never at agreement time
	return nil, ierr.NewError("transfer payments settle offline and have no payment entry").
		Mark(ierr.ErrInvalidOperation)
}

func (m *transferMapper) BillingCreditAgreement(in MapperInput, creditType types.BillingCreditType) (*billing.BillingCredit, error) {
	credit := baseBillingCredit(in, creditType)

	pending := isUpgradePending(in.Profile.PaymentMethod, in.Promotion)
	credit.Approved = !pending
	credit.Payed = false

	return credit, nil
}
