package service

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/payment"
	"github.com/sendwell/sendwell/internal/types"
)

// mercadoPagoMapper maps wallet agreements: invoice amounts and taxes are
// converted into the wallet's settlement currency before being recorded.
type mercadoPagoMapper struct{}

func newMercadoPagoMapper() AgreementMapper {
	return &mercadoPagoMapper{}
}

func (m *mercadoPagoMapper) InvoiceEntry(in MapperInput) (*billing.AccountingEntry, error) {
	amount := in.Total
	currency := types.CurrencyUSD
	taxes := decimal.Zero

	if in.Conversion != nil {
		amount = in.Conversion.Total
		currency = in.Conversion.To
		taxes = in.Conversion.Taxes
	}

	return &billing.AccountingEntry{
		AccountID:           in.Profile.AccountID,
		EntryType:           types.AccountingEntryInvoice,
		Status:              entryStatusFor(in.Outcome),
		Source:              types.BillingSystemMercadoPago,
		Amount:              amount,
		Currency:            currency,
		Taxes:               taxes,
		AuthorizationNumber: in.Outcome.AuthorizationNumber,
		Date:                in.Now.UTC(),
	}, nil
}

func (m *mercadoPagoMapper) PaymentEntry(invoice *billing.AccountingEntry, instrument *payment.Instrument) (*billing.AccountingEntry, error) {
	entry := *invoice
	entry.EntryType = types.AccountingEntryPayment
	entry.Status = types.AccountingEntryStatusApproved
	return &entry, nil
}

func (m *mercadoPagoMapper) BillingCreditAgreement(in MapperInput, creditType types.BillingCreditType) (*billing.BillingCredit, error) {
	credit := baseBillingCredit(in, creditType)

	// A wallet payment still in process leaves the credit unapproved until
	// the wallet settles; the record is kept so settlement webhooks can
	// complete it later
	approved := in.Outcome.Approved()
	credit.Approved = approved
	credit.Payed = approved
	if approved {
		now := in.Now.UTC()
		credit.PaymentDate = lo.ToPtr(now)
		credit.ActivationDate = lo.ToPtr(now)
	}

	return credit, nil
}
