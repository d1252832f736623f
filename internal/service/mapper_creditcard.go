package service

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/payment"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/types"
)

// creditCardMapper maps card agreements: always the QBL billing system,
// amounts stay in USD, card details land on the payment entry.
type creditCardMapper struct{}

func newCreditCardMapper() AgreementMapper {
	return &creditCardMapper{}
}

func (m *creditCardMapper) InvoiceEntry(in MapperInput) (*billing.AccountingEntry, error) {
	return &billing.AccountingEntry{
		AccountID:           in.Profile.AccountID,
		EntryType:           types.AccountingEntryInvoice,
		Status:              entryStatusFor(in.Outcome),
		Source:              types.BillingSystemQBL,
		Amount:              in.Total,
		Currency:            types.CurrencyUSD,
		TaxRate:             decimal.Zero,
		Taxes:               decimal.Zero,
		AuthorizationNumber: in.Outcome.AuthorizationNumber,
		Date:                in.Now.UTC(),
	}, nil
}

func (m *creditCardMapper) PaymentEntry(invoice *billing.AccountingEntry, instrument *payment.Instrument) (*billing.AccountingEntry, error) {
	if instrument == nil {
		return nil, ierr.NewError("card payment entry requires an instrument").
			Mark(ierr.ErrInternal)
	}

	entry := *invoice
	entry.EntryType = types.AccountingEntryPayment
	entry.Status = types.AccountingEntryStatusApproved
	entry.CCHolderName = instrument.HolderName
	entry.CCLastFourDigits = instrument.LastFourDigits
	entry.CCBrand = instrument.Brand
	return &entry, nil
}

func (m *creditCardMapper) BillingCreditAgreement(in MapperInput, creditType types.BillingCreditType) (*billing.BillingCredit, error) {
	credit := baseBillingCredit(in, creditType)

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
