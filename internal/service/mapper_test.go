package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/payment"
	"github.com/sendwell/sendwell/internal/domain/plan"
	"github.com/sendwell/sendwell/internal/domain/promotion"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/integration/mercadopago"
	"github.com/sendwell/sendwell/internal/types"
)

type MapperSuite struct {
	suite.Suite
	registry *MapperRegistry
	now      time.Time
}

func TestMappers(t *testing.T) {
	suite.Run(t, new(MapperSuite))
}

func (s *MapperSuite) SetupTest() {
	s.registry = NewMapperRegistry(config.GetDefaultConfig())
	s.now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func (s *MapperSuite) input(method types.PaymentMethod, country types.CountryCode) MapperInput {
	return MapperInput{
		Total: decimal.NewFromFloat(15.00),
		Profile: &account.BillingProfile{
			AccountID:      "acc-1",
			Email:          "user@example.com",
			PaymentMethod:  method,
			BillingCountry: country,
		},
		NewPlan: &plan.Plan{
			ID:       7,
			UserType: types.UserTypeMonthly,
			Name:     "Monthly 5K",
			EmailQty: 5000,
			Fee:      decimal.NewFromInt(15),
		},
		Outcome: &payment.Outcome{
			Status:              types.PaymentStatusApproved,
			AuthorizationNumber: "LLLTD222",
			PaidAmount:          decimal.NewFromFloat(15.00),
			Currency:            types.CurrencyUSD,
		},
		Now: s.now,
	}
}

func (s *MapperSuite) TestRegistryResolvesAllMethods() {
	for _, method := range []types.PaymentMethod{
		types.PaymentMethodCreditCard,
		types.PaymentMethodMercadoPago,
		types.PaymentMethodTransfer,
	} {
		mapper, err := s.registry.Resolve(method)
		s.NoError(err)
		s.NotNil(mapper)
	}
}

func (s *MapperSuite) TestRegistryFailsForUnknownMethod() {
	_, err := s.registry.Resolve(types.PaymentMethod("paypal"))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *MapperSuite) TestCreditCardInvoice() {
	mapper, err := s.registry.Resolve(types.PaymentMethodCreditCard)
	s.NoError(err)

	in := s.input(types.PaymentMethodCreditCard, types.CountryMexico)
	invoice, err := mapper.InvoiceEntry(in)
	s.NoError(err)

	s.Equal(types.AccountingEntryInvoice, invoice.EntryType)
	s.Equal(types.BillingSystemQBL, invoice.Source)
	s.Equal(types.CurrencyUSD, invoice.Currency)
	s.Equal(types.AccountingEntryStatusApproved, invoice.Status)
	s.True(invoice.Taxes.IsZero(), "card invoices carry no VAT")
	s.Equal("LLLTD222", invoice.AuthorizationNumber)
}

func (s *MapperSuite) TestCreditCardPaymentEntryCopiesCardFields() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodCreditCard)
	in := s.input(types.PaymentMethodCreditCard, types.CountryColombia)

	invoice, err := mapper.InvoiceEntry(in)
	s.NoError(err)

	instrument := &payment.Instrument{
		HolderName:     "Jane Roe",
		LastFourDigits: "4242",
		Brand:          "visa",
	}
	entry, err := mapper.PaymentEntry(invoice, instrument)
	s.NoError(err)

	s.Equal(types.AccountingEntryPayment, entry.EntryType)
	s.Equal(types.AccountingEntryStatusApproved, entry.Status)
	s.Equal("Jane Roe", entry.CCHolderName)
	s.Equal("4242", entry.CCLastFourDigits)
	s.Equal("visa", entry.CCBrand)
	s.True(entry.Amount.Equal(invoice.Amount))
}

func (s *MapperSuite) TestCreditCardPaymentEntryRequiresInstrument() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodCreditCard)
	in := s.input(types.PaymentMethodCreditCard, types.CountryColombia)
	invoice, _ := mapper.InvoiceEntry(in)

	_, err := mapper.PaymentEntry(invoice, nil)
	s.Error(err)
	s.True(ierr.IsInternal(err))
}

func (s *MapperSuite) TestCreditCardCreditApprovedAndPayed() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodCreditCard)
	in := s.input(types.PaymentMethodCreditCard, types.CountryColombia)

	credit, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
	s.NoError(err)

	s.True(credit.Approved)
	s.True(credit.Payed)
	s.NotNil(credit.PaymentDate)
	s.NotNil(credit.ActivationDate)
	s.Equal(types.BillingCreditUpgradeRequest, credit.Type)
	s.Equal(lo.ToPtr(5000), credit.CreditsQty)
	s.Nil(credit.SubscribersQty)
}

func (s *MapperSuite) TestWalletInvoiceUsesConversion() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodMercadoPago)

	in := s.input(types.PaymentMethodMercadoPago, types.CountryArgentina)
	in.Conversion = &mercadopago.CurrencyConversion{
		From:  types.CurrencyUSD,
		To:    types.CurrencyARS,
		Rate:  decimal.NewFromInt(1000),
		Taxes: decimal.NewFromFloat(3150),
		Total: decimal.NewFromFloat(18150),
	}

	invoice, err := mapper.InvoiceEntry(in)
	s.NoError(err)

	s.Equal(types.BillingSystemMercadoPago, invoice.Source)
	s.Equal(types.CurrencyARS, invoice.Currency)
	s.True(invoice.Amount.Equal(decimal.NewFromFloat(18150)))
	s.True(invoice.Taxes.Equal(decimal.NewFromFloat(3150)))
}

func (s *MapperSuite) TestWalletPendingCreditStaysUnapproved() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodMercadoPago)

	in := s.input(types.PaymentMethodMercadoPago, types.CountryArgentina)
	in.Outcome = &payment.Outcome{Status: types.PaymentStatusPending}

	credit, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
	s.NoError(err)

	s.False(credit.Approved)
	s.False(credit.Payed)
	s.Nil(credit.PaymentDate)
	s.Nil(credit.ActivationDate)
	s.NoError(credit.Validate())
}

func (s *MapperSuite) TestTransferInvoiceVATByCountry() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodTransfer)

	cases := []struct {
		country types.CountryCode
		source  types.BillingSystem
		taxRate decimal.Decimal
		taxes   decimal.Decimal
	}{
		{types.CountryColombia, types.BillingSystemTransferCO, decimal.Zero, decimal.Zero},
		{types.CountryMexico, types.BillingSystemTransferMX, decimal.NewFromFloat(0.16), decimal.NewFromFloat(2.40)},
		{types.CountryArgentina, types.BillingSystemTransferAR, decimal.NewFromFloat(0.21), decimal.NewFromFloat(3.15)},
	}

	for _, tc := range cases {
		in := s.input(types.PaymentMethodTransfer, tc.country)
		invoice, err := mapper.InvoiceEntry(in)
		s.NoError(err)

		s.Equal(tc.source, invoice.Source)
		s.Equal(types.AccountingEntryStatusPending, invoice.Status, "transfer invoices are always pending")
		s.True(invoice.TaxRate.Equal(tc.taxRate), "country %s", tc.country)
		s.True(invoice.Taxes.Equal(tc.taxes), "country %s: got %s", tc.country, invoice.Taxes)
	}
}

func (s *MapperSuite) TestTransferHasNoPaymentEntry() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodTransfer)
	in := s.input(types.PaymentMethodTransfer, types.CountryMexico)
	invoice, _ := mapper.InvoiceEntry(in)

	_, err := mapper.PaymentEntry(invoice, nil)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *MapperSuite) TestTransferCreditNeverPayed() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodTransfer)
	in := s.input(types.PaymentMethodTransfer, types.CountryMexico)

	credit, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
	s.NoError(err)

	s.True(credit.Approved, "a transfer without a full discount is approved in principle")
	s.False(credit.Payed)
}

func (s *MapperSuite) TestTransferFullDiscountIsPending() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodTransfer)

	in := s.input(types.PaymentMethodTransfer, types.CountryArgentina)
	in.Promotion = &promotion.Promotion{
		ID:                 3,
		Code:               "FREE100",
		DiscountPercentage: lo.ToPtr(decimal.NewFromInt(100)),
	}

	credit, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
	s.NoError(err)

	s.False(credit.Approved)
	s.False(credit.Payed)
	s.Nil(credit.PaymentDate)
	s.Nil(credit.ActivationDate)
}

func (s *MapperSuite) TestSubscribersPlanRecordsSubscriberQty() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodCreditCard)

	in := s.input(types.PaymentMethodCreditCard, types.CountryColombia)
	in.NewPlan = &plan.Plan{
		ID:             9,
		UserType:       types.UserTypeSubscribers,
		Name:           "Subscribers 10K",
		SubscribersQty: 10000,
		Fee:            decimal.NewFromInt(80),
	}

	credit, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
	s.NoError(err)

	s.Equal(lo.ToPtr(10000), credit.SubscribersQty)
	s.Nil(credit.CreditsQty)
}

func (s *MapperSuite) TestPromotionFieldsOnCredit() {
	mapper, _ := s.registry.Resolve(types.PaymentMethodCreditCard)

	in := s.input(types.PaymentMethodCreditCard, types.CountryColombia)
	in.Promotion = &promotion.Promotion{
		ID:                 11,
		Code:               "EXTRA500",
		ExtraCredits:       lo.ToPtr(500),
		DiscountPercentage: lo.ToPtr(decimal.NewFromInt(20)),
	}

	credit, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
	s.NoError(err)

	s.Equal(lo.ToPtr(11), credit.PromotionID)
	s.Equal(500, credit.ExtraCreditsPromotion)
	s.True(credit.DiscountPercentage.Equal(decimal.NewFromInt(20)))
}

// Mapping must be a pure function of its input
func (s *MapperSuite) TestMappingIsDeterministic() {
	for _, method := range []types.PaymentMethod{
		types.PaymentMethodCreditCard,
		types.PaymentMethodMercadoPago,
		types.PaymentMethodTransfer,
	} {
		mapper, _ := s.registry.Resolve(method)
		in := s.input(method, types.CountryMexico)

		first, err := mapper.InvoiceEntry(in)
		s.NoError(err)
		second, err := mapper.InvoiceEntry(in)
		s.NoError(err)
		s.Equal(first, second, "method %s", method)

		creditA, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
		s.NoError(err)
		creditB, err := mapper.BillingCreditAgreement(in, types.BillingCreditUpgradeRequest)
		s.NoError(err)
		s.Equal(creditA, creditB, "method %s", method)
	}
}
