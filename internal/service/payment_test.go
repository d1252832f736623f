package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/payment"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/testutil"
	"github.com/sendwell/sendwell/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	clients := s.GetClients()
	s.service = NewPaymentService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		CardGateway: clients.CardGateway,
		Wallet:      clients.Wallet,
	})
}

func (s *PaymentServiceSuite) profile(method types.PaymentMethod, country types.CountryCode) *account.BillingProfile {
	return &account.BillingProfile{
		AccountID:      "acc-1",
		Email:          "user@example.com",
		PaymentMethod:  method,
		BillingCountry: country,
	}
}

func instrument() *payment.Instrument {
	return &payment.Instrument{Encrypted: "enc-token", LastFourDigits: "4242"}
}

func (s *PaymentServiceSuite) TestZeroTotalIsAssumedApproved() {
	result, err := s.service.Charge(s.GetContext(), decimal.Zero,
		s.profile(types.PaymentMethodCreditCard, types.CountryColombia), nil)
	s.NoError(err)
	s.Equal(types.PaymentStatusApproved, result.Outcome.Status)
	s.Empty(s.GetClients().CardGateway.Requests, "no gateway call for a zero total")
}

func (s *PaymentServiceSuite) TestTransferIsNeverChargedOnline() {
	result, err := s.service.Charge(s.GetContext(), decimal.NewFromInt(50),
		s.profile(types.PaymentMethodTransfer, types.CountryArgentina), nil)
	s.NoError(err)
	s.Equal(types.PaymentStatusApproved, result.Outcome.Status)
	s.Empty(s.GetClients().CardGateway.Requests)
	s.Empty(s.GetClients().Wallet.Payments)
}

func (s *PaymentServiceSuite) TestCardApproved() {
	result, err := s.service.Charge(s.GetContext(), decimal.NewFromInt(15),
		s.profile(types.PaymentMethodCreditCard, types.CountryColombia), instrument())
	s.NoError(err)
	s.Equal(types.PaymentStatusApproved, result.Outcome.Status)
	s.Equal("LLLTD222", result.Outcome.AuthorizationNumber)
	s.Nil(result.Conversion)
	s.Len(s.GetClients().CardGateway.Requests, 1)
	s.Equal("enc-token", s.GetClients().CardGateway.Requests[0].Instrument)
}

func (s *PaymentServiceSuite) TestCardDeclinedReturnsTypedError() {
	s.GetClients().CardGateway.Decline("insufficient_funds")

	_, err := s.service.Charge(s.GetContext(), decimal.NewFromInt(15),
		s.profile(types.PaymentMethodCreditCard, types.CountryColombia), instrument())
	s.Error(err)
	s.True(ierr.IsPaymentDeclined(err))
}

func (s *PaymentServiceSuite) TestWalletConvertsBeforeCharging() {
	s.GetClients().Wallet.Rate = decimal.NewFromInt(1000)

	result, err := s.service.Charge(s.GetContext(), decimal.NewFromInt(15),
		s.profile(types.PaymentMethodMercadoPago, types.CountryArgentina), instrument())
	s.NoError(err)

	s.Require().Len(s.GetClients().Wallet.Payments, 1)
	charged := s.GetClients().Wallet.Payments[0]
	s.Equal(types.CurrencyARS, charged.Currency, "wallet settles in the local currency")
	s.True(charged.Amount.Equal(decimal.NewFromInt(15000)))

	s.Require().NotNil(result.Conversion)
	s.Equal(types.CurrencyARS, result.Conversion.To)
}

func (s *PaymentServiceSuite) TestWalletStatusVocabulary() {
	cases := []struct {
		wallet   types.WalletPaymentStatus
		expected types.PaymentStatus
	}{
		{types.WalletStatusApproved, types.PaymentStatusApproved},
		{types.WalletStatusAuthorized, types.PaymentStatusApproved},
		{types.WalletStatusInProcess, types.PaymentStatusPending},
		{types.WalletStatusInMediation, types.PaymentStatusPending},
		{types.WalletStatusPending, types.PaymentStatusPending},
	}

	for _, tc := range cases {
		s.GetClients().Wallet.Status = tc.wallet
		result, err := s.service.Charge(s.GetContext(), decimal.NewFromInt(15),
			s.profile(types.PaymentMethodMercadoPago, types.CountryMexico), instrument())
		s.NoError(err, "wallet status %s", tc.wallet)
		s.Equal(tc.expected, result.Outcome.Status, "wallet status %s", tc.wallet)
	}
}

func (s *PaymentServiceSuite) TestWalletDeclinedStatusesAbort() {
	for _, status := range []types.WalletPaymentStatus{
		types.WalletStatusRejected,
		types.WalletStatusCancelled,
		types.WalletStatusRefunded,
		types.WalletStatusChargedBack,
	} {
		s.GetClients().Wallet.Status = status
		_, err := s.service.Charge(s.GetContext(), decimal.NewFromInt(15),
			s.profile(types.PaymentMethodMercadoPago, types.CountryMexico), instrument())
		s.Error(err, "wallet status %s", status)
		s.True(ierr.IsPaymentDeclined(err), "wallet status %s", status)
	}
}
