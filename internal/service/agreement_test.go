package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/sendwell/sendwell/internal/api/dto"
	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/payment"
	"github.com/sendwell/sendwell/internal/domain/plan"
	"github.com/sendwell/sendwell/internal/domain/promotion"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/testutil"
	"github.com/sendwell/sendwell/internal/types"
)

type AgreementServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AgreementService
}

func TestAgreementService(t *testing.T) {
	suite.Run(t, new(AgreementServiceSuite))
}

func (s *AgreementServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.buildService(s.GetConfig())
}

func (s *AgreementServiceSuite) buildService(cfg *config.Configuration) {
	s.buildServiceWithLedger(cfg, s.GetStores().LedgerRepo)
}

func (s *AgreementServiceSuite) buildServiceWithLedger(cfg *config.Configuration, ledger billing.Repository) {
	stores := s.GetStores()
	clients := s.GetClients()
	params := ServiceParams{
		Logger:        s.GetLogger(),
		Config:        cfg,
		Sentry:        s.GetSentry(),
		AccountRepo:   stores.AccountRepo,
		PlanRepo:      stores.PlanRepo,
		PromotionRepo: stores.PromotionRepo,
		LedgerRepo:    ledger,
		CardGateway:   clients.CardGateway,
		Wallet:        clients.Wallet,
		SAP:           clients.SAP,
		CRM:           clients.CRM,
		Slack:         clients.Slack,
		Email:         clients.Email,
	}

	payments := NewPaymentService(params)
	promotions := NewPromotionService(params)
	transitions := NewTransitionService(params, NewProrationService(params))
	notifications := NewNotificationService(params)
	mappers := NewMapperRegistry(cfg)

	s.service = NewAgreementService(params, payments, promotions, transitions, notifications, mappers)
}

func (s *AgreementServiceSuite) seedAccount(method types.PaymentMethod, country types.CountryCode) {
	s.GetStores().AccountRepo.SeedProfile(s.GetContext(), &account.BillingProfile{
		AccountID:      "acc-1",
		Email:          "user@example.com",
		FirstName:      "Ana",
		LastName:       "Diaz",
		Language:       "es",
		PaymentMethod:  method,
		BillingCountry: country,
	})
	s.GetStores().AccountRepo.SeedInstrument(s.GetContext(), "acc-1", &payment.Instrument{
		Encrypted:      "enc-token",
		HolderName:     "Ana Diaz",
		LastFourDigits: "4242",
		Brand:          "visa",
	})
}

func (s *AgreementServiceSuite) seedPlan(p *plan.Plan) {
	s.GetStores().PlanRepo.SeedPlan(s.GetContext(), p)
}

func (s *AgreementServiceSuite) request(planID int, total float64) *dto.CreateAgreementRequest {
	req := &dto.CreateAgreementRequest{PlanID: planID}
	if total > 0 {
		req.Total = lo.ToPtr(decimal.NewFromFloat(total))
	}
	return req
}

func (s *AgreementServiceSuite) billingCredits(accountID string) []*billing.BillingCredit {
	// Billing credit ids are sequential starting at 1
	result := make([]*billing.BillingCredit, 0)
	for id := 1; ; id++ {
		credit, err := s.GetStores().LedgerRepo.GetBillingCredit(s.GetContext(), id)
		if err != nil {
			return result
		}
		if credit.AccountID == accountID {
			result = append(result, credit)
		}
	}
}

// Free account moving onto a prepaid plan with nothing to pay upfront
func (s *AgreementServiceSuite) TestFreeToIndividualZeroTotal() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	s.seedPlan(individualPlan(5, 1000, 10))

	resp, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(5, 0))
	s.NoError(err)
	s.Equal(types.TransitionNewActivation, resp.Transition)
	s.NotZero(resp.BillingCreditID)

	s.Empty(s.GetClients().CardGateway.Requests, "no charge for a zero total")

	credit, err := s.GetStores().LedgerRepo.GetBillingCredit(s.GetContext(), resp.BillingCreditID)
	s.NoError(err)
	s.Equal(types.BillingCreditUpgradeRequest, credit.Type)

	payments := s.GetStores().LedgerRepo.Entries(s.GetContext(), func(e *billing.AccountingEntry) bool {
		return e.EntryType == types.AccountingEntryPayment
	})
	s.Empty(payments, "no payment entry without a charge")
}

// Free account paying 15 USD by card
func (s *AgreementServiceSuite) TestFreeToMonthlyCardApproved() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	s.seedPlan(monthlyPlan(7, 5000, 15))

	resp, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(7, 15.00))
	s.NoError(err)
	s.Equal(types.PaymentStatusApproved, resp.PaymentStatus)
	s.Equal("LLLTD222", resp.AuthorizationNumber)
	s.NotEmpty(resp.InvoiceID)

	invoices := s.GetStores().LedgerRepo.Entries(s.GetContext(), func(e *billing.AccountingEntry) bool {
		return e.EntryType == types.AccountingEntryInvoice
	})
	payments := s.GetStores().LedgerRepo.Entries(s.GetContext(), func(e *billing.AccountingEntry) bool {
		return e.EntryType == types.AccountingEntryPayment
	})
	s.Len(invoices, 1)
	s.Len(payments, 1)
	s.Equal("4242", payments[0].CCLastFourDigits)

	credit, _ := s.GetStores().LedgerRepo.GetBillingCredit(s.GetContext(), resp.BillingCreditID)
	s.True(credit.Approved)
	s.True(credit.Payed)

	sent := s.GetClients().Email.SentTo("user@example.com")
	s.Len(sent, 1, "one user email")
	s.Equal(types.NotificationPlanActivated, sent[0].Kind)
	s.Equal("es", sent[0].Language)
	s.Len(s.GetClients().Email.AdminSends, 1, "one admin email")

	s.Len(s.GetClients().SAP.Sent(), 1, "charged agreements are forwarded to SAP")
}

// Same-capacity subscriber change is an explicit no-op
func (s *AgreementServiceSuite) TestSameCapacitySubscribersIsNoop() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	current := subscribersPlan(1, 5000, 40)
	s.seedPlan(current)
	s.seedPlan(subscribersPlan(2, 5000, 40))
	s.GetStores().PlanRepo.SeedCurrentPlan(s.GetContext(), "acc-1", 1)

	resp, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(2, 40))
	s.NoError(err)
	s.Equal(types.TransitionNone, resp.Transition)
	s.Zero(resp.BillingCreditID)

	s.Empty(s.billingCredits("acc-1"))
	s.Empty(s.GetStores().LedgerRepo.Entries(s.GetContext(), nil), "no ledger rows for a no-op")
	s.Empty(s.GetClients().CardGateway.Requests, "no charge for a no-op")
	s.Empty(s.GetClients().Email.Sent)
}

// Argentina transfer with a full-discount promotion leaves the upgrade pending
func (s *AgreementServiceSuite) TestTransferFullDiscountPending() {
	s.seedAccount(types.PaymentMethodTransfer, types.CountryArgentina)
	s.seedPlan(monthlyPlan(7, 5000, 15))
	s.GetStores().PromotionRepo.SeedPromotion(s.GetContext(), &promotion.Promotion{
		ID:                 1,
		Code:               "FREE100",
		DiscountPercentage: lo.ToPtr(decimal.NewFromInt(100)),
	})

	req := s.request(7, 15.00)
	req.PromoCode = "FREE100"

	resp, err := s.service.CreateAgreement(s.GetContext(), "acc-1", req)
	s.NoError(err)
	s.True(resp.UpgradePending)
	s.True(resp.Total.IsZero(), "the full discount waives the fee")

	credit, _ := s.GetStores().LedgerRepo.GetBillingCredit(s.GetContext(), resp.BillingCreditID)
	s.False(credit.Approved)
	s.False(credit.Payed)
	s.Nil(credit.PaymentDate)
	s.Nil(credit.ActivationDate)

	s.Empty(s.GetStores().LedgerRepo.Movements(s.GetContext(), "acc-1"),
		"no credits granted while the upgrade is pending")

	s.Equal(1, s.GetStores().PromotionRepo.TimesUsed(s.GetContext(), 1),
		"the promotion is consumed exactly once")
}

// A country removed from the transfer allow-list fails before any write
func (s *AgreementServiceSuite) TestTransferDisallowedCountry() {
	s.seedAccount(types.PaymentMethodTransfer, types.CountryArgentina)
	s.seedPlan(monthlyPlan(7, 5000, 15))

	variant := config.GetDefaultConfig()
	variant.Billing.TransferAllowedCountries = []types.CountryCode{
		types.CountryColombia,
		types.CountryMexico,
	}
	s.buildService(variant)

	_, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(7, 15.00))
	s.Error(err)
	s.True(ierr.IsValidation(err))

	s.Empty(s.billingCredits("acc-1"))
	s.Empty(s.GetStores().LedgerRepo.Entries(s.GetContext(), nil))
}

// Wallet charge accepted but not yet settled
func (s *AgreementServiceSuite) TestWalletInProcess() {
	s.seedAccount(types.PaymentMethodMercadoPago, types.CountryArgentina)
	s.seedPlan(monthlyPlan(7, 5000, 15))
	s.GetClients().Wallet.Status = types.WalletStatusInProcess

	resp, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(7, 15.00))
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, resp.PaymentStatus)

	credit, _ := s.GetStores().LedgerRepo.GetBillingCredit(s.GetContext(), resp.BillingCreditID)
	s.False(credit.Approved, "pending wallet payments settle later")

	sent := s.GetClients().Email.SentTo("user@example.com")
	kinds := lo.Map(sent, func(e testutil.SentEmail, _ int) types.NotificationKind { return e.Kind })
	s.Contains(kinds, types.NotificationPaymentInProcess)
}

// failingLedger rejects the accounting entry write, leaving a settled charge
// with no ledger row
type failingLedger struct {
	billing.Repository
}

func (f *failingLedger) CreateAccountingEntries(ctx context.Context, invoice *billing.AccountingEntry, payment *billing.AccountingEntry) (string, error) {
	return "", ierr.NewError("insert accounting entries: connection reset").
		Mark(ierr.ErrDatabase)
}

// A ledger failure after a settled charge is the one state that must never
// pass unobserved: it has to page, not just return a 500
func (s *AgreementServiceSuite) TestLedgerFailureAfterChargeIsReported() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	s.seedPlan(monthlyPlan(7, 5000, 15))
	s.buildServiceWithLedger(s.GetConfig(), &failingLedger{Repository: s.GetStores().LedgerRepo})

	_, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(7, 15.00))
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	s.NotEmpty(s.GetClients().CardGateway.Requests, "the charge went through before the write failed")
	s.NotEmpty(s.GetClients().Slack.Sent(), "charged-but-unledgered failures are slack-notified")
}

// Declined wallet payment must abort without writing a billing credit
func (s *AgreementServiceSuite) TestWalletDeclinedAborts() {
	s.seedAccount(types.PaymentMethodMercadoPago, types.CountryMexico)
	s.seedPlan(monthlyPlan(7, 5000, 15))
	s.GetClients().Wallet.Status = types.WalletStatusRejected

	_, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(7, 15.00))
	s.Error(err)
	s.True(ierr.IsPaymentDeclined(err))

	s.Empty(s.billingCredits("acc-1"))
	s.Empty(s.GetStores().LedgerRepo.Entries(s.GetContext(), nil))
	s.NotEmpty(s.GetClients().Slack.Sent(), "declined payments are slack-notified")
}

func (s *AgreementServiceSuite) TestUnknownAccount() {
	s.seedPlan(monthlyPlan(7, 5000, 15))

	_, err := s.service.CreateAgreement(s.GetContext(), "ghost", s.request(7, 15.00))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AgreementServiceSuite) TestInvalidPlanSelection() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	s.seedPlan(&plan.Plan{ID: 8, UserType: types.UserTypeFree, Name: "Free"})

	_, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(8, 0))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AgreementServiceSuite) TestValidationRejectsMissingPlan() {
	_, err := s.service.CreateAgreement(s.GetContext(), "acc-1", &dto.CreateAgreementRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AgreementServiceSuite) TestMissingInstrumentIsInternal() {
	s.GetStores().AccountRepo.SeedProfile(s.GetContext(), &account.BillingProfile{
		AccountID:      "acc-2",
		Email:          "noinstrument@example.com",
		PaymentMethod:  types.PaymentMethodCreditCard,
		BillingCountry: types.CountryColombia,
	})
	s.seedPlan(monthlyPlan(7, 5000, 15))

	_, err := s.service.CreateAgreement(s.GetContext(), "acc-2", s.request(7, 15.00))
	s.Error(err)
	s.True(ierr.IsInternal(err))
	s.NotEmpty(s.GetClients().Slack.Sent(), "invariant violations are slack-notified")
}

func (s *AgreementServiceSuite) TestCRMSyncOnNewActivationOnly() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	s.seedPlan(monthlyPlan(7, 5000, 15))

	crmEnabled := config.GetDefaultConfig()
	crmEnabled.Notifications.CRMSyncEnabled = true
	s.buildService(crmEnabled)

	_, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(7, 15.00))
	s.NoError(err)

	leads := s.GetClients().CRM.SyncedLeads()
	s.Require().Len(leads, 1)
	s.Equal("user@example.com", leads[0].Email)
}

func (s *AgreementServiceSuite) TestMonthlyUpgradeEndToEnd() {
	s.seedAccount(types.PaymentMethodCreditCard, types.CountryColombia)
	current := monthlyPlan(1, 5000, 15)
	s.seedPlan(current)
	s.seedPlan(monthlyPlan(2, 10000, 30))
	s.GetStores().PlanRepo.SeedCurrentPlan(s.GetContext(), "acc-1", 1)

	resp, err := s.service.CreateAgreement(s.GetContext(), "acc-1", s.request(2, 15.00))
	s.NoError(err)
	s.Equal(types.TransitionUpgradeMonthly, resp.Transition)
	s.NotZero(resp.BillingCreditID)

	sent := s.GetClients().Email.SentTo("user@example.com")
	s.Require().Len(sent, 1)
	s.Equal(types.NotificationPlanUpgraded, sent[0].Kind)
	s.Empty(s.GetClients().Email.AdminSends, "tier upgrades have no admin summary")
}
