package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/api/dto"
	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/payment"
	"github.com/sendwell/sendwell/internal/domain/plan"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/integration/sap"
	"github.com/sendwell/sendwell/internal/types"
)

// AgreementService runs the plan purchase and upgrade workflow end to end:
// validate, charge, write the ledger, then fan out notifications.
//
// The workflow is not idempotent: retrying an already-completed request
// charges the account again. Callers must deduplicate upstream.
type AgreementService interface {
	CreateAgreement(ctx context.Context, accountID string, req *dto.CreateAgreementRequest) (*dto.AgreementResponse, error)
}

type agreementService struct {
	ServiceParams
	payments      PaymentService
	promotions    PromotionService
	transitions   TransitionService
	notifications NotificationService
	mappers       *MapperRegistry
}

// NewAgreementService creates a new agreement service
func NewAgreementService(
	params ServiceParams,
	payments PaymentService,
	promotions PromotionService,
	transitions TransitionService,
	notifications NotificationService,
	mappers *MapperRegistry,
) AgreementService {
	return &agreementService{
		ServiceParams: params,
		payments:      payments,
		promotions:    promotions,
		transitions:   transitions,
		notifications: notifications,
		mappers:       mappers,
	}
}

func (s *agreementService) CreateAgreement(ctx context.Context, accountID string, req *dto.CreateAgreementRequest) (resp *dto.AgreementResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ierr.NewErrorf("agreement workflow panicked: %v", r).
				WithHint("An unexpected error occurred while processing the agreement").
				Mark(ierr.ErrInternal)
			s.reportFailure(ctx, accountID, err)
		}
	}()

	resp, err = s.createAgreement(ctx, accountID, req)
	if err != nil {
		// Database failures page too: a ledger write that fails after the
		// charge settled leaves a charge without a ledger row, which must
		// never pass unobserved
		if ierr.IsInternal(err) || ierr.IsPaymentDeclined(err) || ierr.IsDatabase(err) {
			s.reportFailure(ctx, accountID, err)
		}
		return nil, err
	}
	return resp, nil
}

func (s *agreementService) createAgreement(ctx context.Context, accountID string, req *dto.CreateAgreementRequest) (*dto.AgreementResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.AccountRepo.GetBillingProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := profile.PaymentMethod.Validate(); err != nil {
		return nil, err
	}
	if profile.PaymentMethod == types.PaymentMethodTransfer &&
		!s.Config.Billing.TransferAllowed(profile.BillingCountry) {
		return nil, ierr.NewErrorf("transfers are not supported from country %s", profile.BillingCountry).
			WithHint("Bank transfer is only available in Colombia, Mexico and Argentina").
			WithReportableDetails(map[string]interface{}{
				"account_id":      accountID,
				"billing_country": profile.BillingCountry,
			}).
			Mark(ierr.ErrValidation)
	}

	newPlan, err := s.PlanRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !newPlan.Sellable() {
		return nil, ierr.NewErrorf("plan %d cannot be purchased", newPlan.ID).
			WithHint("The selected plan is not available for purchase").
			Mark(ierr.ErrValidation)
	}
	currentPlan, err := s.PlanRepo.GetCurrentForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if currentPlan != nil && !currentPlan.UserType.IsPaid() {
		return nil, ierr.NewErrorf("account %s is on an unsupported plan type %s", accountID, currentPlan.UserType).
			WithHint("The current plan does not support upgrades").
			Mark(ierr.ErrInvalidOperation)
	}

	// A no-op transition succeeds without charging or writing anything;
	// same-capacity changes are not an error
	if s.transitions.Resolve(currentPlan, newPlan) == types.TransitionNone {
		s.Logger.Infow("no plan transition applies",
			"account_id", accountID,
			"plan_id", newPlan.ID)
		return &dto.AgreementResponse{Transition: types.TransitionNone}, nil
	}

	// A resolver failure aborts the whole request; an unknown or exhausted
	// code just resolves to no promotion
	promo, err := s.promotions.Resolve(ctx, req.PromoCode, req.PlanID, profile.Email)
	if err != nil {
		return nil, err
	}

	total := promo.ApplyTo(req.RequestedTotal())

	var instrument *payment.Instrument
	if total.IsPositive() && profile.PaymentMethod.IsChargeable() {
		instrument, err = s.AccountRepo.GetEncryptedInstrument(ctx, accountID)
		if err != nil {
			return nil, err
		}
		// Reaching this gate implies an instrument is on file; its absence
		// is an invariant violation, not user input
		if instrument == nil {
			return nil, ierr.NewError("missing payment instrument").
				WithHint("No payment instrument is on file for a chargeable agreement").
				WithReportableDetails(map[string]interface{}{
					"account_id":     accountID,
					"payment_method": profile.PaymentMethod,
				}).
				Mark(ierr.ErrInternal)
		}
	}

	chargeResult, err := s.payments.Charge(ctx, total, profile, instrument)
	if err != nil {
		return nil, err
	}

	mapper, err := s.mappers.Resolve(profile.PaymentMethod)
	if err != nil {
		return nil, err
	}

	mi := MapperInput{
		Total:      total,
		Profile:    profile,
		NewPlan:    newPlan,
		Promotion:  promo,
		Outcome:    chargeResult.Outcome,
		Conversion: chargeResult.Conversion,
		Now:        time.Now().UTC(),
	}

	invoice, err := mapper.InvoiceEntry(mi)
	if err != nil {
		return nil, err
	}
	var paymentEntry *billing.AccountingEntry
	if total.IsPositive() && profile.PaymentMethod.IsChargeable() && chargeResult.Outcome.Approved() {
		paymentEntry, err = mapper.PaymentEntry(invoice, instrument)
		if err != nil {
			return nil, err
		}
	}
	invoiceID, err := s.LedgerRepo.CreateAccountingEntries(ctx, invoice, paymentEntry)
	if err != nil {
		return nil, err
	}

	transitionResult, err := s.transitions.Apply(ctx, TransitionInput{
		CurrentPlan: currentPlan,
		Mapper:      mapper,
		MapperInput: mi,
	})
	if err != nil {
		return nil, err
	}

	// The charge has settled and the ledger is written; everything from
	// here on is best-effort
	s.forwardToSAP(ctx, profile, newPlan, invoiceID, transitionResult, total, mi)

	if promo != nil && transitionResult.Transition != types.TransitionNone {
		if err := s.promotions.RegisterUse(ctx, promo); err != nil {
			// Affects billing fairness, so log loudly and page
			s.Logger.Errorw("failed to register promotion use",
				"error", err,
				"account_id", accountID,
				"promotion_id", promo.ID,
				"promo_code", promo.Code)
			s.notifySlack(ctx, fmt.Sprintf(
				"promotion usage increment failed: account=%s code=%s", accountID, promo.Code))
		}
	}

	if chargeResult.Outcome.Status == types.PaymentStatusPending {
		s.notifications.PaymentInProcess(ctx, profile, newPlan)
	}
	s.notifications.Dispatch(ctx, NotificationInput{
		Profile:          profile,
		NewPlan:          newPlan,
		Promotion:        promo,
		Outcome:          chargeResult.Outcome,
		Transition:       transitionResult.Transition,
		ActivatedStandBy: transitionResult.ActivatedStandBy,
	})

	s.Logger.Infow("agreement completed",
		"account_id", accountID,
		"plan_id", newPlan.ID,
		"transition", transitionResult.Transition,
		"billing_credit_id", transitionResult.BillingCreditID,
		"payment_status", chargeResult.Outcome.Status,
		"upgrade_pending", transitionResult.UpgradePending)

	return &dto.AgreementResponse{
		BillingCreditID:     transitionResult.BillingCreditID,
		InvoiceID:           invoiceID,
		Transition:          transitionResult.Transition,
		PaymentStatus:       chargeResult.Outcome.Status,
		UpgradePending:      transitionResult.UpgradePending,
		AuthorizationNumber: chargeResult.Outcome.AuthorizationNumber,
		Total:               total,
	}, nil
}

// forwardToSAP sends the billing record for charged agreements and for
// Argentina transfers, which are declared to the tax authority even before
// settlement. Failures are logged, never propagated.
func (s *agreementService) forwardToSAP(ctx context.Context, profile *account.BillingProfile, newPlan *plan.Plan, invoiceID string, result *TransitionResult, total decimal.Decimal, mi MapperInput) {
	charged := profile.PaymentMethod.IsChargeable() && total.IsPositive()
	argentinaTransfer := profile.PaymentMethod == types.PaymentMethodTransfer &&
		profile.BillingCountry == types.CountryArgentina
	if !charged && !argentinaTransfer {
		return
	}

	record := &sap.BillingRecord{
		AccountID:           profile.AccountID,
		InvoiceID:           invoiceID,
		BillingCreditID:     result.BillingCreditID,
		PlanID:              newPlan.ID,
		Amount:              total,
		Currency:            types.CurrencyUSD,
		PaymentMethod:       string(profile.PaymentMethod),
		BillingCountry:      string(profile.BillingCountry),
		AuthorizationNumber: mi.Outcome.AuthorizationNumber,
	}
	if mi.Conversion != nil {
		record.Amount = mi.Conversion.Total
		record.Currency = mi.Conversion.To
		record.Taxes = mi.Conversion.Taxes
	}

	if err := s.SAP.SendBillingRecord(ctx, record); err != nil {
		s.Logger.Errorw("failed to forward billing record to SAP",
			"error", err,
			"account_id", profile.AccountID,
			"invoice_id", invoiceID)
	}
}

// reportFailure logs, pages slack and captures the error in sentry. Used for
// declined payments, database failures and internal errors; user input
// errors are noise.
func (s *agreementService) reportFailure(ctx context.Context, accountID string, err error) {
	s.Logger.WithContext(ctx).Errorw("agreement workflow failed", "error", err)
	s.notifySlack(ctx, fmt.Sprintf("agreement failed: account=%s error=%v", accountID, err))
	s.Sentry.CaptureException(err)
}

func (s *agreementService) notifySlack(ctx context.Context, text string) {
	if err := s.Slack.Notify(ctx, text); err != nil {
		s.Logger.Warnw("slack notification failed", "error", err)
	}
}
