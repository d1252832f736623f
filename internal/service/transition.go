package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/plan"
	"github.com/sendwell/sendwell/internal/types"
)

// TransitionInput carries everything a transition sub-flow needs. The charge
// has already happened; from here on the ledger must end up consistent with
// it.
type TransitionInput struct {
	CurrentPlan *plan.Plan
	Mapper      AgreementMapper
	MapperInput MapperInput
}

// TransitionResult reports what the chosen sub-flow recorded. A zero
// BillingCreditID means no transition applied and nothing was written.
type TransitionResult struct {
	Transition       types.PlanTransition
	BillingCreditID  int
	UpgradePending   bool
	ActivatedStandBy int
}

// TransitionService decides which plan transition sub-flow applies and
// executes it, creating the billing credit and updating the account's
// billing state
type TransitionService interface {
	Resolve(current, newPlan *plan.Plan) types.PlanTransition
	Apply(ctx context.Context, in TransitionInput) (*TransitionResult, error)
}

type transitionService struct {
	ServiceParams
	calculator PlanAmountCalculator
}

// NewTransitionService creates a new transition service
func NewTransitionService(params ServiceParams, calculator PlanAmountCalculator) TransitionService {
	return &transitionService{
		ServiceParams: params,
		calculator:    calculator,
	}
}

// Resolve maps (current plan, new plan) onto a transition. Combinations not
// explicitly listed resolve to TransitionNone: the workflow then records
// nothing rather than guessing.
func (s *transitionService) Resolve(current, newPlan *plan.Plan) types.PlanTransition {
	if current == nil {
		return types.TransitionNewActivation
	}

	switch {
	case current.UserType == types.UserTypeMonthly && newPlan.UserType == types.UserTypeMonthly:
		if current.EmailQty < newPlan.EmailQty {
			return types.TransitionUpgradeMonthly
		}
		return types.TransitionNone
	case current.UserType == types.UserTypeSubscribers && newPlan.UserType == types.UserTypeSubscribers:
		if current.SubscribersQty < newPlan.SubscribersQty {
			return types.TransitionUpgradeSubscribers
		}
		return types.TransitionNone
	case current.UserType == types.UserTypeIndividual && newPlan.UserType == types.UserTypeIndividual:
		return types.TransitionBuyCredits
	default:
		return types.TransitionNone
	}
}

func (s *transitionService) Apply(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	transition := s.Resolve(in.CurrentPlan, in.MapperInput.NewPlan)

	switch transition {
	case types.TransitionNewActivation:
		return s.applyNewActivation(ctx, in)
	case types.TransitionUpgradeMonthly:
		return s.applyTierUpgrade(ctx, in, types.TransitionUpgradeMonthly)
	case types.TransitionUpgradeSubscribers:
		return s.applyTierUpgrade(ctx, in, types.TransitionUpgradeSubscribers)
	case types.TransitionBuyCredits:
		return s.applyBuyCredits(ctx, in)
	default:
		s.Logger.Infow("no plan transition applies, skipping",
			"account_id", in.MapperInput.Profile.AccountID,
			"new_plan_id", in.MapperInput.NewPlan.ID)
		return &TransitionResult{Transition: types.TransitionNone}, nil
	}
}

// applyNewActivation activates the first paid plan for a free account
func (s *transitionService) applyNewActivation(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	mi := in.MapperInput
	profile := mi.Profile
	pending := isUpgradePending(profile.PaymentMethod, mi.Promotion)

	credit, err := in.Mapper.BillingCreditAgreement(mi, types.BillingCreditUpgradeRequest)
	if err != nil {
		return nil, err
	}
	if err := credit.Validate(); err != nil {
		return nil, err
	}

	creditID, err := s.LedgerRepo.CreateBillingCredit(ctx, credit)
	if err != nil {
		return nil, err
	}

	profile.CurrentBillingCreditID = creditID
	profile.UpgradePending = pending
	if !pending {
		if profile.UTCFirstPayment == nil {
			profile.UTCFirstPayment = lo.ToPtr(mi.Now.UTC())
		}
		if mi.NewPlan.UserType == types.UserTypeSubscribers {
			profile.MaxSubscribers = mi.NewPlan.SubscribersQty
		}
	}
	if err := s.AccountRepo.UpdateBillingProfile(ctx, profile); err != nil {
		return nil, err
	}

	result := &TransitionResult{
		Transition:      types.TransitionNewActivation,
		BillingCreditID: creditID,
		UpgradePending:  pending,
	}
	if pending {
		return result, nil
	}

	if mi.NewPlan.UserType == types.UserTypeSubscribers {
		if err := s.LedgerRepo.UpdateSubscriberLimits(ctx, profile.AccountID, mi.NewPlan.SubscribersQty); err != nil {
			return nil, err
		}
		activated, err := s.LedgerRepo.ActivateStandBySubscribers(ctx, profile.AccountID)
		if err != nil {
			return nil, err
		}
		result.ActivatedStandBy = activated
	} else {
		movement := &billing.MovementCredit{
			AccountID:       profile.AccountID,
			BillingCreditID: creditID,
			CreditsQty:      mi.NewPlan.EmailQty + credit.ExtraCreditsPromotion,
			Date:            mi.Now.UTC(),
		}
		if err := s.LedgerRepo.CreateMovementCredit(ctx, movement); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// applyTierUpgrade handles both monthly-to-monthly and subscribers-to-
// subscribers upgrades: recompute the prorated price, carry the standing
// admin discount forward, write a zero-balance adjustment and the new
// allowance movement
func (s *transitionService) applyTierUpgrade(ctx context.Context, in TransitionInput, transition types.PlanTransition) (*TransitionResult, error) {
	mi := in.MapperInput
	profile := mi.Profile

	prorated, err := s.calculator.UpgradePrice(ctx, in.CurrentPlan, mi.NewPlan, mi.Now)
	if err != nil {
		return nil, err
	}

	adminDiscount, err := s.priorAdminDiscount(ctx, profile.CurrentBillingCreditID)
	if err != nil {
		return nil, err
	}

	creditType := types.BillingCreditUpgradeBetweenMonthlies
	if transition == types.TransitionUpgradeSubscribers {
		creditType = types.BillingCreditUpgradeBetweenSubscribers
	}

	credit, err := in.Mapper.BillingCreditAgreement(mi, creditType)
	if err != nil {
		return nil, err
	}
	credit.Total = prorated
	credit.DiscountPlanFeeAdmin = adminDiscount
	if err := credit.Validate(); err != nil {
		return nil, err
	}

	creditID, err := s.LedgerRepo.CreateBillingCredit(ctx, credit)
	if err != nil {
		return nil, err
	}

	profile.CurrentBillingCreditID = creditID
	profile.UTCUpgrade = lo.ToPtr(mi.Now.UTC())
	if transition == types.TransitionUpgradeSubscribers {
		profile.MaxSubscribers = mi.NewPlan.SubscribersQty
	}
	if err := s.AccountRepo.UpdateBillingProfile(ctx, profile); err != nil {
		return nil, err
	}

	result := &TransitionResult{
		Transition:      transition,
		BillingCreditID: creditID,
	}

	if transition == types.TransitionUpgradeSubscribers {
		if err := s.LedgerRepo.UpdateSubscriberLimits(ctx, profile.AccountID, mi.NewPlan.SubscribersQty); err != nil {
			return nil, err
		}
		activated, err := s.LedgerRepo.ActivateStandBySubscribers(ctx, profile.AccountID)
		if err != nil {
			return nil, err
		}
		result.ActivatedStandBy = activated
		return result, nil
	}

	// Zero out the old monthly allowance, then grant the new tier's
	// allowance minus what was already sent this month
	available, err := s.AccountRepo.GetAvailableCredit(ctx, profile.AccountID)
	if err != nil {
		return nil, err
	}
	if available != 0 {
		adjustment := &billing.MovementCredit{
			AccountID:       profile.AccountID,
			BillingCreditID: creditID,
			CreditsQty:      -available,
			Date:            mi.Now.UTC(),
		}
		if err := s.LedgerRepo.CreateMovementCredit(ctx, adjustment); err != nil {
			return nil, err
		}
	}

	sent, err := s.AccountRepo.GetSentEmailsInCurrentMonth(ctx, profile.AccountID)
	if err != nil {
		return nil, err
	}
	movement := &billing.MovementCredit{
		AccountID:       profile.AccountID,
		BillingCreditID: creditID,
		CreditsQty:      mi.NewPlan.EmailQty - sent,
		Date:            mi.Now.UTC(),
	}
	if err := s.LedgerRepo.CreateMovementCredit(ctx, movement); err != nil {
		return nil, err
	}

	return result, nil
}

// applyBuyCredits adds prepaid email credits for an individual-plan account
func (s *transitionService) applyBuyCredits(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	mi := in.MapperInput
	profile := mi.Profile
	pending := isUpgradePending(profile.PaymentMethod, mi.Promotion)

	creditType := types.BillingCreditRequest
	if profile.PaymentMethod == types.PaymentMethodCreditCard {
		creditType = types.BillingCreditBuyedCC
	}

	adminDiscount, err := s.priorAdminDiscount(ctx, profile.CurrentBillingCreditID)
	if err != nil {
		return nil, err
	}

	credit, err := in.Mapper.BillingCreditAgreement(mi, creditType)
	if err != nil {
		return nil, err
	}
	credit.DiscountPlanFeeAdmin = adminDiscount
	if err := credit.Validate(); err != nil {
		return nil, err
	}

	creditID, err := s.LedgerRepo.CreateBillingCredit(ctx, credit)
	if err != nil {
		return nil, err
	}

	profile.CurrentBillingCreditID = creditID
	profile.UpgradePending = pending
	if !pending && profile.UTCFirstPayment == nil {
		profile.UTCFirstPayment = lo.ToPtr(mi.Now.UTC())
	}
	if err := s.AccountRepo.UpdateBillingProfile(ctx, profile); err != nil {
		return nil, err
	}

	result := &TransitionResult{
		Transition:      types.TransitionBuyCredits,
		BillingCreditID: creditID,
		UpgradePending:  pending,
	}
	if pending {
		return result, nil
	}

	movement := &billing.MovementCredit{
		AccountID:       profile.AccountID,
		BillingCreditID: creditID,
		CreditsQty:      mi.NewPlan.EmailQty + credit.ExtraCreditsPromotion,
		Date:            mi.Now.UTC(),
	}
	if err := s.LedgerRepo.CreateMovementCredit(ctx, movement); err != nil {
		return nil, err
	}

	return result, nil
}

// priorAdminDiscount carries the standing admin discount forward from the
// account's current billing credit
func (s *transitionService) priorAdminDiscount(ctx context.Context, currentCreditID int) (decimal.Decimal, error) {
	if currentCreditID == 0 {
		return decimal.Zero, nil
	}
	prev, err := s.LedgerRepo.GetBillingCredit(ctx, currentCreditID)
	if err != nil {
		return decimal.Zero, err
	}
	return prev.DiscountPlanFeeAdmin, nil
}
