package service

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/payment"
	"github.com/sendwell/sendwell/internal/domain/plan"
	"github.com/sendwell/sendwell/internal/domain/promotion"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/integration/mercadopago"
	"github.com/sendwell/sendwell/internal/types"
)

// MapperInput is the already-validated input every mapper works from. The
// mappers are pure: for a fixed input they always produce the same records.
type MapperInput struct {
	Total      decimal.Decimal
	Profile    *account.BillingProfile
	NewPlan    *plan.Plan
	Promotion  *promotion.Promotion
	Outcome    *payment.Outcome
	Conversion *mercadopago.CurrencyConversion
	Now        time.Time
}

// AgreementMapper converts a charge outcome into ledger-ready records with
// method-specific tax and currency rules
type AgreementMapper interface {
	// InvoiceEntry builds the invoice accounting entry for the agreement
	InvoiceEntry(in MapperInput) (*billing.AccountingEntry, error)

	// PaymentEntry builds the payment accounting entry matching an invoice.
	// Only called when the charge outcome is approved.
	PaymentEntry(invoice *billing.AccountingEntry, instrument *payment.Instrument) (*billing.AccountingEntry, error)

	// BillingCreditAgreement builds the billing credit record for the
	// transition
	BillingCreditAgreement(in MapperInput, creditType types.BillingCreditType) (*billing.BillingCredit, error)
}

// MapperRegistry resolves the mapper for a payment method. Built once at
// startup; a method without a registered mapper fails loudly instead of
// silently defaulting.
type MapperRegistry struct {
	mappers map[types.PaymentMethod]AgreementMapper
}

// NewMapperRegistry registers the mappers for the three supported methods
func NewMapperRegistry(cfg *config.Configuration) *MapperRegistry {
	return &MapperRegistry{
		mappers: map[types.PaymentMethod]AgreementMapper{
			types.PaymentMethodCreditCard:  newCreditCardMapper(),
			types.PaymentMethodMercadoPago: newMercadoPagoMapper(),
			types.PaymentMethodTransfer:    newTransferMapper(cfg.Billing),
		},
	}
}

// Resolve returns the mapper for a payment method
func (r *MapperRegistry) Resolve(method types.PaymentMethod) (AgreementMapper, error) {
	mapper, ok := r.mappers[method]
	if !ok {
		return nil, ierr.NewErrorf("no agreement mapper registered for payment method %s", method).
			WithHint("Payment method is not supported for agreements").
			Mark(ierr.ErrInvalidOperation)
	}
	return mapper, nil
}

// isUpgradePending is the single source of the pending rule: only a bank
// transfer combined with a promotion waiving the entire fee leaves the
// upgrade approved in principle but not settled
func isUpgradePending(method types.PaymentMethod, promo *promotion.Promotion) bool {
	return method == types.PaymentMethodTransfer && promo != nil && promo.IsFullDiscount()
}

// entryStatusFor maps a charge outcome onto the accounting entry status
func entryStatusFor(outcome *payment.Outcome) types.AccountingEntryStatus {
	switch outcome.Status {
	case types.PaymentStatusApproved:
		return types.AccountingEntryStatusApproved
	case types.PaymentStatusPending:
		return types.AccountingEntryStatusPending
	default:
		return types.AccountingEntryStatusDeclined
	}
}

// baseBillingCredit builds the method-independent part of the billing credit
func baseBillingCredit(in MapperInput, creditType types.BillingCreditType) *billing.BillingCredit {
	credit := &billing.BillingCredit{
		AccountID:          in.Profile.AccountID,
		PlanID:             in.NewPlan.ID,
		Date:               in.Now.UTC(),
		PaymentMethod:      in.Profile.PaymentMethod,
		PlanFee:            in.NewPlan.Fee,
		Total:              in.Total,
		DiscountPercentage: in.Promotion.Discount(),
		Type:               creditType,
		BaseModel:          types.NewBaseModel(in.Now),
	}

	switch in.NewPlan.UserType {
	case types.UserTypeSubscribers:
		credit.SubscribersQty = lo.ToPtr(in.NewPlan.SubscribersQty)
	default:
		credit.CreditsQty = lo.ToPtr(in.NewPlan.EmailQty)
	}

	if in.Promotion != nil {
		credit.PromotionID = lo.ToPtr(in.Promotion.ID)
		credit.ExtraCreditsPromotion = lo.FromPtr(in.Promotion.ExtraCredits)
	}

	return credit
}
