package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/domain/plan"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// PlanAmountCalculator computes the prorated price of moving between two
// tiers mid-cycle. Tier upgrades charge only the fee delta for the remainder
// of the current month.
type PlanAmountCalculator interface {
	UpgradePrice(ctx context.Context, current, new *plan.Plan, at time.Time) (decimal.Decimal, error)
}

type prorationService struct {
	ServiceParams
}

// NewProrationService creates the default plan amount calculator
func NewProrationService(params ServiceParams) PlanAmountCalculator {
	return &prorationService{ServiceParams: params}
}

// UpgradePrice prorates the fee difference over the days remaining in the
// current month, inclusive of the upgrade day
func (s *prorationService) UpgradePrice(ctx context.Context, current, new *plan.Plan, at time.Time) (decimal.Decimal, error) {
	if current == nil || new == nil {
		return decimal.Zero, ierr.NewError("both plans are required to compute an upgrade price").
			Mark(ierr.ErrValidation)
	}

	delta := new.Fee.Sub(current.Fee)
	if !delta.IsPositive() {
		return decimal.Zero, nil
	}

	at = at.UTC()
	daysInMonth := time.Date(at.Year(), at.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	remainingDays := daysInMonth - at.Day() + 1

	prorated := delta.
		Mul(decimal.NewFromInt(int64(remainingDays))).
		Div(decimal.NewFromInt(int64(daysInMonth))).
		Round(2)

	s.Logger.Debugw("computed upgrade proration",
		"current_plan", current.ID,
		"new_plan", new.ID,
		"delta", delta.String(),
		"remaining_days", remainingDays,
		"prorated", prorated.String())

	return prorated, nil
}
