package plan

import (
	"github.com/shopspring/decimal"

	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/types"
)

// Plan is read-only reference data describing a sellable plan tier
type Plan struct {
	ID             int             `json:"id"`
	UserType       types.UserType  `json:"user_type"`
	Name           string          `json:"name"`
	EmailQty       int             `json:"email_qty"`
	SubscribersQty int             `json:"subscribers_qty"`
	Fee            decimal.Decimal `json:"fee"`
	ExtraEmailCost decimal.Decimal `json:"extra_email_cost"`
}

// Validate validates the plan
func (p *Plan) Validate() error {
	if p.ID <= 0 {
		return ierr.NewError("plan id must be positive").Mark(ierr.ErrValidation)
	}
	if p.UserType == "" {
		return ierr.NewError("plan user_type is required").Mark(ierr.ErrValidation)
	}
	return nil
}

// Sellable reports whether the plan can be the target of an agreement
func (p *Plan) Sellable() bool {
	switch p.UserType {
	case types.UserTypeIndividual, types.UserTypeMonthly, types.UserTypeSubscribers:
		return true
	default:
		return false
	}
}
