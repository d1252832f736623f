package promotion

import (
	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/types"
)

var fullDiscount = decimal.NewFromInt(100)

// Promotion is a promo code granting extra credits or a percentage discount
// for a limited number of uses
type Promotion struct {
	ID                 int              `json:"id"`
	Code               string           `json:"code"`
	ExtraCredits       *int             `json:"extra_credits,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`

	// Duration caps how many completed agreements may consume the
	// promotion; nil means unlimited
	Duration  *int `json:"duration,omitempty"`
	TimesUsed int  `json:"times_used"`

	types.BaseModel
}

// IsExhausted reports whether the promotion has been consumed its maximum
// number of times
func (p *Promotion) IsExhausted() bool {
	return p.Duration != nil && p.TimesUsed >= *p.Duration
}

// IsFullDiscount reports whether the promotion waives the entire fee
func (p *Promotion) IsFullDiscount() bool {
	return p.DiscountPercentage != nil && p.DiscountPercentage.Equal(fullDiscount)
}

// Discount returns the discount percentage, zero when none is set
func (p *Promotion) Discount() decimal.Decimal {
	if p == nil || p.DiscountPercentage == nil {
		return decimal.Zero
	}
	return *p.DiscountPercentage
}

// ApplyTo returns the amount after applying the promotion discount
func (p *Promotion) ApplyTo(amount decimal.Decimal) decimal.Decimal {
	if p == nil || p.DiscountPercentage == nil {
		return amount
	}
	factor := fullDiscount.Sub(*p.DiscountPercentage).Div(fullDiscount)
	return amount.Mul(factor).Round(2)
}
