package service

import (
	"context"

	"github.com/sendwell/sendwell/internal/domain/promotion"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// PromotionService resolves promo codes against a plan and records their
// consumption
type PromotionService interface {
	// Resolve validates a promo code for a plan. A nil promotion with nil
	// error means no promotion applies (unknown, inactive or exhausted
	// code); a non-nil error means the lookup itself failed and the
	// agreement must abort.
	Resolve(ctx context.Context, code string, planID int, email string) (*promotion.Promotion, error)

	// RegisterUse increments the promotion's used count. Called exactly
	// once per completed agreement that consumed the promotion.
	RegisterUse(ctx context.Context, promo *promotion.Promotion) error
}

type promotionService struct {
	ServiceParams
}

// NewPromotionService creates a new promotion service
func NewPromotionService(params ServiceParams) PromotionService {
	return &promotionService{ServiceParams: params}
}

func (s *promotionService) Resolve(ctx context.Context, code string, planID int, email string) (*promotion.Promotion, error) {
	if code == "" {
		return nil, nil
	}

	promo, err := s.PromotionRepo.GetValidByCode(ctx, code, planID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up promotion").
			WithReportableDetails(map[string]interface{}{
				"code":    code,
				"plan_id": planID,
			}).
			Mark(ierr.ErrDatabase)
	}
	if promo == nil {
		s.Logger.Infow("promo code not applicable", "code", code, "plan_id", planID)
		return nil, nil
	}

	if promo.IsExhausted() {
		s.Logger.Infow("promotion exhausted", "code", code, "times_used", promo.TimesUsed)
		return nil, nil
	}

	// Per-account consumption is capped by the promotion duration as well
	if promo.Duration != nil {
		used, err := s.PromotionRepo.GetUsageCount(ctx, code, email)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to check promotion usage").
				Mark(ierr.ErrDatabase)
		}
		if used >= *promo.Duration {
			s.Logger.Infow("promotion exhausted for account",
				"code", code,
				"email", email,
				"used", used)
			return nil, nil
		}
	}

	return promo, nil
}

func (s *promotionService) RegisterUse(ctx context.Context, promo *promotion.Promotion) error {
	if promo == nil {
		return nil
	}
	if err := s.PromotionRepo.IncrementUsedTimes(ctx, promo.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record promotion use").
			WithReportableDetails(map[string]interface{}{
				"promotion_id": promo.ID,
				"code":         promo.Code,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
