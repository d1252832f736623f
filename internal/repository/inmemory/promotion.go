package inmemory

import (
	"context"
	"strings"
	"sync"

	"github.com/sendwell/sendwell/internal/domain/promotion"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// PromotionStore implements promotion.Repository
type PromotionStore struct {
	mu         sync.RWMutex
	promotions map[int]*promotion.Promotion

	// plan applicability: promo id -> allowed plan ids; empty set means
	// the code applies to every plan
	planScope map[int]map[int]bool

	// usage per (code, email)
	usage map[string]int
}

// NewPromotionStore creates a new in-memory promotion store
func NewPromotionStore() *PromotionStore {
	return &PromotionStore{
		promotions: make(map[int]*promotion.Promotion),
		planScope:  make(map[int]map[int]bool),
		usage:      make(map[string]int),
	}
}

func copyPromotion(p *promotion.Promotion) *promotion.Promotion {
	if p == nil {
		return nil
	}
	copied := *p
	if p.ExtraCredits != nil {
		v := *p.ExtraCredits
		copied.ExtraCredits = &v
	}
	if p.DiscountPercentage != nil {
		v := *p.DiscountPercentage
		copied.DiscountPercentage = &v
	}
	if p.Duration != nil {
		v := *p.Duration
		copied.Duration = &v
	}
	return &copied
}

func usageKey(code, email string) string {
	return strings.ToLower(code) + "|" + strings.ToLower(email)
}

func (s *PromotionStore) GetValidByCode(ctx context.Context, code string, planID int) (*promotion.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.promotions {
		if !strings.EqualFold(p.Code, code) {
			continue
		}
		if scope := s.planScope[p.ID]; len(scope) > 0 && !scope[planID] {
			return nil, nil
		}
		return copyPromotion(p), nil
	}
	return nil, nil
}

func (s *PromotionStore) IncrementUsedTimes(ctx context.Context, promotionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.promotions[promotionID]
	if !ok {
		return ierr.NewErrorf("promotion %d not found", promotionID).
			Mark(ierr.ErrNotFound)
	}
	p.TimesUsed++
	return nil
}

func (s *PromotionStore) GetUsageCount(ctx context.Context, code string, email string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage[usageKey(code, email)], nil
}

// SeedPromotion inserts or replaces a promotion; allowedPlans restricts which
// plans the code applies to, empty meaning all
func (s *PromotionStore) SeedPromotion(ctx context.Context, p *promotion.Promotion, allowedPlans ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promotions[p.ID] = copyPromotion(p)
	scope := make(map[int]bool, len(allowedPlans))
	for _, planID := range allowedPlans {
		scope[planID] = true
	}
	s.planScope[p.ID] = scope
}

// SeedUsage sets how many times the email has consumed the code
func (s *PromotionStore) SeedUsage(ctx context.Context, code, email string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[usageKey(code, email)] = count
}

// TimesUsed reports the promotion's current consumption count
func (s *PromotionStore) TimesUsed(ctx context.Context, promotionID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.promotions[promotionID]; ok {
		return p.TimesUsed
	}
	return 0
}
