package inmemory

import (
	"context"

	"github.com/sendwell/sendwell/internal/domain/plan"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// PlanStore implements plan.Repository
type PlanStore struct {
	plans   *Store[int, *plan.Plan]
	current *Store[string, int]
}

// NewPlanStore creates a new in-memory plan store
func NewPlanStore() *PlanStore {
	return &PlanStore{
		plans:   NewStore[int, *plan.Plan](),
		current: NewStore[string, int](),
	}
}

func copyPlan(p *plan.Plan) *plan.Plan {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *PlanStore) GetByID(ctx context.Context, planID int) (*plan.Plan, error) {
	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHint("The selected plan does not exist").
			WithReportableDetails(map[string]interface{}{
				"plan_id": planID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

// GetCurrentForAccount returns nil with nil error for accounts on the free
// tier
func (s *PlanStore) GetCurrentForAccount(ctx context.Context, accountID string) (*plan.Plan, error) {
	planID, err := s.current.Get(ctx, accountID)
	if err != nil {
		return nil, nil
	}
	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, ierr.NewErrorf("account %s references missing plan %d", accountID, planID).
			Mark(ierr.ErrDatabase)
	}
	return copyPlan(p), nil
}

// SeedPlan inserts or replaces a plan
func (s *PlanStore) SeedPlan(ctx context.Context, p *plan.Plan) {
	s.plans.Set(ctx, p.ID, copyPlan(p))
}

// SeedCurrentPlan assigns the account's current plan
func (s *PlanStore) SeedCurrentPlan(ctx context.Context, accountID string, planID int) {
	s.current.Set(ctx, accountID, planID)
}
