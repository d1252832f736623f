package plan

import "context"

// Repository defines the interface for plan reference-data lookups
type Repository interface {
	// GetByID retrieves a plan by id
	GetByID(ctx context.Context, planID int) (*Plan, error)

	// GetCurrentForAccount returns the plan the account is currently on,
	// or nil when the account is on the free tier
	GetCurrentForAccount(ctx context.Context, accountID string) (*Plan, error)
}
