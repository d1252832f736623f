package promotion

import "context"

// Repository defines the interface for promotion persistence
type Repository interface {
	// GetValidByCode returns the promotion for a code if it applies to the
	// given plan and is currently active; a nil promotion with nil error
	// means the code is unknown or not applicable
	GetValidByCode(ctx context.Context, code string, planID int) (*Promotion, error)

	// IncrementUsedTimes records one consumption of the promotion
	IncrementUsedTimes(ctx context.Context, promotionID int) error

	// GetUsageCount returns how many completed agreements for the given
	// account email have consumed the code
	GetUsageCount(ctx context.Context, code string, email string) (int, error)
}
