package account

import (
	"context"

	"github.com/sendwell/sendwell/internal/domain/payment"
)

// Repository defines the interface for account billing persistence
type Repository interface {
	// GetBillingProfile retrieves the billing profile for an account
	GetBillingProfile(ctx context.Context, accountID string) (*BillingProfile, error)

	// UpdateBillingProfile persists billing state mutated by a completed
	// plan transition
	UpdateBillingProfile(ctx context.Context, profile *BillingProfile) error

	// GetEncryptedInstrument returns the on-file encrypted payment
	// instrument for the account
	GetEncryptedInstrument(ctx context.Context, accountID string) (*payment.Instrument, error)

	// GetAvailableCredit returns the account's current email credit balance
	GetAvailableCredit(ctx context.Context, accountID string) (int, error)

	// GetSentEmailsInCurrentMonth returns how many emails the account has
	// sent in the current calendar month
	GetSentEmailsInCurrentMonth(ctx context.Context, accountID string) (int, error)
}
