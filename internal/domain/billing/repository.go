package billing

import "context"

// Repository defines the interface for ledger persistence. The charge-then-
// ledger sequence must not diverge: callers invoke these immediately after a
// successful charge with no intervening awaited I/O.
type Repository interface {
	// CreateBillingCredit persists the billing credit and returns its id
	CreateBillingCredit(ctx context.Context, credit *BillingCredit) (int, error)

	// GetBillingCredit retrieves a billing credit by id
	GetBillingCredit(ctx context.Context, id int) (*BillingCredit, error)

	// CreateAccountingEntries persists the invoice entry and, when the
	// charge was approved, the matching payment entry. Returns the invoice
	// entry id.
	CreateAccountingEntries(ctx context.Context, invoice *AccountingEntry, payment *AccountingEntry) (string, error)

	// CreateMovementCredit records a change in the account's credit balance
	CreateMovementCredit(ctx context.Context, movement *MovementCredit) error

	// UpdateSubscriberLimits raises the account's subscriber cap
	UpdateSubscriberLimits(ctx context.Context, accountID string, maxSubscribers int) error

	// ActivateStandBySubscribers activates subscribers queued pending
	// capacity and returns how many were activated
	ActivateStandBySubscribers(ctx context.Context, accountID string) (int, error)
}
