package inmemory

import (
	"context"

	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/payment"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// AccountStore implements account.Repository
type AccountStore struct {
	profiles    *Store[string, *account.BillingProfile]
	instruments *Store[string, *payment.Instrument]
	credits     *Store[string, int]
	sentEmails  *Store[string, int]
}

// NewAccountStore creates a new in-memory account store
func NewAccountStore() *AccountStore {
	return &AccountStore{
		profiles:    NewStore[string, *account.BillingProfile](),
		instruments: NewStore[string, *payment.Instrument](),
		credits:     NewStore[string, int](),
		sentEmails:  NewStore[string, int](),
	}
}

func copyProfile(p *account.BillingProfile) *account.BillingProfile {
	if p == nil {
		return nil
	}
	copied := *p
	if p.UTCUpgrade != nil {
		t := *p.UTCUpgrade
		copied.UTCUpgrade = &t
	}
	if p.UTCFirstPayment != nil {
		t := *p.UTCFirstPayment
		copied.UTCFirstPayment = &t
	}
	return &copied
}

func (s *AccountStore) GetBillingProfile(ctx context.Context, accountID string) (*account.BillingProfile, error) {
	profile, err := s.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHint("No billing profile exists for this account").
			WithReportableDetails(map[string]interface{}{
				"account_id": accountID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyProfile(profile), nil
}

func (s *AccountStore) UpdateBillingProfile(ctx context.Context, profile *account.BillingProfile) error {
	if profile == nil {
		return ierr.NewError("billing profile cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.profiles.Update(ctx, profile.AccountID, copyProfile(profile)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update billing profile").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// GetEncryptedInstrument returns nil with nil error when no instrument is on
// file; callers decide whether that is fatal
func (s *AccountStore) GetEncryptedInstrument(ctx context.Context, accountID string) (*payment.Instrument, error) {
	instrument, err := s.instruments.Get(ctx, accountID)
	if err != nil {
		return nil, nil
	}
	copied := *instrument
	return &copied, nil
}

func (s *AccountStore) GetAvailableCredit(ctx context.Context, accountID string) (int, error) {
	credit, err := s.credits.Get(ctx, accountID)
	if err != nil {
		return 0, nil
	}
	return credit, nil
}

func (s *AccountStore) GetSentEmailsInCurrentMonth(ctx context.Context, accountID string) (int, error) {
	sent, err := s.sentEmails.Get(ctx, accountID)
	if err != nil {
		return 0, nil
	}
	return sent, nil
}

// SeedProfile inserts or replaces a billing profile
func (s *AccountStore) SeedProfile(ctx context.Context, profile *account.BillingProfile) {
	s.profiles.Set(ctx, profile.AccountID, copyProfile(profile))
}

// SeedInstrument puts an encrypted instrument on file for the account
func (s *AccountStore) SeedInstrument(ctx context.Context, accountID string, instrument *payment.Instrument) {
	s.instruments.Set(ctx, accountID, instrument)
}

// SeedAvailableCredit sets the account's current credit balance
func (s *AccountStore) SeedAvailableCredit(ctx context.Context, accountID string, credit int) {
	s.credits.Set(ctx, accountID, credit)
}

// SeedSentEmails sets how many emails the account sent this month
func (s *AccountStore) SeedSentEmails(ctx context.Context, accountID string, sent int) {
	s.sentEmails.Set(ctx, accountID, sent)
}
