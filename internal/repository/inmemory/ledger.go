package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sendwell/sendwell/internal/domain/billing"
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// LedgerStore implements billing.Repository
type LedgerStore struct {
	mu sync.RWMutex

	credits   map[int]*billing.BillingCredit
	entries   map[string]*billing.AccountingEntry
	movements []*billing.MovementCredit

	// subscriber caps and stand-by queues per account
	subscriberLimits map[string]int
	standBy          map[string]int

	nextCreditID   int
	nextEntryID    int
	nextMovementID int
}

// NewLedgerStore creates a new in-memory ledger store
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		credits:          make(map[int]*billing.BillingCredit),
		entries:          make(map[string]*billing.AccountingEntry),
		subscriberLimits: make(map[string]int),
		standBy:          make(map[string]int),
	}
}

func copyCredit(c *billing.BillingCredit) *billing.BillingCredit {
	if c == nil {
		return nil
	}
	copied := *c
	if c.PaymentDate != nil {
		t := *c.PaymentDate
		copied.PaymentDate = &t
	}
	if c.ActivationDate != nil {
		t := *c.ActivationDate
		copied.ActivationDate = &t
	}
	if c.CreditsQty != nil {
		v := *c.CreditsQty
		copied.CreditsQty = &v
	}
	if c.SubscribersQty != nil {
		v := *c.SubscribersQty
		copied.SubscribersQty = &v
	}
	if c.PromotionID != nil {
		v := *c.PromotionID
		copied.PromotionID = &v
	}
	return &copied
}

func (s *LedgerStore) CreateBillingCredit(ctx context.Context, credit *billing.BillingCredit) (int, error) {
	if credit == nil {
		return 0, ierr.NewError("billing credit cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := credit.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCreditID++
	stored := copyCredit(credit)
	stored.ID = s.nextCreditID
	s.credits[stored.ID] = stored
	return stored.ID, nil
}

func (s *LedgerStore) GetBillingCredit(ctx context.Context, id int) (*billing.BillingCredit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credit, ok := s.credits[id]
	if !ok {
		return nil, ierr.NewErrorf("billing credit %d not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyCredit(credit), nil
}

func (s *LedgerStore) CreateAccountingEntries(ctx context.Context, invoice *billing.AccountingEntry, payment *billing.AccountingEntry) (string, error) {
	if invoice == nil {
		return "", ierr.NewError("invoice entry cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := invoice.Validate(); err != nil {
		return "", err
	}
	if payment != nil {
		if err := payment.Validate(); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEntryID++
	invoiceID := fmt.Sprintf("inv-%06d", s.nextEntryID)
	stored := *invoice
	stored.ID = invoiceID
	s.entries[invoiceID] = &stored

	if payment != nil {
		s.nextEntryID++
		paymentID := fmt.Sprintf("pay-%06d", s.nextEntryID)
		storedPayment := *payment
		storedPayment.ID = paymentID
		s.entries[paymentID] = &storedPayment
	}

	return invoiceID, nil
}

func (s *LedgerStore) CreateMovementCredit(ctx context.Context, movement *billing.MovementCredit) error {
	if movement == nil {
		return ierr.NewError("movement credit cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMovementID++
	stored := *movement
	stored.ID = s.nextMovementID
	s.movements = append(s.movements, &stored)
	return nil
}

func (s *LedgerStore) UpdateSubscriberLimits(ctx context.Context, accountID string, maxSubscribers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriberLimits[accountID] = maxSubscribers
	return nil
}

func (s *LedgerStore) ActivateStandBySubscribers(ctx context.Context, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activated := s.standBy[accountID]
	s.standBy[accountID] = 0
	return activated, nil
}

// SeedStandBy queues subscribers waiting for capacity
func (s *LedgerStore) SeedStandBy(ctx context.Context, accountID string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standBy[accountID] = count
}

// Movements returns the recorded credit movements for an account in insertion
// order
func (s *LedgerStore) Movements(ctx context.Context, accountID string) []*billing.MovementCredit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*billing.MovementCredit, 0)
	for _, m := range s.movements {
		if m.AccountID == accountID {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result
}

// Entries returns the accounting entries matching the filter
func (s *LedgerStore) Entries(ctx context.Context, filter func(*billing.AccountingEntry) bool) []*billing.AccountingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*billing.AccountingEntry, 0)
	for _, e := range s.entries {
		if filter == nil || filter(e) {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result
}

// SubscriberLimit returns the recorded cap for an account
func (s *LedgerStore) SubscriberLimit(ctx context.Context, accountID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscriberLimits[accountID]
}
