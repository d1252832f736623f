package service

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/payment"
	"github.com/sendwell/sendwell/internal/domain/plan"
	"github.com/sendwell/sendwell/internal/domain/promotion"
	"github.com/sendwell/sendwell/internal/email"
	"github.com/sendwell/sendwell/internal/integration/zoho"
	"github.com/sendwell/sendwell/internal/types"
)

// NotificationInput carries everything the fan-out needs to compose the
// notifications for a completed transition
type NotificationInput struct {
	Profile          *account.BillingProfile
	NewPlan          *plan.Plan
	Promotion        *promotion.Promotion
	Outcome          *payment.Outcome
	Transition       types.PlanTransition
	ActivatedStandBy int
}

// NotificationService is the best-effort fan-out run after the ledger write.
// Every send is issued concurrently, individually logged on failure, and
// joined before returning; nothing here ever changes the workflow outcome.
type NotificationService interface {
	Dispatch(ctx context.Context, in NotificationInput)
	PaymentInProcess(ctx context.Context, profile *account.BillingProfile, newPlan *plan.Plan)
}

type notificationService struct {
	ServiceParams
}

// NewNotificationService creates a new notification service
func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{ServiceParams: params}
}

func (s *notificationService) Dispatch(ctx context.Context, in NotificationInput) {
	if in.Transition == types.TransitionNone {
		return
	}

	kind := types.KindForTransition(in.Transition)
	var wg conc.WaitGroup

	wg.Go(func() {
		s.runTask(ctx, "user_email", func() error {
			_, err := s.Email.SendTemplate(ctx, email.SendTemplateRequest{
				ToAddress: in.Profile.Email,
				Kind:      kind,
				Language:  in.Profile.NotificationLanguage(),
				Data: map[string]interface{}{
					"name":      in.Profile.DisplayName(),
					"plan_name": in.NewPlan.Name,
					"credits":   in.NewPlan.EmailQty,
				},
			})
			return err
		})
	})

	// Tier upgrades only notify the user; activations and credit
	// purchases additionally get an admin summary
	if in.Transition == types.TransitionNewActivation || in.Transition == types.TransitionBuyCredits {
		wg.Go(func() {
			s.runTask(ctx, "admin_email", func() error {
				subject := fmt.Sprintf("[billing] %s: %s", in.Transition, in.Profile.Email)
				body := fmt.Sprintf("account=%s plan=%s method=%s status=%s",
					in.Profile.AccountID, in.NewPlan.Name, in.Profile.PaymentMethod, in.Outcome.Status)
				return s.Email.SendAdminSummary(ctx, s.Config.Billing.AdminEmail, subject, body)
			})
		})
	}

	wg.Go(func() {
		s.runTask(ctx, "slack_audit", func() error {
			return s.Slack.Notify(ctx, fmt.Sprintf(
				"agreement completed: account=%s transition=%s plan=%s method=%s status=%s",
				in.Profile.AccountID, in.Transition, in.NewPlan.Name,
				in.Profile.PaymentMethod, in.Outcome.Status))
		})
	})

	if in.ActivatedStandBy > 0 {
		wg.Go(func() {
			s.runTask(ctx, "standby_email", func() error {
				_, err := s.Email.SendTemplate(ctx, email.SendTemplateRequest{
					ToAddress: in.Profile.Email,
					Kind:      types.NotificationStandBySubscribers,
					Language:  in.Profile.NotificationLanguage(),
					Data: map[string]interface{}{
						"name":      in.Profile.DisplayName(),
						"activated": in.ActivatedStandBy,
					},
				})
				return err
			})
		})
	}

	if in.Transition == types.TransitionNewActivation && s.Config.Notifications.CRMSyncEnabled {
		wg.Go(func() {
			s.runTask(ctx, "crm_sync", func() error {
				return s.syncCRM(ctx, in)
			})
		})
	}

	wg.WaitAndRecover()
}

// PaymentInProcess sends the "payment in process" notice used when a wallet
// charge is accepted but not yet settled
func (s *notificationService) PaymentInProcess(ctx context.Context, profile *account.BillingProfile, newPlan *plan.Plan) {
	s.runTask(ctx, "payment_in_process_email", func() error {
		_, err := s.Email.SendTemplate(ctx, email.SendTemplateRequest{
			ToAddress: profile.Email,
			Kind:      types.NotificationPaymentInProcess,
			Language:  profile.NotificationLanguage(),
			Data: map[string]interface{}{
				"name":      profile.DisplayName(),
				"plan_name": newPlan.Name,
			},
		})
		return err
	})
}

// syncCRM searches for an existing contact and upserts the lead
func (s *notificationService) syncCRM(ctx context.Context, in NotificationInput) error {
	contact, err := s.CRM.SearchContact(ctx, in.Profile.Email)
	if err != nil {
		return err
	}
	if contact != nil {
		s.Logger.Debugw("CRM contact already exists", "email", in.Profile.Email)
	}

	return s.CRM.UpsertLead(ctx, &zoho.Lead{
		Email:         in.Profile.Email,
		FirstName:     in.Profile.FirstName,
		LastName:      in.Profile.LastName,
		PlanName:      in.NewPlan.Name,
		PaymentMethod: string(in.Profile.PaymentMethod),
		Country:       string(in.Profile.BillingCountry),
	})
}

// runTask executes one best-effort send, converting both errors and panics
// into log lines so a failing sink cannot affect the agreement outcome
func (s *notificationService) runTask(ctx context.Context, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Errorw("notification task panicked",
				"task", name,
				"panic", r)
		}
	}()

	if err := fn(); err != nil {
		s.Logger.WithContext(ctx).Errorw("notification task failed",
			"task", name,
			"error", err)
	}
}
