package types

// NotificationKind selects the template set for the agreement fan-out
type NotificationKind string

const (
	NotificationPlanActivated      NotificationKind = "plan_activated"
	NotificationPlanUpgraded       NotificationKind = "plan_upgraded"
	NotificationCreditsPurchased   NotificationKind = "credits_purchased"
	NotificationPaymentInProcess   NotificationKind = "payment_in_process"
	NotificationStandBySubscribers NotificationKind = "standby_subscribers_activated"
)

// KindForTransition maps a plan transition to the user-facing template kind
func KindForTransition(t PlanTransition) NotificationKind {
	switch t {
	case TransitionNewActivation:
		return NotificationPlanActivated
	case TransitionBuyCredits:
		return NotificationCreditsPurchased
	default:
		return NotificationPlanUpgraded
	}
}
