package types

// UserType identifies the plan family an account is on
type UserType string

const (
	UserTypeFree        UserType = "free"
	UserTypeMonthly     UserType = "monthly"
	UserTypeIndividual  UserType = "individual"
	UserTypeSubscribers UserType = "subscribers"
)

// IsPaid reports whether the user type is one of the three paid families
func (t UserType) IsPaid() bool {
	switch t {
	case UserTypeMonthly, UserTypeIndividual, UserTypeSubscribers:
		return true
	default:
		return false
	}
}

// PlanTransition tags which agreement sub-flow applies to a plan change
type PlanTransition string

const (
	// TransitionNewActivation is a free account activating its first paid plan
	TransitionNewActivation PlanTransition = "new_activation"

	// TransitionUpgradeMonthly is a monthly account moving to a larger
	// monthly email tier
	TransitionUpgradeMonthly PlanTransition = "upgrade_monthly"

	// TransitionUpgradeSubscribers is a subscribers account moving to a
	// larger subscriber tier
	TransitionUpgradeSubscribers PlanTransition = "upgrade_subscribers"

	// TransitionBuyCredits is an individual (prepaid) account buying more
	// email credits
	TransitionBuyCredits PlanTransition = "buy_credits"

	// TransitionNone means the requested change maps to no supported
	// transition and the workflow records nothing
	TransitionNone PlanTransition = "none"
)
