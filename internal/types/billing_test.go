package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingSystemForTransfer(t *testing.T) {
	assert.Equal(t, BillingSystemTransferCO, BillingSystemForTransfer(CountryColombia))
	assert.Equal(t, BillingSystemTransferMX, BillingSystemForTransfer(CountryMexico))
	assert.Equal(t, BillingSystemTransferAR, BillingSystemForTransfer(CountryArgentina))
	assert.Equal(t, BillingSystemQBL, BillingSystemForTransfer(CountryCode("br")))
}

func TestLocalCurrencyFor(t *testing.T) {
	assert.Equal(t, CurrencyARS, LocalCurrencyFor(CountryArgentina))
	assert.Equal(t, CurrencyMXN, LocalCurrencyFor(CountryMexico))
	assert.Equal(t, CurrencyCOP, LocalCurrencyFor(CountryColombia))
	assert.Equal(t, CurrencyUSD, LocalCurrencyFor(CountryCode("us")))
}

func TestKindForTransition(t *testing.T) {
	assert.Equal(t, NotificationPlanActivated, KindForTransition(TransitionNewActivation))
	assert.Equal(t, NotificationCreditsPurchased, KindForTransition(TransitionBuyCredits))
	assert.Equal(t, NotificationPlanUpgraded, KindForTransition(TransitionUpgradeMonthly))
	assert.Equal(t, NotificationPlanUpgraded, KindForTransition(TransitionUpgradeSubscribers))
}
