package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletStatusCollapse(t *testing.T) {
	cases := map[WalletPaymentStatus]PaymentStatus{
		WalletStatusApproved:    PaymentStatusApproved,
		WalletStatusAuthorized:  PaymentStatusApproved,
		WalletStatusInProcess:   PaymentStatusPending,
		WalletStatusInMediation: PaymentStatusPending,
		WalletStatusPending:     PaymentStatusPending,
		WalletStatusRejected:    PaymentStatusDeclined,
		WalletStatusCancelled:   PaymentStatusDeclined,
		WalletStatusRefunded:    PaymentStatusDeclined,
		WalletStatusChargedBack: PaymentStatusDeclined,
	}

	for wallet, expected := range cases {
		assert.Equal(t, expected, wallet.ToPaymentStatus(), "wallet status %s", wallet)
	}

	// Unknown statuses fail closed
	assert.Equal(t, PaymentStatusDeclined, WalletPaymentStatus("surprise").ToPaymentStatus())
}

func TestPaymentMethodValidate(t *testing.T) {
	assert.NoError(t, PaymentMethodCreditCard.Validate())
	assert.NoError(t, PaymentMethodMercadoPago.Validate())
	assert.NoError(t, PaymentMethodTransfer.Validate())
	assert.Error(t, PaymentMethod("paypal").Validate())
	assert.Error(t, PaymentMethod("").Validate())
}

func TestIsChargeable(t *testing.T) {
	assert.True(t, PaymentMethodCreditCard.IsChargeable())
	assert.True(t, PaymentMethodMercadoPago.IsChargeable())
	assert.False(t, PaymentMethodTransfer.IsChargeable())
}
