package types

import (
	ierr "github.com/sendwell/sendwell/internal/errors"
)

// PaymentMethod identifies how an account pays for plan changes
type PaymentMethod string

const (
	PaymentMethodCreditCard  PaymentMethod = "credit_card"
	PaymentMethodMercadoPago PaymentMethod = "mercado_pago"
	PaymentMethodTransfer    PaymentMethod = "transfer"
)

// Validate validates the payment method
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodMercadoPago, PaymentMethodTransfer:
		return nil
	default:
		return ierr.NewErrorf("unsupported payment method: %s", m).
			WithHint("Payment method must be credit_card, mercado_pago or transfer").
			Mark(ierr.ErrValidation)
	}
}

// IsChargeable reports whether the method is charged online at agreement
// time. Transfers settle offline.
func (m PaymentMethod) IsChargeable() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodMercadoPago
}

// PaymentStatus is the three-way status the workflow reasons about
type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusDeclined PaymentStatus = "declined"
)

// WalletPaymentStatus is the native status vocabulary of the MercadoPago
// wallet
type WalletPaymentStatus string

const (
	WalletStatusApproved    WalletPaymentStatus = "approved"
	WalletStatusAuthorized  WalletPaymentStatus = "authorized"
	WalletStatusInProcess   WalletPaymentStatus = "in_process"
	WalletStatusInMediation WalletPaymentStatus = "in_mediation"
	WalletStatusPending     WalletPaymentStatus = "pending"
	WalletStatusRejected    WalletPaymentStatus = "rejected"
	WalletStatusCancelled   WalletPaymentStatus = "cancelled"
	WalletStatusRefunded    WalletPaymentStatus = "refunded"
	WalletStatusChargedBack WalletPaymentStatus = "charged_back"
)

// ToPaymentStatus collapses the wallet vocabulary into the three-way status:
// approved/authorized are settled, in-flight states stay pending, and every
// terminal failure state is declined.
func (s WalletPaymentStatus) ToPaymentStatus() PaymentStatus {
	switch s {
	case WalletStatusApproved, WalletStatusAuthorized:
		return PaymentStatusApproved
	case WalletStatusInProcess, WalletStatusInMediation, WalletStatusPending:
		return PaymentStatusPending
	default:
		return PaymentStatusDeclined
	}
}
