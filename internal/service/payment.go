package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/payment"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/integration/cardgateway"
	"github.com/sendwell/sendwell/internal/integration/mercadopago"
	"github.com/sendwell/sendwell/internal/types"
)

// ChargeResult couples the payment outcome with the currency conversion used
// for wallet charges; Conversion is nil for every other method
type ChargeResult struct {
	Outcome    *payment.Outcome
	Conversion *mercadopago.CurrencyConversion
}

// PaymentService charges the selected payment method for a computed amount,
// or passes through an assumed-approved outcome when no online charge is
// required
type PaymentService interface {
	Charge(ctx context.Context, total decimal.Decimal, profile *account.BillingProfile, instrument *payment.Instrument) (*ChargeResult, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) Charge(ctx context.Context, total decimal.Decimal, profile *account.BillingProfile, instrument *payment.Instrument) (*ChargeResult, error) {
	// Zero totals and offline-settled transfers are never charged online
	if !total.IsPositive() || profile.PaymentMethod == types.PaymentMethodTransfer {
		return &ChargeResult{
			Outcome: payment.AssumedApproved(total, types.CurrencyUSD),
		}, nil
	}

	switch profile.PaymentMethod {
	case types.PaymentMethodCreditCard:
		return s.chargeCard(ctx, total, profile, instrument)
	case types.PaymentMethodMercadoPago:
		return s.chargeWallet(ctx, total, profile, instrument)
	default:
		return nil, ierr.NewErrorf("no charge strategy for payment method %s", profile.PaymentMethod).
			Mark(ierr.ErrInvalidOperation)
	}
}

func (s *paymentService) chargeCard(ctx context.Context, total decimal.Decimal, profile *account.BillingProfile, instrument *payment.Instrument) (*ChargeResult, error) {
	resp, err := s.CardGateway.Charge(ctx, &cardgateway.ChargeRequest{
		AccountID:  profile.AccountID,
		Amount:     total,
		Currency:   types.CurrencyUSD,
		Instrument: instrument.Encrypted,
	})
	if err != nil {
		// Gateway failures are fatal, not retried; the orchestrator's
		// outer handler reports them
		return nil, err
	}

	if resp.Status != cardgateway.ChargeStatusApproved {
		return nil, ierr.NewError("card payment declined").
			WithHint("The card was declined by the processor").
			WithReportableDetails(map[string]interface{}{
				"account_id":    profile.AccountID,
				"status_detail": resp.StatusDetail,
			}).
			Mark(ierr.ErrPaymentDeclined)
	}

	return &ChargeResult{
		Outcome: &payment.Outcome{
			Status:              types.PaymentStatusApproved,
			AuthorizationNumber: resp.AuthorizationNumber,
			StatusDetail:        resp.StatusDetail,
			PaidAmount:          total,
			Currency:            types.CurrencyUSD,
		},
	}, nil
}

func (s *paymentService) chargeWallet(ctx context.Context, total decimal.Decimal, profile *account.BillingProfile, instrument *payment.Instrument) (*ChargeResult, error) {
	// The wallet settles in the account's local currency, so convert
	// before charging
	localCurrency := types.LocalCurrencyFor(profile.BillingCountry)
	conversion, err := s.Wallet.ConvertCurrency(ctx, total, types.CurrencyUSD, localCurrency)
	if err != nil {
		return nil, err
	}

	walletPayment, err := s.Wallet.CreatePayment(ctx, &mercadopago.CreatePaymentRequest{
		AccountID:  profile.AccountID,
		Amount:     conversion.Total,
		Currency:   localCurrency,
		Instrument: instrument.Encrypted,
	})
	if err != nil {
		return nil, err
	}

	status := walletPayment.Status.ToPaymentStatus()
	if status == types.PaymentStatusDeclined {
		return nil, ierr.NewError("wallet payment declined").
			WithHint("The wallet rejected the payment").
			WithReportableDetails(map[string]interface{}{
				"account_id":    profile.AccountID,
				"wallet_status": walletPayment.Status,
				"status_detail": walletPayment.StatusDetail,
			}).
			Mark(ierr.ErrPaymentDeclined)
	}

	return &ChargeResult{
		Outcome: &payment.Outcome{
			Status:              status,
			AuthorizationNumber: walletPayment.AuthorizationCode,
			StatusDetail:        walletPayment.StatusDetail,
			PaidAmount:          walletPayment.TransactionAmount,
			Currency:            walletPayment.Currency,
		},
		Conversion: conversion,
	}, nil
}
