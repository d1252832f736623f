package service

import (
	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/domain/account"
	"github.com/sendwell/sendwell/internal/domain/billing"
	"github.com/sendwell/sendwell/internal/domain/plan"
	"github.com/sendwell/sendwell/internal/domain/promotion"
	"github.com/sendwell/sendwell/internal/email"
	"github.com/sendwell/sendwell/internal/integration/cardgateway"
	"github.com/sendwell/sendwell/internal/integration/mercadopago"
	"github.com/sendwell/sendwell/internal/integration/sap"
	"github.com/sendwell/sendwell/internal/integration/slack"
	"github.com/sendwell/sendwell/internal/integration/zoho"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/sentry"
)

// ServiceParams holds the dependencies injected into every service
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Sentry *sentry.Service

	AccountRepo   account.Repository
	PlanRepo      plan.Repository
	PromotionRepo promotion.Repository
	LedgerRepo    billing.Repository

	CardGateway cardgateway.GatewayClient
	Wallet      mercadopago.WalletClient
	SAP         sap.SAPClient
	CRM         zoho.CRMClient
	Slack       slack.Notifier
	Email       email.Sender
}
