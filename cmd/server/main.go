package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/email"
	"github.com/sendwell/sendwell/internal/integration/cardgateway"
	"github.com/sendwell/sendwell/internal/integration/mercadopago"
	"github.com/sendwell/sendwell/internal/integration/sap"
	"github.com/sendwell/sendwell/internal/integration/slack"
	"github.com/sendwell/sendwell/internal/integration/zoho"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/repository/inmemory"
	"github.com/sendwell/sendwell/internal/rest"
	"github.com/sendwell/sendwell/internal/sentry"
	"github.com/sendwell/sendwell/internal/service"

	v1 "github.com/sendwell/sendwell/internal/api/v1"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.GetLogger().Fatalw("failed to load configuration", "error", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		logger.GetLogger().Fatalw("failed to initialize logger", "error", err)
	}

	sentrySvc := sentry.NewSentryService(cfg, log)

	// In-memory providers until a SQL repository layer lands; the service
	// layer only sees the domain interfaces
	accountRepo := inmemory.NewAccountStore()
	planRepo := inmemory.NewPlanStore()
	promotionRepo := inmemory.NewPromotionStore()
	ledgerRepo := inmemory.NewLedgerStore()

	params := service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		Sentry:        sentrySvc,
		AccountRepo:   accountRepo,
		PlanRepo:      planRepo,
		PromotionRepo: promotionRepo,
		LedgerRepo:    ledgerRepo,
		CardGateway:   cardgateway.NewClient(cfg, log),
		Wallet:        mercadopago.NewClient(cfg, log),
		SAP:           sap.NewClient(cfg, log),
		CRM:           zoho.NewClient(cfg, log),
		Slack:         slack.NewClient(cfg, log),
		Email:         email.NewEmail(email.NewEmailClient(cfg), log),
	}

	payments := service.NewPaymentService(params)
	promotions := service.NewPromotionService(params)
	proration := service.NewProrationService(params)
	transitions := service.NewTransitionService(params, proration)
	notifications := service.NewNotificationService(params)
	mappers := service.NewMapperRegistry(cfg)

	agreements := service.NewAgreementService(
		params, payments, promotions, transitions, notifications, mappers)

	router := rest.NewRouter(cfg, log, rest.Handlers{
		Agreement: v1.NewAgreementHandler(agreements, log),
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
	log.Infow("server stopped")
}
