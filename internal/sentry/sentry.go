package sentry

import (
	"github.com/getsentry/sentry-go"

	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/logger"
)

// Service wraps sentry error reporting behind the enabled flag
type Service struct {
	enabled bool
	logger  *logger.Logger
}

// NewSentryService initializes sentry from configuration
func NewSentryService(cfg *config.Configuration, log *logger.Logger) *Service {
	if !cfg.Sentry.Enabled || cfg.Sentry.DSN == "" {
		return &Service{enabled: false, logger: log}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.SampleRate,
	})
	if err != nil {
		log.Errorw("failed to initialize sentry", "error", err)
		return &Service{enabled: false, logger: log}
	}

	return &Service{enabled: true, logger: log}
}

// CaptureException reports an error to sentry when enabled
func (s *Service) CaptureException(err error) {
	if !s.enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}
