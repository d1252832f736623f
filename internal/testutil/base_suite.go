package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/repository/inmemory"
	"github.com/sendwell/sendwell/internal/sentry"
	"github.com/sendwell/sendwell/internal/types"
)

// Stores groups the in-memory repository implementations backing a test run
type Stores struct {
	AccountRepo   *inmemory.AccountStore
	PlanRepo      *inmemory.PlanStore
	PromotionRepo *inmemory.PromotionStore
	LedgerRepo    *inmemory.LedgerStore
}

// Clients groups the stubbed integration clients backing a test run
type Clients struct {
	CardGateway *StubCardGateway
	Wallet      *StubWallet
	SAP         *StubSAP
	CRM         *StubCRM
	Slack       *StubSlack
	Email       *StubEmail
}

// BaseServiceTestSuite provides common setup for service tests: fresh stores,
// stub clients and a request-scoped context per test
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	clients Clients
	cfg     *config.Configuration
	log     *logger.Logger
	sentry  *sentry.Service
}

// SetupTest initializes fresh stores and clients before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.sentry = sentry.NewSentryService(s.cfg, s.log)
	s.ctx = types.SetRequestID(context.Background(), "req_test")
	s.ClearStores()
}

// TearDownTest cleans up after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ctx = nil
}

// ClearStores resets every store and stub to an empty state
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores = Stores{
		AccountRepo:   inmemory.NewAccountStore(),
		PlanRepo:      inmemory.NewPlanStore(),
		PromotionRepo: inmemory.NewPromotionStore(),
		LedgerRepo:    inmemory.NewLedgerStore(),
	}
	s.clients = Clients{
		CardGateway: NewStubCardGateway(),
		Wallet:      NewStubWallet(),
		SAP:         NewStubSAP(),
		CRM:         NewStubCRM(),
		Slack:       NewStubSlack(),
		Email:       NewStubEmail(),
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the in-memory stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetClients returns the stub integration clients
func (s *BaseServiceTestSuite) GetClients() Clients {
	return s.clients
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

// GetSentry returns the disabled sentry service used in tests
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}
