package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sendwell/sendwell/internal/email"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/integration/cardgateway"
	"github.com/sendwell/sendwell/internal/integration/mercadopago"
	"github.com/sendwell/sendwell/internal/integration/sap"
	"github.com/sendwell/sendwell/internal/integration/zoho"
	"github.com/sendwell/sendwell/internal/types"
)

// StubCardGateway implements cardgateway.GatewayClient with a scripted
// response
type StubCardGateway struct {
	mu       sync.Mutex
	Response *cardgateway.ChargeResponse
	Err      error
	Requests []*cardgateway.ChargeRequest
}

// NewStubCardGateway returns a gateway that approves everything with a fixed
// authorization number
func NewStubCardGateway() *StubCardGateway {
	return &StubCardGateway{
		Response: &cardgateway.ChargeResponse{
			TransactionID:       "txn-0001",
			Status:              cardgateway.ChargeStatusApproved,
			AuthorizationNumber: "LLLTD222",
		},
	}
}

func (s *StubCardGateway) Charge(ctx context.Context, req *cardgateway.ChargeRequest) (*cardgateway.ChargeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}

// Decline scripts the gateway to decline subsequent charges
func (s *StubCardGateway) Decline(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Response = &cardgateway.ChargeResponse{
		TransactionID: "txn-0001",
		Status:        cardgateway.ChargeStatusDeclined,
		StatusDetail:  detail,
	}
}

// StubWallet implements mercadopago.WalletClient. Conversion applies a fixed
// rate with no taxes unless overridden.
type StubWallet struct {
	mu       sync.Mutex
	Status   types.WalletPaymentStatus
	Rate     decimal.Decimal
	Taxes    decimal.Decimal
	Err      error
	Payments []*mercadopago.CreatePaymentRequest
}

func NewStubWallet() *StubWallet {
	return &StubWallet{
		Status: types.WalletStatusApproved,
		Rate:   decimal.NewFromInt(1),
	}
}

func (s *StubWallet) CreatePayment(ctx context.Context, req *mercadopago.CreatePaymentRequest) (*mercadopago.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Payments = append(s.Payments, req)
	if s.Err != nil {
		return nil, s.Err
	}
	return &mercadopago.Payment{
		ID:                424242,
		Status:            s.Status,
		TransactionAmount: req.Amount,
		Currency:          req.Currency,
		AuthorizationCode: "MP-AUTH-1",
	}, nil
}

func (s *StubWallet) ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (*mercadopago.CurrencyConversion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	converted := amount.Mul(s.Rate).Round(2)
	return &mercadopago.CurrencyConversion{
		From:  from,
		To:    to,
		Rate:  s.Rate,
		Taxes: s.Taxes,
		Total: converted.Add(s.Taxes),
	}, nil
}

// StubSAP implements sap.SAPClient and records forwarded billing records
type StubSAP struct {
	mu      sync.Mutex
	Err     error
	Records []*sap.BillingRecord
}

func NewStubSAP() *StubSAP {
	return &StubSAP{}
}

func (s *StubSAP) SendBillingRecord(ctx context.Context, record *sap.BillingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Records = append(s.Records, record)
	return nil
}

// Sent returns the recorded billing records
func (s *StubSAP) Sent() []*sap.BillingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*sap.BillingRecord{}, s.Records...)
}

// StubCRM implements zoho.CRMClient
type StubCRM struct {
	mu       sync.Mutex
	Contacts map[string]*zoho.Contact
	Leads    []*zoho.Lead
	Err      error
}

func NewStubCRM() *StubCRM {
	return &StubCRM{Contacts: make(map[string]*zoho.Contact)}
}

func (s *StubCRM) SearchContact(ctx context.Context, email string) (*zoho.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Contacts[email], nil
}

func (s *StubCRM) UpsertLead(ctx context.Context, lead *zoho.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Leads = append(s.Leads, lead)
	return nil
}

// SyncedLeads returns the leads upserted so far
func (s *StubCRM) SyncedLeads() []*zoho.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*zoho.Lead{}, s.Leads...)
}

// StubSlack implements slack.Notifier and records messages
type StubSlack struct {
	mu       sync.Mutex
	Messages []string
	Err      error
}

func NewStubSlack() *StubSlack {
	return &StubSlack{}
}

func (s *StubSlack) Notify(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Messages = append(s.Messages, text)
	return nil
}

// Sent returns the messages recorded so far
func (s *StubSlack) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.Messages...)
}

// SentEmail is one recorded templated send
type SentEmail struct {
	To       string
	Kind     types.NotificationKind
	Language string
	Data     map[string]interface{}
}

// StubEmail implements email.Sender and records sends instead of delivering
type StubEmail struct {
	mu         sync.Mutex
	Sent       []SentEmail
	AdminSends []string
	Err        error
}

func NewStubEmail() *StubEmail {
	return &StubEmail{}
}

func (s *StubEmail) SendTemplate(ctx context.Context, req email.SendTemplateRequest) (*email.SendTemplateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, ierr.WithError(s.Err).Mark(ierr.ErrSystem)
	}
	s.Sent = append(s.Sent, SentEmail{
		To:       req.ToAddress,
		Kind:     req.Kind,
		Language: req.Language,
		Data:     req.Data,
	})
	return &email.SendTemplateResponse{MessageID: "msg-1", Success: true}, nil
}

func (s *StubEmail) SendAdminSummary(ctx context.Context, toAddress, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.AdminSends = append(s.AdminSends, subject)
	return nil
}

// SentTo returns the templated emails delivered to an address
func (s *StubEmail) SentTo(address string) []SentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]SentEmail, 0)
	for _, sent := range s.Sent {
		if sent.To == address {
			result = append(result, sent)
		}
	}
	return result
}
