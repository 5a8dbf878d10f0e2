// internal/notification/sms.go

package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

// SMSSender delivers text messages
type SMSSender interface {
	SendSMS(ctx context.Context, msg *SMSMessage) error
}

// SMSConfig selects and configures an SMS provider
type SMSConfig struct {
	Provider   string // "twilio" or "mock"
	AccountSID string
	AuthToken  string
	FromNumber string
}

// NewSMSSender builds the sender named by cfg.Provider
func NewSMSSender(cfg SMSConfig) (SMSSender, error) {
	switch cfg.Provider {
	case "twilio":
		if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
			return nil, fmt.Errorf("incomplete Twilio configuration")
		}
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		return &TwilioSMSSender{client: client, from: cfg.FromNumber}, nil
	case "mock", "":
		return NewMockSMSSender(), nil
	}
	return nil, fmt.Errorf("unknown SMS provider: %s", cfg.Provider)
}

// TwilioSMSSender sends text messages through Twilio
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
}

func (s *TwilioSMSSender) SendSMS(ctx context.Context, msg *SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}

	if resp.Sid != nil {
		logging.Ctx(ctx).Debug().Str("sid", *resp.Sid).Msg("sms sent")
	}
	return nil
}

// MockSMSSender records messages instead of sending them
type MockSMSSender struct {
	mu   sync.Mutex
	sent []SMSMessage
}

func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (m *MockSMSSender) SendSMS(ctx context.Context, msg *SMSMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, *msg)
	m.mu.Unlock()
	logging.Ctx(ctx).Debug().Str("to", msg.To).Msg("mock sms")
	return nil
}

// Sent returns a copy of every recorded message
func (m *MockSMSSender) Sent() []SMSMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SMSMessage(nil), m.sent...)
}
