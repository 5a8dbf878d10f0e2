// internal/notification/email.go

package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

// EmailSender delivers emails
type EmailSender interface {
	SendEmail(ctx context.Context, msg *EmailMessage) error
}

// EmailConfig selects and configures an email provider
type EmailConfig struct {
	Provider       string // "smtp", "sendgrid", or "mock"
	From           string
	FromName       string
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
}

// NewEmailSender builds the sender named by cfg.Provider
func NewEmailSender(cfg EmailConfig) (EmailSender, error) {
	if cfg.FromName == "" {
		cfg.FromName = "Matcha"
	}

	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("incomplete SendGrid configuration")
		}
		return &SendGridEmailSender{
			client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
			from:     cfg.From,
			fromName: cfg.FromName,
		}, nil
	case "smtp":
		if cfg.SMTPHost == "" || cfg.From == "" {
			return nil, fmt.Errorf("incomplete SMTP configuration")
		}
		return &SMTPEmailSender{
			dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
			from:     cfg.From,
			fromName: cfg.FromName,
		}, nil
	case "mock", "":
		return NewMockEmailSender(), nil
	}
	return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
}

// SendGridEmailSender sends emails through the SendGrid v3 API
type SendGridEmailSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func (s *SendGridEmailSender) SendEmail(ctx context.Context, msg *EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// SMTPEmailSender sends emails over SMTP
type SMTPEmailSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func (s *SMTPEmailSender) SendEmail(ctx context.Context, msg *EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

// MockEmailSender records emails instead of sending them
type MockEmailSender struct {
	mu   sync.Mutex
	sent []EmailMessage
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

func (m *MockEmailSender) SendEmail(ctx context.Context, msg *EmailMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, *msg)
	m.mu.Unlock()
	logging.Ctx(ctx).Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mock email")
	return nil
}

// Sent returns a copy of every recorded email
func (m *MockEmailSender) Sent() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmailMessage(nil), m.sent...)
}
