package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/brightloom/storefront-backend/pkg/config"
	"github.com/brightloom/storefront-backend/pkg/logger"
)

// Message is a provider-agnostic email payload.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends transactional email. Implementations must treat a send as a
// single attempt; retry policy belongs to the caller.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResendMailer delivers mail through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResend builds a Resend-backed mailer from configuration.
func NewResend(cfg config.ResendConfig) (*ResendMailer, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, errors.New("resend from address is required")
	}
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   cfg.FromEmail,
	}, nil
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("at least one recipient is required")
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}

// Noop is used when no email provider is configured; sends are logged and
// dropped so the rest of the system keeps working in dev.
type Noop struct {
	Logg *logger.Logger
}

func (n Noop) Send(ctx context.Context, msg Message) error {
	if n.Logg != nil {
		ctx = n.Logg.WithField(ctx, "subject", msg.Subject)
		n.Logg.Info(ctx, "mailer disabled, dropping email")
	}
	return nil
}
