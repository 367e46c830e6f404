package notify

import (
	"context"
	"fmt"

	"payment-webhook/internal/core/ports"

	"github.com/resend/resend-go/v2"
)

// ResendMailer delivers email through the Resend API.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer creates a mailer authenticated with apiKey.
func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

// Send submits msg to Resend.
func (m *ResendMailer) Send(ctx context.Context, msg ports.Email) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
