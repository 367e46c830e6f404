package notify

import (
	"context"

	"payment-webhook/internal/core/ports"

	"github.com/rs/zerolog"
)

// LogMailer writes messages to the log instead of sending them. For
// development only.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Email) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("email (log mailer)")
	return nil
}
