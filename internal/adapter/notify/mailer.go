package notify

import (
	"fmt"

	"payment-webhook/config"
	"payment-webhook/internal/core/ports"

	"github.com/rs/zerolog"
)

// NewMailer returns the Mailer selected by cfg.Provider.
func NewMailer(cfg config.NotifierConfig, log zerolog.Logger) (ports.Mailer, error) {
	switch cfg.Provider {
	case config.NotifierResend:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("notifier.api_key is required for provider %q", cfg.Provider)
		}
		return NewResendMailer(cfg.APIKey), nil
	case config.NotifierSMTP:
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("notifier.smtp.host is required for provider %q", cfg.Provider)
		}
		return NewSMTPMailer(cfg.SMTP), nil
	case config.NotifierLog, "":
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown notifier provider %q", cfg.Provider)
	}
}
