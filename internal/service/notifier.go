package service

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"

	"github.com/rs/zerolog"
)

// notificationClaimTTL is how long a sent (or attempted) receipt blocks
// another attempt for the same payment.
const notificationClaimTTL = 7 * 24 * time.Hour

var receiptTemplate = template.Must(template.New("receipt").Parse(`<p>Hi,</p>
<p>We have received your payment.</p>
<p><strong>Details:</strong></p>
<ul>
  <li>Payment ID: {{.PaymentID}}</li>
  <li>Order ID: {{.OrderID}}</li>
  <li>Amount: {{.Amount}} {{.Currency}}</li>
  <li>Status: {{.Status}}</li>
</ul>
<p>If you did not make this payment, please contact support immediately.</p>
`))

type receiptView struct {
	PaymentID string
	OrderID   string
	Amount    string
	Currency  string
	Status    string
}

type emailNotifier struct {
	mailer  ports.Mailer
	guard   ports.NotificationGuard
	from    string
	timeout time.Duration
	log     zerolog.Logger
}

// NewEmailNotifier creates a notifier that emails receipts through mailer.
// guard may be nil, in which case every call attempts delivery.
func NewEmailNotifier(
	mailer ports.Mailer,
	guard ports.NotificationGuard,
	from string,
	timeout time.Duration,
	log zerolog.Logger,
) ports.Notifier {
	return &emailNotifier{
		mailer:  mailer,
		guard:   guard,
		from:    from,
		timeout: timeout,
		log:     log,
	}
}

// Notify sends the payer a receipt. Failures are logged only.
func (n *emailNotifier) Notify(ctx context.Context, receipt domain.Receipt) {
	log := n.log.With().Str("payment_id", receipt.PaymentID).Logger()

	if receipt.PayerEmail == nil || *receipt.PayerEmail == "" {
		log.Debug().Msg("notify: no payer email, skipping")
		return
	}
	if receipt.Amount == nil {
		log.Debug().Msg("notify: no amount, skipping")
		return
	}

	// The payment may already be stored, so a caller hanging up must not
	// leave the guard claimed with no receipt sent.
	ctx = context.WithoutCancel(ctx)

	if n.guard != nil && receipt.PaymentID != "" {
		won, err := n.guard.Claim(ctx, receipt.PaymentID, notificationClaimTTL)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("notify: guard unavailable, sending anyway")
		case !won:
			log.Info().Msg("notify: receipt already sent, skipping")
			return
		}
	}

	msg, err := n.compose(receipt)
	if err != nil {
		log.Error().Err(err).Msg("notify: failed to render receipt")
		return
	}

	sendCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.mailer.Send(sendCtx, msg); err != nil {
		log.Error().Err(err).Msg("notify: failed to send receipt")
		return
	}
	log.Info().Msg("notify: receipt sent")
}

func (n *emailNotifier) compose(r domain.Receipt) (ports.Email, error) {
	amount := domain.CurrencySymbol(r.Currency) + r.Amount.Major()

	view := receiptView{
		PaymentID: r.PaymentID,
		OrderID:   "N/A",
		Amount:    amount,
		Currency:  r.Currency,
		Status:    r.Status,
	}
	if r.OrderID != nil {
		view.OrderID = *r.OrderID
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return ports.Email{}, err
	}

	return ports.Email{
		From:    n.from,
		To:      *r.PayerEmail,
		Subject: "Payment received: " + amount,
		HTML:    buf.String(),
	}, nil
}
