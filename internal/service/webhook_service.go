package service

import (
	"context"
	"errors"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/apperror"

	"github.com/rs/zerolog"
)

// Verifier authenticates a raw delivery body.
type Verifier interface {
	Verify(body []byte, signature *string) (VerifiedBody, error)
}

// WebhookOptions tunes delivery handling.
type WebhookOptions struct {
	// RetryOnStoreFailure answers 503 instead of 200 when the payment could
	// not be stored, so the gateway redelivers.
	RetryOnStoreFailure bool
}

type webhookService struct {
	verifier Verifier
	recorder ports.PaymentRecorder
	notifier ports.Notifier
	opts     WebhookOptions
	log      zerolog.Logger
}

// NewWebhookService creates the delivery pipeline.
func NewWebhookService(
	verifier Verifier,
	recorder ports.PaymentRecorder,
	notifier ports.Notifier,
	opts WebhookOptions,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		verifier: verifier,
		recorder: recorder,
		notifier: notifier,
		opts:     opts,
		log:      log,
	}
}

// HandleDelivery verifies, classifies, records and notifies, in that order.
// A non-nil error is always an *apperror.AppError. When the store fails and
// retries are enabled, both a result and an error are returned.
func (s *webhookService) HandleDelivery(ctx context.Context, req domain.WebhookRequest) (*domain.DeliveryResult, error) {
	log := s.log.With().Str("event_id", req.EventID).Str("ip", req.ClientIP).Logger()

	body, err := s.verifier.Verify(req.Body, req.Signature)
	if err != nil {
		if errors.Is(err, ErrSecretNotConfigured) {
			log.Error().Err(err).Msg("webhook: signing secret not configured")
		} else {
			log.Warn().Err(err).Msg("webhook: signature rejected")
		}
		return nil, apperror.ErrSignatureVerification(err)
	}

	event, err := Classify(body)
	if errors.Is(err, ErrEventNotActionable) {
		log.Info().Str("event", event.Kind).Msg("webhook: event ignored")
		return &domain.DeliveryResult{Outcome: domain.DeliveryIgnored, EventKind: event.Kind}, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("webhook: malformed payload")
		return nil, apperror.ErrMalformedPayload(err)
	}

	log = log.With().Str("event", event.Kind).Str("payment_id", event.PaymentID).Logger()
	result := &domain.DeliveryResult{EventKind: event.Kind, PaymentID: event.PaymentID}

	outcome := s.recorder.Record(ctx, event)
	switch outcome.Status {
	case domain.RecordInserted:
		result.Outcome = domain.DeliveryRecorded
		log.Info().Msg("webhook: payment recorded")
	case domain.RecordAlreadyExists:
		result.Outcome = domain.DeliveryDuplicate
		log.Info().Msg("webhook: duplicate delivery")
		return result, nil
	default:
		result.Outcome = domain.DeliveryAccepted
		log.Error().Err(outcome.Err).Msg("webhook: failed to record payment")
	}

	s.notifier.Notify(ctx, domain.ReceiptFor(event))

	// Redelivery cannot supply a missing payment id, so only store errors retry.
	if result.Outcome == domain.DeliveryAccepted && s.opts.RetryOnStoreFailure &&
		!errors.Is(outcome.Err, ErrMissingPaymentID) {
		return result, apperror.ErrStoreUnavailable(outcome.Err)
	}
	return result, nil
}
