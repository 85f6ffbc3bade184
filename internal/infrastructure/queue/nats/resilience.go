package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/infrastructure/resilience"
)

// Connection-level failures that a later publish can recover from.
var transientNATSErrors = []error{
	nats.ErrNoServers,
	nats.ErrTimeout,
	nats.ErrConnectionClosed,
	nats.ErrConnectionReconnecting,
	nats.ErrDisconnected,
}

func classifyNATSError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case errors.Is(err, nats.ErrBadSubject), errors.Is(err, nats.ErrMaxPayload):
		// The broker is healthy; the message itself is wrong.
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err), isTransientNATSError(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

func isTransientNATSError(err error) bool {
	for _, target := range transientNATSErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// wrapPublishError maps a publish failure to a domain kind so the API can
// answer 503 for a broker outage and 400 for a message it can never send.
func wrapPublishError(err error) error {
	const op = "publish report request"
	switch {
	case err == nil:
		return nil
	case domain.IsKind(err, domain.ErrTemporary), domain.IsKind(err, domain.ErrInvalidInput):
		return err
	case errors.Is(err, nats.ErrBadSubject), errors.Is(err, nats.ErrMaxPayload):
		return domain.WrapError(domain.ErrInvalidInput, op, err)
	case resilience.IsCircuitOpen(err) || classifyNATSError(err).Retryable:
		return domain.WrapError(domain.ErrTemporary, op, err)
	default:
		return domain.WrapError(domain.ErrUpstream, op, err)
	}
}
