package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"adaptix-hrms/internal/entitlement"
	entitlementerrors "adaptix-hrms/internal/entitlement/errors"
	"adaptix-hrms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	maxRunAttempts  = 3
	minRetryBackoff = 50 * time.Millisecond
	maxRetryBackoff = time.Minute
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeEmployeeLifecycle runs the entitlement engine for the hire's company on
// every employee_created event, so new hires get drafts without a manual run.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	entitlementService entitlement.Service,
	logger *zap.Logger,
	retryDelay time.Duration,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		// A committed later offset would skip this one, so the message is retried
		// in place until it is handled.
		backoff := max(retryDelay, minRetryBackoff)
		for !handleEmployeeCreated(ctx, msg, entitlementService, log, retryDelay) {
			log.Warn("employee lifecycle message not handled, retrying",
				zap.Int64("offset", msg.Offset),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				log.Info("employee lifecycle consumer stopped")
				return
			case <-time.After(backoff):
			}
			backoff = nextBackoff(backoff)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d = max(d, minRetryBackoff) * 2
	if d > maxRetryBackoff {
		return maxRetryBackoff
	}
	return d
}

// handleEmployeeCreated reports whether the message is done with and can be committed.
// false means the same message has to be tried again.
func handleEmployeeCreated(
	ctx context.Context,
	msg kafkago.Message,
	entitlementService entitlement.Service,
	log *zap.Logger,
	retryDelay time.Duration,
) bool {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Error(err))
		return true
	}
	if event.EventType != events.EventEmployeeCreated {
		return true
	}

	for attempt := 1; attempt <= maxRunAttempts; attempt++ {
		resp, err := entitlementService.Run(ctx, event.CompanyID, entitlement.SystemActor, 0)
		if err == nil {
			log.Info("entitlement run triggered by employee_created",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Int("allocations_created", resp.AllocationsCreated),
			)
			return true
		}

		if errors.Is(err, entitlementerrors.ErrInvalidCompanyID) {
			log.Warn("employee_created event without a valid company, skipping",
				zap.String("employee_id", event.EmployeeID),
			)
			return true
		}
		if !errors.Is(err, entitlementerrors.ErrRunInProgress) {
			log.Error("entitlement run from employee_created failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			return false
		}

		log.Debug("entitlement run in progress, waiting",
			zap.String("company_id", event.CompanyID),
			zap.Int("attempt", attempt),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(retryDelay):
		}
	}

	log.Warn("entitlement run still busy",
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
	)
	return false
}
