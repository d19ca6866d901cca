package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"markpedia-os/internal/bootstrap"
	"markpedia-os/internal/events"
	"markpedia-os/internal/notification"
	"markpedia-os/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle writes every leave workflow event to the audit trail
// and notifies the configured recipients.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	auditLogger bootstrap.AuditLogger,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		return HandleLeaveStatusChanged(ctx, msg, auditLogger, notifier)
	})
}

// HandleLeaveStatusChanged audits before notifying. A failed notification is
// retried through redelivery, so the audit entry may be written twice.
func HandleLeaveStatusChanged(
	ctx context.Context,
	msg kafkago.Message,
	auditLogger bootstrap.AuditLogger,
	notifier notification.Notifier,
) error {
	var event events.LeaveStatusChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("%w: decode leave event: %v", errSkip, err)
	}
	if event.EventType != events.LeaveStatusChangedEventType {
		return nil
	}
	if event.RequestID != "" {
		ctx = contextutil.WithRequestID(ctx, event.RequestID)
	}

	auditLogger.Log(ctx, bootstrap.AuditLog{
		Action:    "LEAVE_" + strings.ToUpper(event.Action),
		Message:   notification.Subject(event),
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
		Meta: map[string]any{
			"leave_request_id": event.LeaveRequestID,
			"company_id":       event.CompanyID,
			"employee_id":      event.EmployeeID,
			"actor_role":       event.ActorRole,
			"from_status":      event.FromStatus,
			"to_status":        event.ToStatus,
			"balance_effect":   event.BalanceEffect,
			"total_days":       event.TotalDays,
		},
	})

	if notifier == nil {
		return nil
	}
	return notifier.NotifyLeaveStatusChanged(ctx, event)
}
