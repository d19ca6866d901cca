package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"markpedia-os/internal/events"
	"markpedia-os/internal/leavebalance"
	"markpedia-os/internal/shared/apperror"
	"markpedia-os/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeLifecycle opens the default leave balance of every new hire
// announced on the employee lifecycle topic.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	balanceService leavebalance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		return HandleEmployeeCreated(ctx, msg, balanceService, log)
	})
}

func HandleEmployeeCreated(
	ctx context.Context,
	msg kafkago.Message,
	balanceService leavebalance.Service,
	log *zap.Logger,
) error {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("%w: decode employee event: %v", errSkip, err)
	}
	if event.EventType != events.EmployeeCreatedEventType {
		return nil
	}
	if event.RequestID != "" {
		ctx = contextutil.WithRequestID(ctx, event.RequestID)
	}

	resp, created, err := balanceService.SeedDefaults(ctx, event.CompanyID, event.EmployeeID)
	if err != nil {
		if httpErr := apperror.ToHTTP(err); httpErr.Status == http.StatusBadRequest {
			return fmt.Errorf("%w: %v", errSkip, err)
		}
		return err
	}

	if !created {
		log.Info("leave balance already exists, skipping",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
		)
		return nil
	}

	log.Info("leave balance opened from employee_created event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
		zap.String("annual", resp.Annual.String()),
	)
	return nil
}
