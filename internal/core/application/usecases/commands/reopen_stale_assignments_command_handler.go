package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/delivery"
)

// ReopenStaleAssignmentsCommandHandler reopens each stale delivery in its own
// transaction and re-checks staleness under the row lock, so a courier that
// accepts in the meantime keeps the delivery.
type ReopenStaleAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewReopenStaleAssignmentsCommandHandler(uowFactory UoWFactory, logger *slog.Logger) ReopenStaleAssignmentsCommandHandler {
	return ReopenStaleAssignmentsCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "reopen_stale_assignments"),
	}
}

// Handle returns how many deliveries were reopened.
func (h ReopenStaleAssignmentsCommandHandler) Handle(ctx context.Context, cmd ReopenStaleAssignmentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := time.Now()
	stale, err := h.uowFactory.Create().DeliveryRepository().ListStaleAssigned(ctx, now.Add(-cmd.Timeout()), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	reopened := 0
	for _, candidate := range stale {
		changed := false
		err = withLockedDelivery(ctx, h.uowFactory, candidate.ID(), func(_ UoW, d *delivery.Delivery) error {
			if !d.IsStaleAssignment(now, cmd.Timeout()) {
				return nil
			}
			changed = true
			return d.Reopen()
		})
		if err != nil {
			h.logger.ErrorContext(ctx, "Failed to reopen stale assignment",
				"delivery_id", candidate.ID().String(),
				"error", err)
			continue
		}
		if changed {
			reopened++
		}
	}

	return reopened, nil
}
