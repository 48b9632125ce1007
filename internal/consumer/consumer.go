package consumer

import (
	"context"

	"go-approval/internal/core/ports"

	"go.uber.org/zap"
)

// DecisionConsumer subscribes to finalization events and logs them. The real
// activation/rejection handlers live in the entity modules; this in-process
// subscriber gives operators a trace of every finalized request.
type DecisionConsumer struct {
	bus ports.EventBus
	log *zap.Logger
}

func NewDecisionConsumer(bus ports.EventBus, log *zap.Logger) *DecisionConsumer {
	return &DecisionConsumer{bus: bus, log: log}
}

// Start begins the listening loop. Call this in main.go as a goroutine.
func (c *DecisionConsumer) Start(ctx context.Context) {
	approvedChannel, err := c.bus.SubscribeToApproved(ctx)
	if err != nil {
		c.log.Error("failed to subscribe to approval events", zap.Error(err))
		return
	}
	rejectedChannel, err := c.bus.SubscribeToRejected(ctx)
	if err != nil {
		c.log.Error("failed to subscribe to rejection events", zap.Error(err))
		return
	}

	c.log.Info("decision consumer started, listening for finalized requests")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("decision consumer shutting down")
			return

		case event := <-approvedChannel:
			c.log.Info("approval request approved",
				zap.String("request_id", event.RequestID.String()),
				zap.String("workflow_code", event.WorkflowCode),
				zap.String("entity_type", event.EntityType),
				zap.String("entity_id", event.EntityID.String()))

		case event := <-rejectedChannel:
			c.log.Info("approval request rejected",
				zap.String("request_id", event.RequestID.String()),
				zap.String("workflow_code", event.WorkflowCode),
				zap.String("entity_type", event.EntityType),
				zap.String("entity_id", event.EntityID.String()),
				zap.String("reason", event.RejectionReason))
		}
	}
}
