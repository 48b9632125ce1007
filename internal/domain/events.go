package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalRequestApprovedEvent is published to Redis Pub/Sub when a request
// finalizes as approved. Downstream modules (member activation, agent
// activation, ...) consume it asynchronously.
type ApprovalRequestApprovedEvent struct {
	RequestID    uuid.UUID  `json:"request_id"`
	WorkflowCode string     `json:"workflow_code"`
	EntityType   string     `json:"entity_type"`
	EntityID     uuid.UUID  `json:"entity_id"`
	ApprovedBy   *uuid.UUID `json:"approved_by,omitempty"` // nil when auto-approved at submission
	ApprovedAt   time.Time  `json:"approved_at"`
}

// ApprovalRequestRejectedEvent is published when a request finalizes as
// rejected. A single stage rejection rejects the whole request.
type ApprovalRequestRejectedEvent struct {
	RequestID       uuid.UUID `json:"request_id"`
	WorkflowCode    string    `json:"workflow_code"`
	EntityType      string    `json:"entity_type"`
	EntityID        uuid.UUID `json:"entity_id"`
	RejectedBy      uuid.UUID `json:"rejected_by"`
	RejectedAt      time.Time `json:"rejected_at"`
	RejectionReason string    `json:"rejection_reason"`
}
