package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

type ExecutionStatus string

const (
	ExecutionPending  ExecutionStatus = "PENDING"
	ExecutionApproved ExecutionStatus = "APPROVED"
	ExecutionRejected ExecutionStatus = "REJECTED"
	ExecutionSkipped  ExecutionStatus = "SKIPPED"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"

	// DecisionAutoApprove is recorded when a stage flagged auto_approve is
	// settled at submission time without a reviewer.
	DecisionAutoApprove Decision = "AUTO_APPROVE"
)

// OrgContext is the organizational scope a request was submitted under. Any
// of the ids may be absent; approver resolution treats a missing id as
// "cannot resolve at that level".
type OrgContext struct {
	ForumID *uuid.UUID `json:"forum_id,omitempty"`
	AreaID  *uuid.UUID `json:"area_id,omitempty"`
	UnitID  *uuid.UUID `json:"unit_id,omitempty"`
}

// ApprovalRequest is one instantiation of a workflow against a specific
// entity. At most one PENDING request may exist per (entity_type, entity_id);
// a partial unique index backs the submission-time pre-check.
type ApprovalRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	WorkflowID uuid.UUID `gorm:"type:uuid;index;not null" json:"workflow_id"`
	EntityType string    `gorm:"type:varchar(50);index:idx_request_entity;not null" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;index:idx_request_entity;not null" json:"entity_id"`

	ForumID *uuid.UUID `gorm:"type:uuid" json:"forum_id,omitempty"`
	AreaID  *uuid.UUID `gorm:"type:uuid" json:"area_id,omitempty"`
	UnitID  *uuid.UUID `gorm:"type:uuid" json:"unit_id,omitempty"`

	// Snapshot of the submitted payload, kept for audit.
	RequestData datatypes.JSON `gorm:"type:jsonb" json:"request_data,omitempty"`

	RequestedBy uuid.UUID     `gorm:"type:uuid;not null" json:"requested_by"`
	RequestedAt time.Time     `gorm:"not null" json:"requested_at"`
	Status      RequestStatus `gorm:"type:varchar(20);index;default:'PENDING'" json:"status"`

	// CurrentStageOrder is a cursor into the ordered execution list. It always
	// targets an existing stage order of the workflow.
	CurrentStageOrder int `gorm:"not null" json:"current_stage_order"`

	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	Executions []StageExecution `gorm:"foreignKey:RequestID" json:"executions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageExecution is the per-stage record of a request's progress. The full
// set is created at submission time and never changes size afterward.
type StageExecution struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;index;not null" json:"request_id"`
	StageID   uuid.UUID `gorm:"type:uuid;not null" json:"stage_id"`

	// Denormalized from the stage definition so executions order without a join.
	StageOrder int `gorm:"not null" json:"stage_order"`

	Status ExecutionStatus `gorm:"type:varchar(20);index;default:'PENDING'" json:"status"`

	// AssignedApproverID is resolved once at submission and never re-resolved,
	// even if the underlying organizational admin changes before the stage is
	// reached. Nil means unassigned: any caller may decide the stage.
	AssignedApproverID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_approver_id,omitempty"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Decision   *Decision  `gorm:"type:varchar(20)" json:"decision,omitempty"`
	Comments   string     `gorm:"type:text" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- FACTORY ---
func NewApprovalRequest(workflowID uuid.UUID, entityType string, entityID uuid.UUID, orgCtx OrgContext, requestedBy uuid.UUID) *ApprovalRequest {
	return &ApprovalRequest{
		ID:          uuid.New(),
		WorkflowID:  workflowID,
		EntityType:  entityType,
		EntityID:    entityID,
		ForumID:     orgCtx.ForumID,
		AreaID:      orgCtx.AreaID,
		UnitID:      orgCtx.UnitID,
		RequestedBy: requestedBy,
		RequestedAt: time.Now(),
		Status:      RequestPending,
		CreatedAt:   time.Now(),
	}
}

func NewStageExecution(requestID uuid.UUID, stage StageDefinition, assignedApprover *uuid.UUID) *StageExecution {
	return &StageExecution{
		ID:                 uuid.New(),
		RequestID:          requestID,
		StageID:            stage.ID,
		StageOrder:         stage.StageOrder,
		Status:             ExecutionPending,
		AssignedApproverID: assignedApprover,
		CreatedAt:          time.Now(),
	}
}

// --- METHODS ---

func (r *ApprovalRequest) IsFinished() bool {
	return r.Status != RequestPending
}

func (r *ApprovalRequest) MarkApproved(by *uuid.UUID, at time.Time) {
	r.Status = RequestApproved
	r.ApprovedBy = by
	r.ApprovedAt = &at
}

func (r *ApprovalRequest) MarkRejected(by uuid.UUID, reason string, at time.Time) {
	r.Status = RequestRejected
	r.RejectedBy = &by
	r.RejectedAt = &at
	r.RejectionReason = reason
}

func (e *StageExecution) IsSettled() bool {
	return e.Status == ExecutionApproved || e.Status == ExecutionSkipped
}

func (e *StageExecution) Approve(by uuid.UUID, comments string, at time.Time) {
	decision := DecisionApprove
	e.Status = ExecutionApproved
	e.ReviewedBy = &by
	e.ReviewedAt = &at
	e.Decision = &decision
	e.Comments = comments
}

func (e *StageExecution) Reject(by uuid.UUID, comments string, at time.Time) {
	decision := DecisionReject
	e.Status = ExecutionRejected
	e.ReviewedBy = &by
	e.ReviewedAt = &at
	e.Decision = &decision
	e.Comments = comments
}

// AutoApprove settles the execution at submission time without a reviewer.
func (e *StageExecution) AutoApprove(at time.Time) {
	decision := DecisionAutoApprove
	e.Status = ExecutionApproved
	e.ReviewedAt = &at
	e.Decision = &decision
}
