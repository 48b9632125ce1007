package ports

import (
	"context"
	"errors"

	"go-approval/internal/domain"

	"github.com/google/uuid"
)

// Storage-level sentinel errors. Repositories translate driver errors into
// these so services stay free of gorm imports.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")

	// ErrStale is returned when a guarded update matched no rows, meaning the
	// row was concurrently moved out of the expected status.
	ErrStale = errors.New("record concurrently modified")
)

// WorkflowRepository persists workflow definitions and their stages.
type WorkflowRepository interface {
	// Create a definition together with all its stages in one transaction
	Create(ctx context.Context, workflow *domain.WorkflowDefinition) error

	// Get a definition with stages preloaded in stage order
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowDefinition, error)
	GetByCode(ctx context.Context, code string) (*domain.WorkflowDefinition, error)

	// UpdateMetadata writes name/description/active/requires_all_stages only;
	// stages are never touched after creation
	UpdateMetadata(ctx context.Context, workflow *domain.WorkflowDefinition) error

	// List definitions, optionally restricted to active ones and/or one module
	List(ctx context.Context, activeOnly bool, module *domain.BusinessModule) ([]domain.WorkflowDefinition, error)
}

// RequestRepository persists approval requests and stage executions.
type RequestRepository interface {
	// Create the request plus its full execution set in one transaction.
	// Returns ErrDuplicate when the one-pending-per-entity index fires.
	CreateWithExecutions(ctx context.Context, request *domain.ApprovalRequest, executions []domain.StageExecution) error

	// GetRequest loads a request with executions preloaded in stage order
	GetRequest(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error)

	GetExecution(ctx context.Context, id uuid.UUID) (*domain.StageExecution, error)

	ListExecutions(ctx context.Context, requestID uuid.UUID) ([]domain.StageExecution, error)

	// FindPendingByEntity returns the pending request for an entity, or
	// (nil, nil) when none exists
	FindPendingByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (*domain.ApprovalRequest, error)

	// FindPendingByApprover is the reviewer queue: pending executions assigned
	// to one user, most recent first
	FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]domain.StageExecution, error)

	// SaveDecision writes the decided execution and the recomputed request in
	// one transaction, guarded so a terminal row is never overwritten
	SaveDecision(ctx context.Context, request *domain.ApprovalRequest, execution *domain.StageExecution) error
}

// HierarchyDirectory resolves organizational-body administrators. The engine
// only consumes this capability; the org module owns the data.
type HierarchyDirectory interface {
	// Each lookup returns (nil, nil) when the body is unknown or has no admin
	FindUnitAdmin(ctx context.Context, unitID uuid.UUID) (*uuid.UUID, error)
	FindAreaAdmin(ctx context.Context, areaID uuid.UUID) (*uuid.UUID, error)
	FindForumAdmin(ctx context.Context, forumID uuid.UUID) (*uuid.UUID, error)
}

// EventBus announces finalized requests to downstream modules.
type EventBus interface {
	PublishRequestApproved(ctx context.Context, event domain.ApprovalRequestApprovedEvent) error
	PublishRequestRejected(ctx context.Context, event domain.ApprovalRequestRejectedEvent) error

	// Subscribe side, used by downstream activation handlers
	SubscribeToApproved(ctx context.Context) (<-chan domain.ApprovalRequestApprovedEvent, error)
	SubscribeToRejected(ctx context.Context) (<-chan domain.ApprovalRequestRejectedEvent, error)
}
