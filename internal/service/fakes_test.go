package service

import (
	"context"
	"sort"

	"go-approval/internal/core/ports"
	"go-approval/internal/domain"

	"github.com/google/uuid"
)

// In-memory fakes for the ports. The request fake enforces the same
// one-pending-per-entity constraint the partial unique index provides, so
// race-oriented tests can assert storage-layer behavior.

type fakeWorkflowRepo struct {
	workflows map[uuid.UUID]domain.WorkflowDefinition
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{workflows: make(map[uuid.UUID]domain.WorkflowDefinition)}
}

func (r *fakeWorkflowRepo) Create(ctx context.Context, workflow *domain.WorkflowDefinition) error {
	for _, existing := range r.workflows {
		if existing.WorkflowCode == workflow.WorkflowCode {
			return ports.ErrDuplicate
		}
	}
	r.workflows[workflow.ID] = *workflow
	return nil
}

func (r *fakeWorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowDefinition, error) {
	workflow, exists := r.workflows[id]
	if !exists {
		return nil, ports.ErrNotFound
	}
	clone := workflow
	return &clone, nil
}

func (r *fakeWorkflowRepo) GetByCode(ctx context.Context, code string) (*domain.WorkflowDefinition, error) {
	for _, workflow := range r.workflows {
		if workflow.WorkflowCode == code {
			clone := workflow
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *fakeWorkflowRepo) UpdateMetadata(ctx context.Context, workflow *domain.WorkflowDefinition) error {
	stored, exists := r.workflows[workflow.ID]
	if !exists {
		return ports.ErrNotFound
	}
	stored.WorkflowName = workflow.WorkflowName
	stored.Description = workflow.Description
	stored.IsActive = workflow.IsActive
	stored.RequiresAllStages = workflow.RequiresAllStages
	r.workflows[workflow.ID] = stored
	return nil
}

func (r *fakeWorkflowRepo) List(ctx context.Context, activeOnly bool, module *domain.BusinessModule) ([]domain.WorkflowDefinition, error) {
	var result []domain.WorkflowDefinition
	for _, workflow := range r.workflows {
		if activeOnly && !workflow.IsActive {
			continue
		}
		if module != nil && workflow.Module != *module {
			continue
		}
		result = append(result, workflow)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WorkflowCode < result[j].WorkflowCode
	})
	return result, nil
}

type fakeRequestRepo struct {
	requests   map[uuid.UUID]domain.ApprovalRequest
	executions map[uuid.UUID]domain.StageExecution

	// hidePending makes the pre-check blind, simulating two submissions
	// racing past it before either commits
	hidePending bool
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests:   make(map[uuid.UUID]domain.ApprovalRequest),
		executions: make(map[uuid.UUID]domain.StageExecution),
	}
}

func (r *fakeRequestRepo) CreateWithExecutions(ctx context.Context, request *domain.ApprovalRequest, executions []domain.StageExecution) error {
	if request.Status == domain.RequestPending {
		for _, existing := range r.requests {
			if existing.EntityType == request.EntityType &&
				existing.EntityID == request.EntityID &&
				existing.Status == domain.RequestPending {
				return ports.ErrDuplicate // partial unique index fires
			}
		}
	}
	stored := *request
	stored.Executions = nil
	r.requests[request.ID] = stored
	for _, execution := range executions {
		r.executions[execution.ID] = execution
	}
	return nil
}

func (r *fakeRequestRepo) GetRequest(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	request, exists := r.requests[id]
	if !exists {
		return nil, ports.ErrNotFound
	}
	clone := request
	clone.Executions = r.executionsFor(id)
	return &clone, nil
}

func (r *fakeRequestRepo) GetExecution(ctx context.Context, id uuid.UUID) (*domain.StageExecution, error) {
	execution, exists := r.executions[id]
	if !exists {
		return nil, ports.ErrNotFound
	}
	clone := execution
	return &clone, nil
}

func (r *fakeRequestRepo) ListExecutions(ctx context.Context, requestID uuid.UUID) ([]domain.StageExecution, error) {
	return r.executionsFor(requestID), nil
}

func (r *fakeRequestRepo) FindPendingByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (*domain.ApprovalRequest, error) {
	if r.hidePending {
		return nil, nil
	}
	for id, request := range r.requests {
		if request.EntityType == entityType && request.EntityID == entityID && request.Status == domain.RequestPending {
			clone := request
			clone.Executions = r.executionsFor(id)
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]domain.StageExecution, error) {
	var result []domain.StageExecution
	for _, execution := range r.executions {
		if execution.Status == domain.ExecutionPending &&
			execution.AssignedApproverID != nil && *execution.AssignedApproverID == approverID {
			result = append(result, execution)
		}
	}
	return result, nil
}

func (r *fakeRequestRepo) SaveDecision(ctx context.Context, request *domain.ApprovalRequest, execution *domain.StageExecution) error {
	storedExecution, exists := r.executions[execution.ID]
	if !exists || storedExecution.Status != domain.ExecutionPending {
		return ports.ErrStale
	}
	storedRequest, exists := r.requests[request.ID]
	if !exists || storedRequest.Status != domain.RequestPending {
		return ports.ErrStale
	}
	r.executions[execution.ID] = *execution
	stored := *request
	stored.Executions = nil
	r.requests[request.ID] = stored
	return nil
}

func (r *fakeRequestRepo) executionsFor(requestID uuid.UUID) []domain.StageExecution {
	var result []domain.StageExecution
	for _, execution := range r.executions {
		if execution.RequestID == requestID {
			result = append(result, execution)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StageOrder < result[j].StageOrder
	})
	return result
}

type fakeHierarchy struct {
	unitAdmins  map[uuid.UUID]uuid.UUID
	areaAdmins  map[uuid.UUID]uuid.UUID
	forumAdmins map[uuid.UUID]uuid.UUID
}

func newFakeHierarchy() *fakeHierarchy {
	return &fakeHierarchy{
		unitAdmins:  make(map[uuid.UUID]uuid.UUID),
		areaAdmins:  make(map[uuid.UUID]uuid.UUID),
		forumAdmins: make(map[uuid.UUID]uuid.UUID),
	}
}

func (h *fakeHierarchy) FindUnitAdmin(ctx context.Context, unitID uuid.UUID) (*uuid.UUID, error) {
	if admin, exists := h.unitAdmins[unitID]; exists {
		return &admin, nil
	}
	return nil, nil
}

func (h *fakeHierarchy) FindAreaAdmin(ctx context.Context, areaID uuid.UUID) (*uuid.UUID, error) {
	if admin, exists := h.areaAdmins[areaID]; exists {
		return &admin, nil
	}
	return nil, nil
}

func (h *fakeHierarchy) FindForumAdmin(ctx context.Context, forumID uuid.UUID) (*uuid.UUID, error) {
	if admin, exists := h.forumAdmins[forumID]; exists {
		return &admin, nil
	}
	return nil, nil
}

type fakeEventBus struct {
	approved []domain.ApprovalRequestApprovedEvent
	rejected []domain.ApprovalRequestRejectedEvent
}

func (b *fakeEventBus) PublishRequestApproved(ctx context.Context, event domain.ApprovalRequestApprovedEvent) error {
	b.approved = append(b.approved, event)
	return nil
}

func (b *fakeEventBus) PublishRequestRejected(ctx context.Context, event domain.ApprovalRequestRejectedEvent) error {
	b.rejected = append(b.rejected, event)
	return nil
}

func (b *fakeEventBus) SubscribeToApproved(ctx context.Context) (<-chan domain.ApprovalRequestApprovedEvent, error) {
	channel := make(chan domain.ApprovalRequestApprovedEvent)
	close(channel)
	return channel, nil
}

func (b *fakeEventBus) SubscribeToRejected(ctx context.Context) (<-chan domain.ApprovalRequestRejectedEvent, error) {
	channel := make(chan domain.ApprovalRequestRejectedEvent)
	close(channel)
	return channel, nil
}
