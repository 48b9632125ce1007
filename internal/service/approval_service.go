package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-approval/internal/core/ports"
	"go-approval/internal/domain"
	"go-approval/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type SubmitInput struct {
	WorkflowCode string
	EntityType   string
	EntityID     uuid.UUID
	OrgContext   domain.OrgContext
	RequestedBy  uuid.UUID
	RequestData  datatypes.JSON
}

type DecisionInput struct {
	ExecutionID uuid.UUID
	Decision    domain.Decision
	ReviewedBy  uuid.UUID
	Comments    string
}

type ApprovalService interface {
	// Submit instantiates a workflow against an entity: one request plus one
	// execution per stage, created atomically
	Submit(ctx context.Context, in SubmitInput) (*domain.ApprovalRequest, error)

	// ProcessDecision records an approve/reject on one execution and drives
	// the request's state transition
	ProcessDecision(ctx context.Context, in DecisionInput) (*domain.ApprovalRequest, *domain.StageExecution, error)

	// Read-only lookups
	PendingForApprover(ctx context.Context, approverID uuid.UUID) ([]domain.StageExecution, error)
	GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (*domain.ApprovalRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*domain.ApprovalRequest, error)
}

// The Implementation
type approvalService struct {
	workflowRepo ports.WorkflowRepository
	requestRepo  ports.RequestRepository
	resolver     *ApproverResolver
	bus          ports.EventBus
	log          *zap.Logger
}

// Constructor
func NewApprovalService(
	workflowRepo ports.WorkflowRepository,
	requestRepo ports.RequestRepository,
	resolver *ApproverResolver,
	bus ports.EventBus,
	log *zap.Logger,
) ApprovalService {
	return &approvalService{
		workflowRepo: workflowRepo,
		requestRepo:  requestRepo,
		resolver:     resolver,
		bus:          bus,
		log:          log,
	}
}

func (s *approvalService) Submit(ctx context.Context, in SubmitInput) (*domain.ApprovalRequest, error) {
	// 1. FETCH: workflow must exist, be active, and have stages
	workflow, err := s.workflowRepo.GetByCode(ctx, in.WorkflowCode)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, NotFoundf("workflow %q not found", in.WorkflowCode)
		}
		return nil, err
	}
	if !workflow.IsActive {
		return nil, BadRequestf("workflow %q is inactive", in.WorkflowCode)
	}
	if !workflow.HasStages() {
		return nil, BadRequestf("workflow %q has no stages configured", in.WorkflowCode)
	}

	// 2. PRE-CHECK: one pending request per entity. The partial unique index
	// backs this against submissions racing past the check.
	existing, err := s.requestRepo.FindPendingByEntity(ctx, in.EntityType, in.EntityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, BadRequestf("approval already pending for %s %s", in.EntityType, in.EntityID)
	}

	// 3. BUILD: request cursor starts at the lowest stage order
	stages := workflow.OrderedStages()
	request := domain.NewApprovalRequest(workflow.ID, in.EntityType, in.EntityID, in.OrgContext, in.RequestedBy)
	request.RequestData = in.RequestData
	request.CurrentStageOrder = stages[0].StageOrder

	// 4. RESOLVE: snapshot an approver per stage; auto-approve stages settle
	// immediately with no reviewer
	now := time.Now()
	executions := make([]domain.StageExecution, 0, len(stages))
	for _, stage := range stages {
		approver, err := s.resolver.Resolve(ctx, stage, in.OrgContext)
		if err != nil {
			return nil, err
		}
		execution := domain.NewStageExecution(request.ID, stage, approver)
		if stage.AutoApprove {
			execution.AutoApprove(now)
		}
		executions = append(executions, *execution)
	}

	// 5. PROGRESS: a fully auto-approved workflow finalizes inside the
	// submission itself
	finalized := applyProgress(request, workflow.RequiresAllStages, executions, nil, now)

	// 6. TRANSACTION: request + executions saved together
	if err := s.requestRepo.CreateWithExecutions(ctx, request, executions); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, BadRequestf("approval already pending for %s %s", in.EntityType, in.EntityID)
		}
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues(workflow.WorkflowCode).Inc()
	s.log.Info("approval request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("workflow_code", workflow.WorkflowCode),
		zap.String("entity_type", in.EntityType),
		zap.String("entity_id", in.EntityID.String()))

	if finalized {
		s.announce(ctx, workflow, request)
	}

	request.Executions = executions
	return request, nil
}

func (s *approvalService) ProcessDecision(ctx context.Context, in DecisionInput) (*domain.ApprovalRequest, *domain.StageExecution, error) {
	if in.Decision != domain.DecisionApprove && in.Decision != domain.DecisionReject {
		return nil, nil, BadRequestf("unknown decision %q", in.Decision)
	}

	// 1. FETCH: execution must exist and still be pending
	execution, err := s.requestRepo.GetExecution(ctx, in.ExecutionID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, NotFoundf("execution %s not found", in.ExecutionID)
		}
		return nil, nil, err
	}
	if execution.Status != domain.ExecutionPending {
		return nil, nil, BadRequestf("execution already %s", strings.ToLower(string(execution.Status)))
	}

	// 2. FETCH: the owning request must still be pending (terminal requests
	// reject any replay)
	request, err := s.requestRepo.GetRequest(ctx, execution.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, nil, BadRequestf("request already %s", strings.ToLower(string(request.Status)))
	}

	// 3. AUTHORIZE: a non-nil assignee must match the reviewer. A nil assignee
	// permits any caller, the escape hatch for unassigned stages.
	if execution.AssignedApproverID != nil && *execution.AssignedApproverID != in.ReviewedBy {
		return nil, nil, Forbiddenf("user %s is not the assigned approver for execution %s", in.ReviewedBy, in.ExecutionID)
	}

	workflow, err := s.workflowRepo.GetByID(ctx, request.WorkflowID)
	if err != nil {
		return nil, nil, err
	}

	// 4. TRANSITION
	now := time.Now()
	switch in.Decision {
	case domain.DecisionReject:
		// Single-stage veto: the whole request rejects immediately. Later
		// executions stay pending as audit rows, never auto-cancelled.
		execution.Reject(in.ReviewedBy, in.Comments, now)
		request.MarkRejected(in.ReviewedBy, in.Comments, now)

	case domain.DecisionApprove:
		execution.Approve(in.ReviewedBy, in.Comments, now)
	}

	// Keep the preloaded execution set in sync with the decided row
	for i := range request.Executions {
		if request.Executions[i].ID == execution.ID {
			request.Executions[i] = *execution
		}
	}

	if in.Decision == domain.DecisionApprove {
		applyProgress(request, workflow.RequiresAllStages, request.Executions, &in.ReviewedBy, now)
	}

	// 5. TRANSACTION: execution + request saved together
	if err := s.requestRepo.SaveDecision(ctx, request, execution); err != nil {
		if errors.Is(err, ports.ErrStale) {
			return nil, nil, BadRequestf("execution %s was already decided", in.ExecutionID)
		}
		return nil, nil, err
	}

	metrics.DecisionsTotal.WithLabelValues(workflow.WorkflowCode, string(in.Decision)).Inc()
	s.log.Info("approval decision processed",
		zap.String("execution_id", execution.ID.String()),
		zap.String("request_id", request.ID.String()),
		zap.String("decision", string(in.Decision)),
		zap.String("request_status", string(request.Status)))

	if request.IsFinished() {
		s.announce(ctx, workflow, request)
	}

	return request, execution, nil
}

func (s *approvalService) PendingForApprover(ctx context.Context, approverID uuid.UUID) ([]domain.StageExecution, error) {
	return s.requestRepo.FindPendingByApprover(ctx, approverID)
}

func (s *approvalService) GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (*domain.ApprovalRequest, error) {
	request, err := s.requestRepo.FindPendingByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, NotFoundf("no pending approval for %s %s", entityType, entityID)
	}
	return request, nil
}

func (s *approvalService) GetByID(ctx context.Context, requestID uuid.UUID) (*domain.ApprovalRequest, error) {
	request, err := s.requestRepo.GetRequest(ctx, requestID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, NotFoundf("request %s not found", requestID)
	}
	return request, err
}

// applyProgress recomputes the request's state from its execution set after
// approvals settled. Returns true when the request finalized as approved.
//
// The cursor only ever targets an existing stage order: it moves to the
// lowest stage order that still has a pending execution, and when none
// remains the request finalizes instead of pointing past the end.
func applyProgress(request *domain.ApprovalRequest, requiresAllStages bool, executions []domain.StageExecution, by *uuid.UUID, at time.Time) bool {
	allSettled := true
	currentApproved := false
	for _, execution := range executions {
		if !execution.IsSettled() {
			allSettled = false
		}
		if execution.StageOrder == request.CurrentStageOrder && execution.Status == domain.ExecutionApproved {
			currentApproved = true
		}
	}

	if allSettled || (!requiresAllStages && currentApproved) {
		request.MarkApproved(by, at)
		return true
	}

	next := 0
	for _, execution := range executions {
		if execution.Status != domain.ExecutionPending {
			continue
		}
		if next == 0 || execution.StageOrder < next {
			next = execution.StageOrder
		}
	}
	if next == 0 {
		// No pending execution left to point at; finalize rather than
		// advance past the end.
		request.MarkApproved(by, at)
		return true
	}

	request.CurrentStageOrder = next
	return false
}

// announce publishes the finalization event. Delivery is fire-and-forget:
// a publish failure is logged, never surfaced to the approver's call.
func (s *approvalService) announce(ctx context.Context, workflow *domain.WorkflowDefinition, request *domain.ApprovalRequest) {
	switch request.Status {
	case domain.RequestApproved:
		event := domain.ApprovalRequestApprovedEvent{
			RequestID:    request.ID,
			WorkflowCode: workflow.WorkflowCode,
			EntityType:   request.EntityType,
			EntityID:     request.EntityID,
			ApprovedBy:   request.ApprovedBy,
			ApprovedAt:   *request.ApprovedAt,
		}
		if err := s.bus.PublishRequestApproved(ctx, event); err != nil {
			s.log.Warn("failed to publish approval event",
				zap.String("request_id", request.ID.String()), zap.Error(err))
		}

	case domain.RequestRejected:
		event := domain.ApprovalRequestRejectedEvent{
			RequestID:       request.ID,
			WorkflowCode:    workflow.WorkflowCode,
			EntityType:      request.EntityType,
			EntityID:        request.EntityID,
			RejectedBy:      *request.RejectedBy,
			RejectedAt:      *request.RejectedAt,
			RejectionReason: request.RejectionReason,
		}
		if err := s.bus.PublishRequestRejected(ctx, event); err != nil {
			s.log.Warn("failed to publish rejection event",
				zap.String("request_id", request.ID.String()), zap.Error(err))
		}
	}

	metrics.FinalizedTotal.WithLabelValues(workflow.WorkflowCode, string(request.Status)).Inc()
}
