package service

import (
	"context"
	"errors"

	"go-approval/internal/core/ports"
	"go-approval/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StageInput struct {
	StageOrder     int
	ApproverType   domain.ApproverType
	RoleID         *uuid.UUID
	UserID         *uuid.UUID
	HierarchyLevel *domain.HierarchyLevel
	IsOptional     bool
	AutoApprove    bool
}

type CreateWorkflowInput struct {
	WorkflowCode      string
	WorkflowName      string
	Description       string
	Module            domain.BusinessModule
	EntityType        string
	RequiresAllStages bool
	Stages            []StageInput
}

type UpdateWorkflowInput struct {
	WorkflowName      *string
	Description       *string
	IsActive          *bool
	RequiresAllStages *bool
}

type WorkflowService interface {
	Create(ctx context.Context, in CreateWorkflowInput) (*domain.WorkflowDefinition, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, in UpdateWorkflowInput) (*domain.WorkflowDefinition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowDefinition, error)
	GetByCode(ctx context.Context, code string) (*domain.WorkflowDefinition, error)
	List(ctx context.Context, activeOnly bool, module *domain.BusinessModule) ([]domain.WorkflowDefinition, error)
}

// The Implementation
type workflowService struct {
	repo ports.WorkflowRepository
	log  *zap.Logger
}

// Constructor
func NewWorkflowService(repo ports.WorkflowRepository, log *zap.Logger) WorkflowService {
	return &workflowService{
		repo: repo,
		log:  log,
	}
}

func (s *workflowService) Create(ctx context.Context, in CreateWorkflowInput) (*domain.WorkflowDefinition, error) {
	// 1. VALIDATE: at least one stage, unique positive stage orders
	if len(in.Stages) == 0 {
		return nil, BadRequestf("workflow %q has no stages configured", in.WorkflowCode)
	}
	seenOrders := make(map[int]bool, len(in.Stages))
	for _, stage := range in.Stages {
		if stage.StageOrder <= 0 {
			return nil, BadRequestf("stage order %d must be positive", stage.StageOrder)
		}
		if seenOrders[stage.StageOrder] {
			return nil, BadRequestf("duplicate stage order %d", stage.StageOrder)
		}
		seenOrders[stage.StageOrder] = true
	}

	// 2. BUILD: definition plus its stages
	workflow := domain.NewWorkflowDefinition(
		in.WorkflowCode,
		in.WorkflowName,
		in.Description,
		in.Module,
		in.EntityType,
		in.RequiresAllStages,
	)
	for _, stageIn := range in.Stages {
		stage := domain.NewStageDefinition(workflow.ID, stageIn.StageOrder, stageIn.ApproverType)
		stage.RoleID = stageIn.RoleID
		stage.UserID = stageIn.UserID
		stage.HierarchyLevel = stageIn.HierarchyLevel
		stage.IsOptional = stageIn.IsOptional
		stage.AutoApprove = stageIn.AutoApprove
		workflow.Stages = append(workflow.Stages, *stage)
	}

	// 3. SAVE: definition and stages go together
	if err := s.repo.Create(ctx, workflow); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, BadRequestf("workflow code %q already exists", in.WorkflowCode)
		}
		return nil, err
	}

	s.log.Info("workflow definition created",
		zap.String("workflow_code", workflow.WorkflowCode),
		zap.String("module", string(workflow.Module)),
		zap.Int("stages", len(workflow.Stages)))

	return workflow, nil
}

func (s *workflowService) UpdateMetadata(ctx context.Context, id uuid.UUID, in UpdateWorkflowInput) (*domain.WorkflowDefinition, error) {
	workflow, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, NotFoundf("workflow %s not found", id)
		}
		return nil, err
	}

	if in.WorkflowName != nil {
		workflow.WorkflowName = *in.WorkflowName
	}
	if in.Description != nil {
		workflow.Description = *in.Description
	}
	if in.IsActive != nil {
		workflow.IsActive = *in.IsActive
	}
	if in.RequiresAllStages != nil {
		workflow.RequiresAllStages = *in.RequiresAllStages
	}

	if err := s.repo.UpdateMetadata(ctx, workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

func (s *workflowService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowDefinition, error) {
	workflow, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, NotFoundf("workflow %s not found", id)
	}
	return workflow, err
}

func (s *workflowService) GetByCode(ctx context.Context, code string) (*domain.WorkflowDefinition, error) {
	workflow, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, NotFoundf("workflow %q not found", code)
	}
	return workflow, err
}

func (s *workflowService) List(ctx context.Context, activeOnly bool, module *domain.BusinessModule) ([]domain.WorkflowDefinition, error) {
	return s.repo.List(ctx, activeOnly, module)
}
