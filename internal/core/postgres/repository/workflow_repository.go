package repository

import (
	"context"
	"errors"
	"time"

	"go-approval/internal/core/ports"
	"go-approval/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type workflowRepository struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new instance of WorkflowRepository
func NewWorkflowRepository(db *gorm.DB) ports.WorkflowRepository {
	return &workflowRepository{db: db}
}

func (r *workflowRepository) Create(ctx context.Context, workflow *domain.WorkflowDefinition) error {
	err := r.db.WithContext(ctx).Create(workflow).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicate
	}
	return err
}

func (r *workflowRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowDefinition, error) {
	var workflow domain.WorkflowDefinition
	err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Where("id = ?", id).
		First(&workflow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *workflowRepository) GetByCode(ctx context.Context, code string) (*domain.WorkflowDefinition, error) {
	var workflow domain.WorkflowDefinition
	err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Where("workflow_code = ?", code).
		First(&workflow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *workflowRepository) UpdateMetadata(ctx context.Context, workflow *domain.WorkflowDefinition) error {
	return r.db.WithContext(ctx).
		Model(&domain.WorkflowDefinition{}).
		Where("id = ?", workflow.ID).
		Updates(map[string]interface{}{
			"workflow_name":       workflow.WorkflowName,
			"description":         workflow.Description,
			"is_active":           workflow.IsActive,
			"requires_all_stages": workflow.RequiresAllStages,
			"updated_at":          time.Now(),
		}).Error
}

func (r *workflowRepository) List(ctx context.Context, activeOnly bool, module *domain.BusinessModule) ([]domain.WorkflowDefinition, error) {
	query := r.db.WithContext(ctx).Model(&domain.WorkflowDefinition{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if module != nil {
		query = query.Where("module = ?", *module)
	}

	var workflows []domain.WorkflowDefinition
	err := query.Order("workflow_code ASC").Find(&workflows).Error
	return workflows, err
}
