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

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new instance of RequestRepository
func NewRequestRepository(db *gorm.DB) ports.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) CreateWithExecutions(ctx context.Context, request *domain.ApprovalRequest, executions []domain.StageExecution) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Executions").Create(request).Error; err != nil {
			return err
		}
		if len(executions) > 0 {
			if err := tx.Create(&executions).Error; err != nil {
				return err
			}
		}
		return nil
	})

	// The partial unique index on (entity_type, entity_id) WHERE status =
	// 'PENDING' closes the race between two submissions that both passed the
	// pre-check before either committed.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicate
	}
	return err
}

func (r *requestRepository) GetRequest(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	var request domain.ApprovalRequest
	err := r.db.WithContext(ctx).
		Preload("Executions", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Where("id = ?", id).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) GetExecution(ctx context.Context, id uuid.UUID) (*domain.StageExecution, error) {
	var execution domain.StageExecution
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&execution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

func (r *requestRepository) ListExecutions(ctx context.Context, requestID uuid.UUID) ([]domain.StageExecution, error) {
	var executions []domain.StageExecution
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("stage_order ASC").
		Find(&executions).Error
	return executions, err
}

func (r *requestRepository) FindPendingByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (*domain.ApprovalRequest, error) {
	var request domain.ApprovalRequest
	err := r.db.WithContext(ctx).
		Preload("Executions", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Where("entity_type = ? AND entity_id = ? AND status = ?", entityType, entityID, domain.RequestPending).
		Order("requested_at DESC").
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // no pending request for this entity
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]domain.StageExecution, error) {
	var executions []domain.StageExecution
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_approver_id = ?", domain.ExecutionPending, approverID).
		Order("created_at DESC").
		Find(&executions).Error
	return executions, err
}

// SaveDecision persists the decided execution and the recomputed request
// together. Both updates are guarded on the row still being PENDING, so two
// near-simultaneous decisions on the same execution cannot both win.
func (r *requestRepository) SaveDecision(ctx context.Context, request *domain.ApprovalRequest, execution *domain.StageExecution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.StageExecution{}).
			Where("id = ? AND status = ?", execution.ID, domain.ExecutionPending).
			Updates(map[string]interface{}{
				"status":      execution.Status,
				"reviewed_by": execution.ReviewedBy,
				"reviewed_at": execution.ReviewedAt,
				"decision":    execution.Decision,
				"comments":    execution.Comments,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrStale // execution was decided by someone else first
		}

		result = tx.Model(&domain.ApprovalRequest{}).
			Where("id = ? AND status = ?", request.ID, domain.RequestPending).
			Updates(map[string]interface{}{
				"status":              request.Status,
				"current_stage_order": request.CurrentStageOrder,
				"approved_by":         request.ApprovedBy,
				"approved_at":         request.ApprovedAt,
				"rejected_by":         request.RejectedBy,
				"rejected_at":         request.RejectedAt,
				"rejection_reason":    request.RejectionReason,
				"updated_at":          time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrStale
		}
		return nil
	})
}
