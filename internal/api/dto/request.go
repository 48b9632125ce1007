package dto

import "github.com/google/uuid"

type StageDTO struct {
	StageOrder     int        `json:"stage_order" binding:"required,min=1"`
	ApproverType   string     `json:"approver_type" binding:"required,oneof=SPECIFIC_USER ROLE HIERARCHY"`
	RoleID         *uuid.UUID `json:"role_id"`
	UserID         *uuid.UUID `json:"user_id"`
	HierarchyLevel *string    `json:"hierarchy_level" binding:"omitempty,oneof=UNIT AREA FORUM"`
	IsOptional     bool       `json:"is_optional"`
	AutoApprove    bool       `json:"auto_approve"`
}

type CreateWorkflowRequest struct {
	WorkflowCode      string     `json:"workflow_code" binding:"required"`
	WorkflowName      string     `json:"workflow_name" binding:"required"`
	Description       string     `json:"description"`
	Module            string     `json:"module" binding:"required,oneof=MEMBERSHIP AGENCY ACCOUNTS ORGANIZATION"`
	EntityType        string     `json:"entity_type" binding:"required"`
	RequiresAllStages *bool      `json:"requires_all_stages"`
	Stages            []StageDTO `json:"stages" binding:"required,min=1,dive"`
}

type UpdateWorkflowRequest struct {
	WorkflowName      *string `json:"workflow_name"`
	Description       *string `json:"description"`
	IsActive          *bool   `json:"is_active"`
	RequiresAllStages *bool   `json:"requires_all_stages"`
}

type SubmitApprovalRequest struct {
	WorkflowCode string         `json:"workflow_code" binding:"required"`
	EntityType   string         `json:"entity_type" binding:"required"`
	EntityID     uuid.UUID      `json:"entity_id" binding:"required"`
	ForumID      *uuid.UUID     `json:"forum_id"`
	AreaID       *uuid.UUID     `json:"area_id"`
	UnitID       *uuid.UUID     `json:"unit_id"`
	RequestedBy  uuid.UUID      `json:"requested_by" binding:"required"`
	RequestData  map[string]any `json:"request_data"`
}

type ProcessDecisionRequest struct {
	Decision   string    `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	ReviewedBy uuid.UUID `json:"reviewed_by" binding:"required"`
	Comments   string    `json:"comments"`
}
