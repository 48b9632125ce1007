package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type BusinessModule string

const (
	ModuleMembership   BusinessModule = "MEMBERSHIP"
	ModuleAgency       BusinessModule = "AGENCY"
	ModuleAccounts     BusinessModule = "ACCOUNTS"
	ModuleOrganization BusinessModule = "ORGANIZATION"
)

type ApproverType string

const (
	ApproverSpecificUser ApproverType = "SPECIFIC_USER"
	ApproverRole         ApproverType = "ROLE"
	ApproverHierarchy    ApproverType = "HIERARCHY"
)

type HierarchyLevel string

const (
	LevelUnit  HierarchyLevel = "UNIT"
	LevelArea  HierarchyLevel = "AREA"
	LevelForum HierarchyLevel = "FORUM"
)

// WorkflowDefinition is a named, ordered template of approval stages bound to
// a business module and entity type. Definitions are deactivated, never
// deleted, so past requests keep their audit trail.
type WorkflowDefinition struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	WorkflowCode string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"workflow_code"`
	WorkflowName string         `gorm:"type:varchar(100);not null" json:"workflow_name"`
	Description  string         `gorm:"type:text" json:"description"`
	Module       BusinessModule `gorm:"type:varchar(30);index;not null" json:"module"`
	EntityType   string         `gorm:"type:varchar(50);index;not null" json:"entity_type"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`

	// When false, approving the current stage finalizes the request even if
	// later stages are still pending.
	RequiresAllStages bool `gorm:"default:true" json:"requires_all_stages"`

	Stages []StageDefinition `gorm:"foreignKey:WorkflowID" json:"stages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageDefinition is one position in a workflow's sequence with the rule for
// determining its approver. Stage orders are unique within a workflow; gaps
// are tolerated, the order is only a sequencing key.
type StageDefinition struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	WorkflowID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"workflow_id"`
	StageOrder     int             `gorm:"not null" json:"stage_order"`
	ApproverType   ApproverType    `gorm:"type:varchar(20);not null" json:"approver_type"`
	RoleID         *uuid.UUID      `gorm:"type:uuid" json:"role_id,omitempty"`
	UserID         *uuid.UUID      `gorm:"type:uuid" json:"user_id,omitempty"`
	HierarchyLevel *HierarchyLevel `gorm:"type:varchar(10)" json:"hierarchy_level,omitempty"`
	IsOptional     bool            `gorm:"default:false" json:"is_optional"`
	AutoApprove    bool            `gorm:"default:false" json:"auto_approve"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- FACTORY ---
func NewWorkflowDefinition(code, name, description string, module BusinessModule, entityType string, requiresAllStages bool) *WorkflowDefinition {
	return &WorkflowDefinition{
		ID:                uuid.New(),
		WorkflowCode:      code,
		WorkflowName:      name,
		Description:       description,
		Module:            module,
		EntityType:        entityType,
		IsActive:          true,
		RequiresAllStages: requiresAllStages,
		CreatedAt:         time.Now(),
	}
}

func NewStageDefinition(workflowID uuid.UUID, order int, approverType ApproverType) *StageDefinition {
	return &StageDefinition{
		ID:           uuid.New(),
		WorkflowID:   workflowID,
		StageOrder:   order,
		ApproverType: approverType,
		CreatedAt:    time.Now(),
	}
}

// --- METHODS ---

// OrderedStages returns the stages sorted by stage order, lowest first.
func (w *WorkflowDefinition) OrderedStages() []StageDefinition {
	stages := make([]StageDefinition, len(w.Stages))
	copy(stages, w.Stages)
	sort.Slice(stages, func(i, j int) bool {
		return stages[i].StageOrder < stages[j].StageOrder
	})
	return stages
}

func (w *WorkflowDefinition) HasStages() bool {
	return len(w.Stages) > 0
}
