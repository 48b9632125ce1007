package handler

import (
	"net/http"

	"go-approval/internal/api/dto"
	"go-approval/internal/domain"
	"go-approval/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkflowHandler struct {
	service service.WorkflowService
}

func NewWorkflowHandler(svc service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: svc}
}

func (h *WorkflowHandler) CreateWorkflow(c *gin.Context) {
	var req dto.CreateWorkflowRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requiresAll := true
	if req.RequiresAllStages != nil {
		requiresAll = *req.RequiresAllStages
	}

	in := service.CreateWorkflowInput{
		WorkflowCode:      req.WorkflowCode,
		WorkflowName:      req.WorkflowName,
		Description:       req.Description,
		Module:            domain.BusinessModule(req.Module),
		EntityType:        req.EntityType,
		RequiresAllStages: requiresAll,
	}
	for _, stage := range req.Stages {
		var level *domain.HierarchyLevel
		if stage.HierarchyLevel != nil {
			l := domain.HierarchyLevel(*stage.HierarchyLevel)
			level = &l
		}
		in.Stages = append(in.Stages, service.StageInput{
			StageOrder:     stage.StageOrder,
			ApproverType:   domain.ApproverType(stage.ApproverType),
			RoleID:         stage.RoleID,
			UserID:         stage.UserID,
			HierarchyLevel: level,
			IsOptional:     stage.IsOptional,
			AutoApprove:    stage.AutoApprove,
		})
	}

	workflow, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workflow)
}

func (h *WorkflowHandler) UpdateWorkflow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow id"})
		return
	}

	var req dto.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workflow, err := h.service.UpdateMetadata(c.Request.Context(), id, service.UpdateWorkflowInput{
		WorkflowName:      req.WorkflowName,
		Description:       req.Description,
		IsActive:          req.IsActive,
		RequiresAllStages: req.RequiresAllStages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflow)
}

func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow id"})
		return
	}

	workflow, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflow)
}

func (h *WorkflowHandler) GetWorkflowByCode(c *gin.Context) {
	workflow, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflow)
}

func (h *WorkflowHandler) ListWorkflows(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	var module *domain.BusinessModule
	if m := c.Query("module"); m != "" {
		mod := domain.BusinessModule(m)
		module = &mod
	}

	workflows, err := h.service.List(c.Request.Context(), activeOnly, module)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflows)
}
