package handler

import (
	"encoding/json"
	"net/http"

	"go-approval/internal/api/dto"
	"go-approval/internal/domain"
	"go-approval/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApprovalHandler struct {
	service service.ApprovalService
}

func NewApprovalHandler(svc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: svc}
}

func (h *ApprovalHandler) SubmitRequest(c *gin.Context) {
	var req dto.SubmitApprovalRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.SubmitInput{
		WorkflowCode: req.WorkflowCode,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		OrgContext: domain.OrgContext{
			ForumID: req.ForumID,
			AreaID:  req.AreaID,
			UnitID:  req.UnitID,
		},
		RequestedBy: req.RequestedBy,
	}
	if req.RequestData != nil {
		payload, _ := json.Marshal(req.RequestData)
		in.RequestData = payload
	}

	request, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *ApprovalHandler) ProcessDecision(c *gin.Context) {
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	var req dto.ProcessDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, execution, err := h.service.ProcessDecision(c.Request.Context(), service.DecisionInput{
		ExecutionID: executionID,
		Decision:    domain.Decision(req.Decision),
		ReviewedBy:  req.ReviewedBy,
		Comments:    req.Comments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request, "execution": execution})
}

func (h *ApprovalHandler) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	request, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *ApprovalHandler) GetRequestByEntity(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}

	request, err := h.service.GetByEntity(c.Request.Context(), c.Param("entityType"), entityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *ApprovalHandler) ListPendingForApprover(c *gin.Context) {
	approverID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	executions, err := h.service.PendingForApprover(c.Request.Context(), approverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, executions)
}
