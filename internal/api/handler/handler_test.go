package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-approval/internal/domain"
	"go-approval/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubApprovalService returns canned results so the tests can exercise the
// HTTP mapping in isolation.
type stubApprovalService struct {
	request   *domain.ApprovalRequest
	execution *domain.StageExecution
	err       error
}

func (s *stubApprovalService) Submit(ctx context.Context, in service.SubmitInput) (*domain.ApprovalRequest, error) {
	return s.request, s.err
}

func (s *stubApprovalService) ProcessDecision(ctx context.Context, in service.DecisionInput) (*domain.ApprovalRequest, *domain.StageExecution, error) {
	return s.request, s.execution, s.err
}

func (s *stubApprovalService) PendingForApprover(ctx context.Context, approverID uuid.UUID) ([]domain.StageExecution, error) {
	return nil, s.err
}

func (s *stubApprovalService) GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (*domain.ApprovalRequest, error) {
	return s.request, s.err
}

func (s *stubApprovalService) GetByID(ctx context.Context, requestID uuid.UUID) (*domain.ApprovalRequest, error) {
	return s.request, s.err
}

func newRouter(svc service.ApprovalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewApprovalHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/requests", h.SubmitRequest)
	api.POST("/executions/:id/decision", h.ProcessDecision)
	api.GET("/requests/:id", h.GetRequest)
	api.GET("/requests/entity/:entityType/:entityId", h.GetRequestByEntity)
	api.GET("/approvals/pending/:userId", h.ListPendingForApprover)
	return router
}

func submitBody() string {
	body, _ := json.Marshal(map[string]any{
		"workflow_code": "MEMBER_ACTIVATION",
		"entity_type":   "MEMBER",
		"entity_id":     uuid.New(),
		"requested_by":  uuid.New(),
	})
	return string(body)
}

func TestSubmitReturnsCreated(t *testing.T) {
	request := domain.NewApprovalRequest(uuid.New(), "MEMBER", uuid.New(), domain.OrgContext{}, uuid.New())
	router := newRouter(&stubApprovalService{request: request})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var got domain.ApprovalRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, request.ID, got.ID)
}

func TestSubmitMissingFieldsRejected(t *testing.T) {
	router := newRouter(&stubApprovalService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{"entity_type":"MEMBER"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.NotFoundf("workflow not found"), http.StatusNotFound},
		{"bad request", service.BadRequestf("already pending"), http.StatusBadRequest},
		{"forbidden", service.Forbiddenf("not the assigned approver"), http.StatusForbidden},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&stubApprovalService{err: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(submitBody()))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDecisionInvalidExecutionID(t *testing.T) {
	router := newRouter(&stubApprovalService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/executions/not-a-uuid/decision",
		strings.NewReader(`{"decision":"APPROVE","reviewed_by":"`+uuid.New().String()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecisionInvalidValueRejected(t *testing.T) {
	router := newRouter(&stubApprovalService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/executions/"+uuid.New().String()+"/decision",
		strings.NewReader(`{"decision":"DEFER","reviewed_by":"`+uuid.New().String()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRequestByEntityNotFound(t *testing.T) {
	router := newRouter(&stubApprovalService{err: service.NotFoundf("no pending approval")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/entity/MEMBER/"+uuid.New().String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
