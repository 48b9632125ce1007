package service

import (
	"context"
	"testing"

	"go-approval/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWorkflowService(repo *fakeWorkflowRepo) WorkflowService {
	return NewWorkflowService(repo, zap.NewNop())
}

func twoStageInput(code string) CreateWorkflowInput {
	return CreateWorkflowInput{
		WorkflowCode:      code,
		WorkflowName:      "Member Activation",
		Module:            domain.ModuleMembership,
		EntityType:        "MEMBER",
		RequiresAllStages: true,
		Stages: []StageInput{
			{StageOrder: 1, ApproverType: domain.ApproverHierarchy, HierarchyLevel: levelPtr(domain.LevelUnit)},
			{StageOrder: 2, ApproverType: domain.ApproverHierarchy, HierarchyLevel: levelPtr(domain.LevelArea)},
		},
	}
}

func TestCreateWorkflow(t *testing.T) {
	svc := newWorkflowService(newFakeWorkflowRepo())

	workflow, err := svc.Create(context.Background(), twoStageInput("MEMBER_ACTIVATION"))
	require.NoError(t, err)

	assert.Equal(t, "MEMBER_ACTIVATION", workflow.WorkflowCode)
	assert.True(t, workflow.IsActive)
	assert.Len(t, workflow.Stages, 2)
	for _, stage := range workflow.Stages {
		assert.Equal(t, workflow.ID, stage.WorkflowID)
	}
}

func TestCreateWorkflowDuplicateCode(t *testing.T) {
	svc := newWorkflowService(newFakeWorkflowRepo())

	_, err := svc.Create(context.Background(), twoStageInput("MEMBER_ACTIVATION"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), twoStageInput("MEMBER_ACTIVATION"))
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestCreateWorkflowValidation(t *testing.T) {
	svc := newWorkflowService(newFakeWorkflowRepo())

	tests := []struct {
		name   string
		mutate func(*CreateWorkflowInput)
	}{
		{"no stages", func(in *CreateWorkflowInput) { in.Stages = nil }},
		{"duplicate stage order", func(in *CreateWorkflowInput) { in.Stages[1].StageOrder = 1 }},
		{"non-positive stage order", func(in *CreateWorkflowInput) { in.Stages[0].StageOrder = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := twoStageInput("AGENT_ACTIVATION")
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, KindBadRequest, KindOf(err))
		})
	}
}

func TestUpdateWorkflowMetadata(t *testing.T) {
	repo := newFakeWorkflowRepo()
	svc := newWorkflowService(repo)

	created, err := svc.Create(context.Background(), twoStageInput("MEMBER_ACTIVATION"))
	require.NoError(t, err)

	name := "Member Activation v2"
	inactive := false
	updated, err := svc.UpdateMetadata(context.Background(), created.ID, UpdateWorkflowInput{
		WorkflowName: &name,
		IsActive:     &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Member Activation v2", updated.WorkflowName)
	assert.False(t, updated.IsActive)
	// Untouched fields keep their values
	assert.True(t, updated.RequiresAllStages)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Member Activation v2", stored.WorkflowName)
}

func TestUpdateWorkflowNotFound(t *testing.T) {
	svc := newWorkflowService(newFakeWorkflowRepo())

	name := "whatever"
	_, err := svc.UpdateMetadata(context.Background(), uuid.New(), UpdateWorkflowInput{WorkflowName: &name})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetWorkflowByCodeNotFound(t *testing.T) {
	svc := newWorkflowService(newFakeWorkflowRepo())

	_, err := svc.GetByCode(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListWorkflowsFilters(t *testing.T) {
	svc := newWorkflowService(newFakeWorkflowRepo())

	_, err := svc.Create(context.Background(), twoStageInput("MEMBER_ACTIVATION"))
	require.NoError(t, err)

	agent := twoStageInput("AGENT_ACTIVATION")
	agent.Module = domain.ModuleAgency
	created, err := svc.Create(context.Background(), agent)
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateMetadata(context.Background(), created.ID, UpdateWorkflowInput{IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), false, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(context.Background(), true, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "MEMBER_ACTIVATION", active[0].WorkflowCode)

	agency := domain.ModuleAgency
	byModule, err := svc.List(context.Background(), false, &agency)
	require.NoError(t, err)
	require.Len(t, byModule, 1)
	assert.Equal(t, "AGENT_ACTIVATION", byModule[0].WorkflowCode)
}
