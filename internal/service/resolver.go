package service

import (
	"context"

	"go-approval/internal/core/ports"
	"go-approval/internal/domain"

	"github.com/google/uuid"
)

type resolveFunc func(ctx context.Context, stage domain.StageDefinition, orgCtx domain.OrgContext) (*uuid.UUID, error)

// ApproverResolver turns a stage definition plus the request's organizational
// context into a concrete approver. Resolution happens once, at submission
// time; the result is a snapshot and is never re-evaluated, even if the
// underlying admin changes before the stage is reached.
type ApproverResolver struct {
	strategies map[domain.ApproverType]resolveFunc
}

func NewApproverResolver(hierarchy ports.HierarchyDirectory) *ApproverResolver {
	r := &ApproverResolver{}

	byHierarchy := func(ctx context.Context, stage domain.StageDefinition, orgCtx domain.OrgContext) (*uuid.UUID, error) {
		if stage.HierarchyLevel == nil {
			return nil, nil
		}
		switch *stage.HierarchyLevel {
		case domain.LevelUnit:
			if orgCtx.UnitID == nil {
				return nil, nil
			}
			return hierarchy.FindUnitAdmin(ctx, *orgCtx.UnitID)
		case domain.LevelArea:
			if orgCtx.AreaID == nil {
				return nil, nil
			}
			return hierarchy.FindAreaAdmin(ctx, *orgCtx.AreaID)
		case domain.LevelForum:
			if orgCtx.ForumID == nil {
				return nil, nil
			}
			return hierarchy.FindForumAdmin(ctx, *orgCtx.ForumID)
		}
		return nil, nil
	}

	r.strategies = map[domain.ApproverType]resolveFunc{
		// Returns the configured user verbatim; existence is not validated here
		domain.ApproverSpecificUser: func(ctx context.Context, stage domain.StageDefinition, orgCtx domain.OrgContext) (*uuid.UUID, error) {
			return stage.UserID, nil
		},

		// Role stages scope through the hierarchy when a level is set; the
		// role id itself is informational only
		domain.ApproverRole: byHierarchy,

		domain.ApproverHierarchy: byHierarchy,
	}

	return r
}

// Resolve returns the approver for a stage, or nil for an unassigned stage
// (no matching strategy, missing context id, or no admin on the body).
func (r *ApproverResolver) Resolve(ctx context.Context, stage domain.StageDefinition, orgCtx domain.OrgContext) (*uuid.UUID, error) {
	strategy, exists := r.strategies[stage.ApproverType]
	if !exists {
		return nil, nil
	}
	return strategy(ctx, stage, orgCtx)
}
