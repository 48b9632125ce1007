package repository

import (
	"context"
	"errors"

	"go-approval/internal/core/ports"
	"go-approval/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type hierarchyDirectory struct {
	db *gorm.DB
}

// NewHierarchyDirectory creates a postgres-backed HierarchyDirectory over the
// organization tables.
func NewHierarchyDirectory(db *gorm.DB) ports.HierarchyDirectory {
	return &hierarchyDirectory{db: db}
}

func (d *hierarchyDirectory) FindUnitAdmin(ctx context.Context, unitID uuid.UUID) (*uuid.UUID, error) {
	var unit domain.Unit
	err := d.db.WithContext(ctx).Where("id = ?", unitID).First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unit.AdminUserID, nil
}

func (d *hierarchyDirectory) FindAreaAdmin(ctx context.Context, areaID uuid.UUID) (*uuid.UUID, error) {
	var area domain.Area
	err := d.db.WithContext(ctx).Where("id = ?", areaID).First(&area).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return area.AdminUserID, nil
}

func (d *hierarchyDirectory) FindForumAdmin(ctx context.Context, forumID uuid.UUID) (*uuid.UUID, error) {
	var forum domain.Forum
	err := d.db.WithContext(ctx).Where("id = ?", forumID).First(&forum).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return forum.AdminUserID, nil
}
