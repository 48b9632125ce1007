package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organizational hierarchy: forum -> area -> unit. Each body may have an
// administrator, which hierarchy-based approval stages resolve against.

type Forum struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	Code        string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	AdminUserID *uuid.UUID `gorm:"type:uuid" json:"admin_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Area struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ForumID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"forum_id"`
	Code        string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	AdminUserID *uuid.UUID `gorm:"type:uuid" json:"admin_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Unit struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	AreaID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"area_id"`
	Code        string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	AdminUserID *uuid.UUID `gorm:"type:uuid" json:"admin_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
