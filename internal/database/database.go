package database

import (
	"go-approval/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection. TranslateError turns driver unique
// violations into gorm.ErrDuplicatedKey so repositories can match on it.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate creates the schema plus the partial unique index that enforces at
// most one PENDING request per (entity_type, entity_id) at the storage layer.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.WorkflowDefinition{},
		&domain.StageDefinition{},
		&domain.ApprovalRequest{},
		&domain.StageExecution{},
		&domain.Forum{},
		&domain.Area{},
		&domain.Unit{},
	)
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_request_per_entity
		ON approval_requests (entity_type, entity_id)
		WHERE status = 'PENDING'
	`).Error
}
