package models

import (
	"time"

	"github.com/google/uuid"
)

// ReconcileRunModel records one execution of the scheduled reconcile pass
type ReconcileRunModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TriggeredBy string     `gorm:"type:varchar(20);not null"`
	Status      string     `gorm:"type:varchar(20);not null"`
	Warnings    int        `gorm:"not null;default:0"`
	Error       string     `gorm:"type:text"`
	StartedAt   time.Time  `gorm:"not null;index"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReconcileRunModel) TableName() string {
	return "reconcile_runs"
}
