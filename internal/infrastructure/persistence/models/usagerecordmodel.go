package models

import (
	"time"

	"zavod/internal/shared/constants"
)

// UsageRecordModel is append-only: rows are never updated or deleted, so
// window sums stay reproducible.
type UsageRecordModel struct {
	ID               uint      `gorm:"primaryKey"`
	BudgetID         uint      `gorm:"not null;index"`
	ProjectID        uint      `gorm:"not null;index:idx_usage_project_date"`
	UsageDate        time.Time `gorm:"not null;index:idx_usage_project_date"`
	TokenUsed        int64     `gorm:"not null;default:0"`
	VideoSecondsUsed int64     `gorm:"not null;default:0"`
	PublicationsUsed int64     `gorm:"not null;default:0"`
	CreatedAt        time.Time
}

func (UsageRecordModel) TableName() string {
	return constants.TableUsageRecords
}
