package models

import (
	"time"

	"gorm.io/datatypes"

	"zavod/internal/shared/constants"
)

// TaskModel backs the durable dispatcher. Open is 1 while the task is
// pending or running and NULL once it finishes, so the composite unique
// index on (idempotency_key, open) deduplicates only in-flight work: a
// completed key can be enqueued again, a live one cannot.
type TaskModel struct {
	ID             uint           `gorm:"primaryKey"`
	SID            string         `gorm:"column:sid;size:50;not null;uniqueIndex"`
	Name           string         `gorm:"size:100;not null;index:idx_task_status_run"`
	Payload        datatypes.JSON `gorm:"type:json"`
	RunAt          time.Time      `gorm:"not null;index:idx_task_status_run"`
	IdempotencyKey *string        `gorm:"size:100;uniqueIndex:uk_task_open_key"`
	Open           *uint8         `gorm:"uniqueIndex:uk_task_open_key"`
	Status         string         `gorm:"size:20;not null;default:'pending';index:idx_task_status_run"`
	Attempts       int            `gorm:"not null;default:0"`
	MaxAttempts    int            `gorm:"not null;default:5"`
	LastError      *string        `gorm:"type:text"`
	ClaimedAt      *time.Time     `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TaskModel) TableName() string {
	return constants.TableTasks
}
