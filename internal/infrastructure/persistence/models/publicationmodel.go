package models

import (
	"time"

	"zavod/internal/shared/constants"
)

type PublicationModel struct {
	ID              uint      `gorm:"primaryKey"`
	ProjectID       uint      `gorm:"not null;uniqueIndex:uk_publication_project_key;index:idx_publication_project_status"`
	ContentItemID   uint      `gorm:"not null;index"`
	Platform        string    `gorm:"size:20;not null"`
	Status          string    `gorm:"size:20;not null;default:'scheduled';index:idx_publication_project_status;index:idx_publication_status_due"`
	ScheduledAt     time.Time `gorm:"not null;index:idx_publication_status_due"`
	IdempotencyKey  string    `gorm:"size:100;not null;uniqueIndex:uk_publication_project_key"`
	AttemptCount    int       `gorm:"not null;default:0"`
	PlatformPostID  *string   `gorm:"size:100"`
	PlatformPostURL *string   `gorm:"size:500"`
	PublishedAt     *time.Time
	LastError       *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PublicationModel) TableName() string {
	return constants.TablePublications
}
