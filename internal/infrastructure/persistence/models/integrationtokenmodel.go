package models

import (
	"time"

	"zavod/internal/shared/constants"
)

type IntegrationTokenModel struct {
	ID             uint   `gorm:"primaryKey"`
	ProjectID      uint   `gorm:"not null;uniqueIndex:uk_token_project_provider"`
	Provider       string `gorm:"size:20;not null;uniqueIndex:uk_token_project_provider"`
	TokenEncrypted string `gorm:"type:text;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (IntegrationTokenModel) TableName() string {
	return constants.TableIntegrationTokens
}
