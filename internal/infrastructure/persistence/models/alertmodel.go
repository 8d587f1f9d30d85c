package models

import (
	"time"

	"gorm.io/datatypes"

	"zavod/internal/shared/constants"
)

type AlertModel struct {
	ID        uint           `gorm:"primaryKey"`
	ProjectID uint           `gorm:"not null;index:idx_alert_project_created"`
	AlertType string         `gorm:"size:50;not null;index"`
	Severity  string         `gorm:"size:20;not null"`
	Message   string         `gorm:"type:text;not null"`
	Metadata  datatypes.JSON `gorm:"type:json"`
	CreatedAt time.Time      `gorm:"index:idx_alert_project_created"`
}

func (AlertModel) TableName() string {
	return constants.TableAlerts
}
