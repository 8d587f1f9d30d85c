package models

import (
	"time"

	"gorm.io/datatypes"

	"zavod/internal/shared/constants"
)

type QCReportModel struct {
	ID            uint           `gorm:"primaryKey"`
	ProjectID     uint           `gorm:"not null;index"`
	ContentItemID uint           `gorm:"not null;index:idx_qc_item_created"`
	Score         float64        `gorm:"not null;default:0"`
	Passed        bool           `gorm:"not null;default:false"`
	Reasons       datatypes.JSON `gorm:"type:json"`
	CreatedAt     time.Time      `gorm:"index:idx_qc_item_created"`
}

func (QCReportModel) TableName() string {
	return constants.TableQCReports
}
