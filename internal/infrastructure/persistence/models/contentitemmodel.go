package models

import (
	"time"

	"gorm.io/datatypes"

	"zavod/internal/shared/constants"
)

type ContentItemModel struct {
	ID        uint           `gorm:"primaryKey"`
	ProjectID uint           `gorm:"not null;index"`
	Channel   string         `gorm:"size:100"`
	Format    string         `gorm:"size:50"`
	Body      string         `gorm:"type:longtext;not null"`
	Metadata  datatypes.JSON `gorm:"type:json"`
	Status    string         `gorm:"size:20;not null;default:'ready'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ContentItemModel) TableName() string {
	return constants.TableContentItems
}
