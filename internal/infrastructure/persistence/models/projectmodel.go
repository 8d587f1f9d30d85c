package models

import (
	"time"

	"zavod/internal/shared/constants"
)

type ProjectModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Status    string `gorm:"size:20;not null;default:'active';index"`
	Timezone  string `gorm:"size:64;not null;default:'UTC'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProjectModel) TableName() string {
	return constants.TableProjects
}
