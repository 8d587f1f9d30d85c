package models

import (
	"time"

	"zavod/internal/shared/constants"
)

type BudgetModel struct {
	ID                uint    `gorm:"primaryKey"`
	ProjectID         uint    `gorm:"not null;index"`
	DailyBudget       float64 `gorm:"not null;default:0"`
	WeeklyBudget      float64 `gorm:"not null;default:0"`
	MonthlyBudget     float64 `gorm:"not null;default:0"`
	TokenLimit        int64   `gorm:"not null;default:0"`
	VideoSecondsLimit int64   `gorm:"not null;default:0"`
	PublicationLimit  int64   `gorm:"not null;default:0"`
	CreatedAt         time.Time
}

func (BudgetModel) TableName() string {
	return constants.TableBudgets
}
