package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"zavod/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ProjectModel{},
		&models.BudgetModel{},
		&models.UsageRecordModel{},
		&models.PublicationModel{},
		&models.TaskModel{},
		&models.AlertModel{},
		&models.IntegrationTokenModel{},
		&models.ContentItemModel{},
		&models.QCReportModel{},
	)
	require.NoError(t, err)

	return db
}
