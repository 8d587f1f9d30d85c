package migration

import (
	"zavod/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every persisted model, in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ProjectModel{},
		&models.BudgetModel{},
		&models.UsageRecordModel{},
		&models.ContentItemModel{},
		&models.QCReportModel{},
		&models.PublicationModel{},
		&models.IntegrationTokenModel{},
		&models.TaskModel{},
		&models.AlertModel{},
	}
}
