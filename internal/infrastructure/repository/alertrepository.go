package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"zavod/internal/domain/alert"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
)

type AlertRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AlertMapper
}

func NewAlertRepository(db *gorm.DB) alert.Repository {
	return &AlertRepositoryImpl{
		db:     db,
		mapper: mappers.NewAlertMapper(),
	}
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, a *alert.Alert) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return fmt.Errorf("failed to map alert entity to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set alert ID: %w", err)
	}

	return nil
}

func (r *AlertRepositoryImpl) ListByProject(ctx context.Context, projectID uint, limit int) ([]*alert.Alert, error) {
	var modelList []*models.AlertModel

	query := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map alert models to entities: %w", err)
	}

	return entities, nil
}
