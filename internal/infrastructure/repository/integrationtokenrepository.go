package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zavod/internal/domain/integration"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
)

type IntegrationTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IntegrationTokenMapper
}

func NewIntegrationTokenRepository(db *gorm.DB) integration.TokenRepository {
	return &IntegrationTokenRepositoryImpl{
		db:     db,
		mapper: mappers.NewIntegrationTokenMapper(),
	}
}

func (r *IntegrationTokenRepositoryImpl) Upsert(ctx context.Context, token *integration.IntegrationToken) error {
	model, err := r.mapper.ToModel(token)
	if err != nil {
		return fmt.Errorf("failed to map integration token entity to model: %w", err)
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"token_encrypted",
			"updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert integration token: %w", err)
	}

	if token.ID() == 0 && model.ID != 0 {
		if err := token.SetID(model.ID); err != nil {
			return fmt.Errorf("failed to set integration token ID: %w", err)
		}
	}

	return nil
}

func (r *IntegrationTokenRepositoryImpl) FindByProjectAndProvider(ctx context.Context, projectID uint, provider string) (*integration.IntegrationToken, error) {
	var model models.IntegrationTokenModel

	err := r.db.WithContext(ctx).
		Where("project_id = ? AND provider = ?", projectID, provider).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find integration token: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map integration token model to entity: %w", err)
	}

	return entity, nil
}
