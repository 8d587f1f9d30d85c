package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"zavod/internal/domain/budget"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/db"
)

type BudgetRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BudgetMapper
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepositoryImpl{
		db:     db,
		mapper: mappers.NewBudgetMapper(),
	}
}

func (r *BudgetRepositoryImpl) Create(ctx context.Context, b *budget.Budget) error {
	model, err := r.mapper.ToModel(b)
	if err != nil {
		return fmt.Errorf("failed to map budget entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	if err := b.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set budget ID: %w", err)
	}

	return nil
}

func (r *BudgetRepositoryImpl) GetByID(ctx context.Context, id uint) (*budget.Budget, error) {
	var model models.BudgetModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get budget by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map budget model to entity: %w", err)
	}

	return entity, nil
}

func (r *BudgetRepositoryImpl) GetActiveByProjectID(ctx context.Context, projectID uint) (*budget.Budget, error) {
	var model models.BudgetModel

	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active budget: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map budget model to entity: %w", err)
	}

	return entity, nil
}
