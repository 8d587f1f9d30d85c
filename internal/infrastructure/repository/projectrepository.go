package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"zavod/internal/domain/project"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/constants"
)

type ProjectRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProjectMapper
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepositoryImpl{
		db:     db,
		mapper: mappers.NewProjectMapper(),
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, p *project.Project) error {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return fmt.Errorf("failed to map project entity to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set project ID: %w", err)
	}

	return nil
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id uint) (*project.Project, error) {
	var model models.ProjectModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map project model to entity: %w", err)
	}

	return entity, nil
}

func (r *ProjectRepositoryImpl) ListActiveIDs(ctx context.Context) ([]uint, error) {
	var ids []uint

	err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("status = ?", constants.ProjectStatusActive).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active project IDs: %w", err)
	}

	return ids, nil
}
