package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"zavod/internal/domain/content"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/errors"
)

type ContentItemRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ContentItemMapper
}

func NewContentItemRepository(db *gorm.DB) content.Reader {
	return &ContentItemRepositoryImpl{
		db:     db,
		mapper: mappers.NewContentItemMapper(),
	}
}

func (r *ContentItemRepositoryImpl) Get(ctx context.Context, projectID, contentItemID uint) (*content.ContentItem, error) {
	var model models.ContentItemModel

	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", contentItemID, projectID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("content item not found")
		}
		return nil, fmt.Errorf("failed to get content item: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map content item model to entity: %w", err)
	}

	return entity, nil
}
