package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"zavod/internal/domain/publication"
	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/db"
	"zavod/internal/shared/errors"
)

type PublicationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PublicationMapper
}

func NewPublicationRepository(db *gorm.DB) publication.Repository {
	return &PublicationRepositoryImpl{
		db:     db,
		mapper: mappers.NewPublicationMapper(),
	}
}

func (r *PublicationRepositoryImpl) Create(ctx context.Context, pub *publication.Publication) error {
	model, err := r.mapper.ToModel(pub)
	if err != nil {
		return fmt.Errorf("failed to map publication entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}

	if err := pub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set publication ID: %w", err)
	}

	return nil
}

func (r *PublicationRepositoryImpl) GetByID(ctx context.Context, id uint) (*publication.Publication, error) {
	var model models.PublicationModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get publication by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map publication model to entity: %w", err)
	}

	return entity, nil
}

func (r *PublicationRepositoryImpl) GetByIdempotencyKey(ctx context.Context, projectID uint, key string) (*publication.Publication, error) {
	var model models.PublicationModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("project_id = ? AND idempotency_key = ?", projectID, key).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get publication by idempotency key: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map publication model to entity: %w", err)
	}

	return entity, nil
}

func (r *PublicationRepositoryImpl) Update(ctx context.Context, pub *publication.Publication) error {
	model, err := r.mapper.ToModel(pub)
	if err != nil {
		return fmt.Errorf("failed to map publication entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update publication: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("publication not found")
	}

	return nil
}

func (r *PublicationRepositoryImpl) ListDueScheduled(ctx context.Context, before time.Time, limit int) ([]*publication.Publication, error) {
	var modelList []*models.PublicationModel

	query := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", vo.StatusScheduled.String(), before).
		Order("scheduled_at ASC, id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list due publications: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map publication models to entities: %w", err)
	}

	return entities, nil
}

// ClaimForPublishing is the durable write that must land before any network
// call: a status-guarded UPDATE so exactly one worker wins the scheduled row.
func (r *PublicationRepositoryImpl) ClaimForPublishing(ctx context.Context, id uint) (*publication.Publication, bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.PublicationModel{}).
		Where("id = ? AND status = ?", id, vo.StatusScheduled.String()).
		Updates(map[string]interface{}{
			"status":        vo.StatusPublishing.String(),
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to claim publication: %w", result.Error)
	}

	claimed := result.RowsAffected > 0

	pub, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if pub == nil {
		return nil, false, errors.NewNotFoundError("publication not found")
	}

	return pub, claimed, nil
}
