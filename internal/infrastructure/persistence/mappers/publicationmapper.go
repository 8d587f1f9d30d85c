package mappers

import (
	"fmt"

	"zavod/internal/domain/publication"
	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/mapper"
)

type PublicationMapper interface {
	ToEntity(model *models.PublicationModel) (*publication.Publication, error)
	ToModel(entity *publication.Publication) (*models.PublicationModel, error)
	ToEntities(models []*models.PublicationModel) ([]*publication.Publication, error)
}

type PublicationMapperImpl struct{}

func NewPublicationMapper() PublicationMapper {
	return &PublicationMapperImpl{}
}

func (m *PublicationMapperImpl) ToEntity(model *models.PublicationModel) (*publication.Publication, error) {
	if model == nil {
		return nil, nil
	}

	platform, err := vo.NewPlatform(model.Platform)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform: %w", err)
	}

	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create publication status: %w", err)
	}

	return publication.ReconstructPublication(
		model.ID,
		model.ProjectID,
		model.ContentItemID,
		platform,
		status,
		model.ScheduledAt,
		model.IdempotencyKey,
		model.AttemptCount,
		model.PlatformPostID,
		model.PlatformPostURL,
		model.PublishedAt,
		model.LastError,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *PublicationMapperImpl) ToModel(entity *publication.Publication) (*models.PublicationModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.PublicationModel{
		ID:              entity.ID(),
		ProjectID:       entity.ProjectID(),
		ContentItemID:   entity.ContentItemID(),
		Platform:        entity.Platform().String(),
		Status:          entity.Status().String(),
		ScheduledAt:     entity.ScheduledAt(),
		IdempotencyKey:  entity.IdempotencyKey(),
		AttemptCount:    entity.AttemptCount(),
		PlatformPostID:  entity.PlatformPostID(),
		PlatformPostURL: entity.PlatformPostURL(),
		PublishedAt:     entity.PublishedAt(),
		LastError:       entity.LastError(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *PublicationMapperImpl) ToEntities(modelList []*models.PublicationModel) ([]*publication.Publication, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.PublicationModel) uint { return model.ID })
}
