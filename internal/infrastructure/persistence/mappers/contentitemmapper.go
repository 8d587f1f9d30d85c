package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"zavod/internal/domain/content"
	"zavod/internal/infrastructure/persistence/models"
)

type ContentItemMapper interface {
	ToEntity(model *models.ContentItemModel) (*content.ContentItem, error)
	ToModel(entity *content.ContentItem) (*models.ContentItemModel, error)
}

type ContentItemMapperImpl struct{}

func NewContentItemMapper() ContentItemMapper {
	return &ContentItemMapperImpl{}
}

func (m *ContentItemMapperImpl) ToEntity(model *models.ContentItemModel) (*content.ContentItem, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content metadata: %w", err)
		}
	}

	return content.ReconstructContentItem(
		model.ID,
		model.ProjectID,
		model.Channel,
		model.Format,
		model.Body,
		metadata,
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *ContentItemMapperImpl) ToModel(entity *content.ContentItem) (*models.ContentItemModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		metadataBytes, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal content metadata: %w", err)
		}
		metadataJSON = metadataBytes
	}

	return &models.ContentItemModel{
		ID:        entity.ID(),
		ProjectID: entity.ProjectID(),
		Channel:   entity.Channel(),
		Format:    entity.Format(),
		Body:      entity.Body(),
		Metadata:  metadataJSON,
		Status:    entity.Status(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}
