package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"zavod/internal/domain/alert"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/mapper"
)

type AlertMapper interface {
	ToEntity(model *models.AlertModel) (*alert.Alert, error)
	ToModel(entity *alert.Alert) (*models.AlertModel, error)
	ToEntities(models []*models.AlertModel) ([]*alert.Alert, error)
}

type AlertMapperImpl struct{}

func NewAlertMapper() AlertMapper {
	return &AlertMapperImpl{}
}

func (m *AlertMapperImpl) ToEntity(model *models.AlertModel) (*alert.Alert, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alert metadata: %w", err)
		}
	}

	return alert.ReconstructAlert(
		model.ID,
		model.ProjectID,
		model.AlertType,
		model.Severity,
		model.Message,
		metadata,
		model.CreatedAt,
	), nil
}

func (m *AlertMapperImpl) ToModel(entity *alert.Alert) (*models.AlertModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		metadataBytes, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal alert metadata: %w", err)
		}
		metadataJSON = metadataBytes
	}

	return &models.AlertModel{
		ID:        entity.ID(),
		ProjectID: entity.ProjectID(),
		AlertType: entity.AlertType(),
		Severity:  entity.Severity(),
		Message:   entity.Message(),
		Metadata:  metadataJSON,
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func (m *AlertMapperImpl) ToEntities(modelList []*models.AlertModel) ([]*alert.Alert, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.AlertModel) uint { return model.ID })
}
