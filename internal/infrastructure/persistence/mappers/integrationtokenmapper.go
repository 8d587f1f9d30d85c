package mappers

import (
	"zavod/internal/domain/integration"
	"zavod/internal/infrastructure/persistence/models"
)

type IntegrationTokenMapper interface {
	ToEntity(model *models.IntegrationTokenModel) (*integration.IntegrationToken, error)
	ToModel(entity *integration.IntegrationToken) (*models.IntegrationTokenModel, error)
}

type IntegrationTokenMapperImpl struct{}

func NewIntegrationTokenMapper() IntegrationTokenMapper {
	return &IntegrationTokenMapperImpl{}
}

func (m *IntegrationTokenMapperImpl) ToEntity(model *models.IntegrationTokenModel) (*integration.IntegrationToken, error) {
	if model == nil {
		return nil, nil
	}

	return integration.ReconstructIntegrationToken(
		model.ID,
		model.ProjectID,
		model.Provider,
		model.TokenEncrypted,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *IntegrationTokenMapperImpl) ToModel(entity *integration.IntegrationToken) (*models.IntegrationTokenModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.IntegrationTokenModel{
		ID:             entity.ID(),
		ProjectID:      entity.ProjectID(),
		Provider:       entity.Provider(),
		TokenEncrypted: entity.TokenEncrypted(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}
