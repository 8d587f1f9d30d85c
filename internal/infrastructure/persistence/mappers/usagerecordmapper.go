package mappers

import (
	"fmt"

	"zavod/internal/domain/budget"
	"zavod/internal/infrastructure/persistence/models"
)

type UsageRecordMapper interface {
	ToEntity(model *models.UsageRecordModel) (*budget.UsageRecord, error)
	ToModel(entity *budget.UsageRecord) (*models.UsageRecordModel, error)
}

type UsageRecordMapperImpl struct{}

func NewUsageRecordMapper() UsageRecordMapper {
	return &UsageRecordMapperImpl{}
}

func (m *UsageRecordMapperImpl) ToEntity(model *models.UsageRecordModel) (*budget.UsageRecord, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := budget.ReconstructUsageRecord(
		model.ID,
		model.BudgetID,
		model.ProjectID,
		model.UsageDate,
		model.TokenUsed,
		model.VideoSecondsUsed,
		model.PublicationsUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct usage record entity: %w", err)
	}

	return entity, nil
}

func (m *UsageRecordMapperImpl) ToModel(entity *budget.UsageRecord) (*models.UsageRecordModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UsageRecordModel{
		ID:               entity.ID(),
		BudgetID:         entity.BudgetID(),
		ProjectID:        entity.ProjectID(),
		UsageDate:        entity.UsageDate(),
		TokenUsed:        entity.TokenUsed(),
		VideoSecondsUsed: entity.VideoSecondsUsed(),
		PublicationsUsed: entity.PublicationsUsed(),
	}, nil
}
