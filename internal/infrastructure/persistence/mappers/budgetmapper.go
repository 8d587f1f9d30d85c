package mappers

import (
	"fmt"

	"zavod/internal/domain/budget"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/mapper"
)

type BudgetMapper interface {
	ToEntity(model *models.BudgetModel) (*budget.Budget, error)
	ToModel(entity *budget.Budget) (*models.BudgetModel, error)
	ToEntities(models []*models.BudgetModel) ([]*budget.Budget, error)
}

type BudgetMapperImpl struct{}

func NewBudgetMapper() BudgetMapper {
	return &BudgetMapperImpl{}
}

func (m *BudgetMapperImpl) ToEntity(model *models.BudgetModel) (*budget.Budget, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := budget.ReconstructBudget(
		model.ID,
		model.ProjectID,
		model.DailyBudget,
		model.WeeklyBudget,
		model.MonthlyBudget,
		model.TokenLimit,
		model.VideoSecondsLimit,
		model.PublicationLimit,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct budget entity: %w", err)
	}

	return entity, nil
}

func (m *BudgetMapperImpl) ToModel(entity *budget.Budget) (*models.BudgetModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.BudgetModel{
		ID:                entity.ID(),
		ProjectID:         entity.ProjectID(),
		DailyBudget:       entity.DailyBudget(),
		WeeklyBudget:      entity.WeeklyBudget(),
		MonthlyBudget:     entity.MonthlyBudget(),
		TokenLimit:        entity.TokenLimit(),
		VideoSecondsLimit: entity.VideoSecondsLimit(),
		PublicationLimit:  entity.PublicationLimit(),
		CreatedAt:         entity.CreatedAt(),
	}, nil
}

func (m *BudgetMapperImpl) ToEntities(modelList []*models.BudgetModel) ([]*budget.Budget, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.BudgetModel) uint { return model.ID })
}
