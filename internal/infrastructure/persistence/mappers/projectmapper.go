package mappers

import (
	"zavod/internal/domain/project"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/mapper"
)

type ProjectMapper interface {
	ToEntity(model *models.ProjectModel) (*project.Project, error)
	ToModel(entity *project.Project) (*models.ProjectModel, error)
	ToEntities(models []*models.ProjectModel) ([]*project.Project, error)
}

type ProjectMapperImpl struct{}

func NewProjectMapper() ProjectMapper {
	return &ProjectMapperImpl{}
}

func (m *ProjectMapperImpl) ToEntity(model *models.ProjectModel) (*project.Project, error) {
	if model == nil {
		return nil, nil
	}

	return project.ReconstructProject(
		model.ID,
		model.Name,
		model.Status,
		model.Timezone,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *ProjectMapperImpl) ToModel(entity *project.Project) (*models.ProjectModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ProjectModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Status:    entity.Status(),
		Timezone:  entity.Timezone(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *ProjectMapperImpl) ToEntities(modelList []*models.ProjectModel) ([]*project.Project, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ProjectModel) uint { return model.ID })
}
