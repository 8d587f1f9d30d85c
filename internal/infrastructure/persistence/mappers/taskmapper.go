package mappers

import (
	"gorm.io/datatypes"

	"zavod/internal/domain/task"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/mapper"
)

type TaskMapper interface {
	ToEntity(model *models.TaskModel) (*task.Task, error)
	ToModel(entity *task.Task) (*models.TaskModel, error)
	ToEntities(models []*models.TaskModel) ([]*task.Task, error)
}

type TaskMapperImpl struct{}

func NewTaskMapper() TaskMapper {
	return &TaskMapperImpl{}
}

func (m *TaskMapperImpl) ToEntity(model *models.TaskModel) (*task.Task, error) {
	if model == nil {
		return nil, nil
	}

	return task.ReconstructTask(
		model.ID,
		model.SID,
		model.Name,
		model.Payload,
		model.RunAt,
		model.IdempotencyKey,
		task.Status(model.Status),
		model.Attempts,
		model.MaxAttempts,
		model.LastError,
		model.ClaimedAt,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *TaskMapperImpl) ToModel(entity *task.Task) (*models.TaskModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.TaskModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		Name:           entity.Name(),
		Payload:        datatypes.JSON(entity.Payload()),
		RunAt:          entity.RunAt(),
		IdempotencyKey: entity.IdempotencyKey(),
		Status:         entity.Status().String(),
		Attempts:       entity.Attempts(),
		MaxAttempts:    entity.MaxAttempts(),
		LastError:      entity.LastError(),
		ClaimedAt:      entity.ClaimedAt(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}

	// Open mirrors the status so the unique (idempotency_key, open) index
	// only guards in-flight tasks.
	if entity.Status().IsOpen() {
		open := uint8(1)
		model.Open = &open
	}

	return model, nil
}

func (m *TaskMapperImpl) ToEntities(modelList []*models.TaskModel) ([]*task.Task, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.TaskModel) uint { return model.ID })
}
