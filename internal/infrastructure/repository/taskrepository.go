package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"zavod/internal/domain/task"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/db"
	"zavod/internal/shared/errors"
)

// claimCandidates bounds how many due tasks one claim round inspects before
// giving up to the next poll tick.
const claimCandidates = 5

type TaskRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TaskMapper
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepositoryImpl{
		db:     db,
		mapper: mappers.NewTaskMapper(),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, t *task.Task) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map task entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set task ID: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetBySID(ctx context.Context, sid string) (*task.Task, error) {
	var model models.TaskModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task by SID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map task model to entity: %w", err)
	}

	return entity, nil
}

func (r *TaskRepositoryImpl) FindOpenByKey(ctx context.Context, key string) (*task.Task, error) {
	var model models.TaskModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("idempotency_key = ? AND open = 1", key).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open task by key: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map task model to entity: %w", err)
	}

	return entity, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, t *task.Task) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map task entity to model: %w", err)
	}

	// Save keeps zero-valued columns, but Open must flip to NULL when the
	// task closes, so write the full column set explicitly.
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TaskModel{}).
		Where("id = ?", model.ID).
		Select("payload", "run_at", "idempotency_key", "open", "status", "attempts", "max_attempts", "last_error", "claimed_at", "updated_at").
		Updates(map[string]interface{}{
			"payload":         model.Payload,
			"run_at":          model.RunAt,
			"idempotency_key": model.IdempotencyKey,
			"open":            model.Open,
			"status":          model.Status,
			"attempts":        model.Attempts,
			"max_attempts":    model.MaxAttempts,
			"last_error":      model.LastError,
			"claimed_at":      model.ClaimedAt,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("task not found")
	}

	return nil
}

// ClaimNextDue selects due pending tasks oldest first and races the guarded
// UPDATE against concurrent workers. Losing a candidate moves on to the next
// one; losing them all returns nil for this tick.
func (r *TaskRepositoryImpl) ClaimNextDue(ctx context.Context, now time.Time) (*task.Task, error) {
	var candidates []*models.TaskModel

	err := r.db.WithContext(ctx).
		Where("status = ? AND run_at <= ?", task.StatusPending.String(), now).
		Order("run_at ASC, id ASC").
		Limit(claimCandidates).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	claimedAt := now.UTC()
	for _, candidate := range candidates {
		result := r.db.WithContext(ctx).
			Model(&models.TaskModel{}).
			Where("id = ? AND status = ?", candidate.ID, task.StatusPending.String()).
			Updates(map[string]interface{}{
				"status":     task.StatusRunning.String(),
				"attempts":   gorm.Expr("attempts + 1"),
				"claimed_at": claimedAt,
				"updated_at": claimedAt,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to claim task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}

		var model models.TaskModel
		if err := r.db.WithContext(ctx).First(&model, candidate.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to reload claimed task: %w", err)
		}

		entity, err := r.mapper.ToEntity(&model)
		if err != nil {
			return nil, fmt.Errorf("failed to map task model to entity: %w", err)
		}
		return entity, nil
	}

	return nil, nil
}

// RequeueStuck returns running tasks claimed before the cutoff to pending.
// Covers workers that died mid-task without closing their claim.
func (r *TaskRepositoryImpl) RequeueStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("status = ? AND claimed_at < ?", task.StatusRunning.String(), cutoff).
		Updates(map[string]interface{}{
			"status":     task.StatusPending.String(),
			"claimed_at": nil,
			"run_at":     now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stuck tasks: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *TaskRepositoryImpl) CountByStatus(ctx context.Context) (map[task.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	counts := make(map[task.Status]int64, len(rows))
	for _, row := range rows {
		counts[task.Status(row.Status)] = row.Count
	}
	return counts, nil
}
