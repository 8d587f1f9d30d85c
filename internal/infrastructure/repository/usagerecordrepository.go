package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"zavod/internal/domain/budget"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/shared/db"
)

type UsageRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UsageRecordMapper
}

func NewUsageRecordRepository(db *gorm.DB) budget.UsageRecordRepository {
	return &UsageRecordRepositoryImpl{
		db:     db,
		mapper: mappers.NewUsageRecordMapper(),
	}
}

func (r *UsageRecordRepositoryImpl) Append(ctx context.Context, record *budget.UsageRecord) error {
	model, err := r.mapper.ToModel(record)
	if err != nil {
		return fmt.Errorf("failed to map usage record entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append usage record: %w", err)
	}

	if err := record.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set usage record ID: %w", err)
	}

	return nil
}

// SumWindow aggregates consumption over [from, to] inclusive. The result is
// a snapshot against concurrent writers, not a lock.
func (r *UsageRecordRepositoryImpl) SumWindow(ctx context.Context, projectID uint, from, to time.Time) (budget.UsageTotals, error) {
	var result struct {
		TokenUsed        int64
		VideoSecondsUsed int64
		PublicationsUsed int64
	}

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UsageRecordModel{}).
		Select("COALESCE(SUM(token_used), 0) as token_used, COALESCE(SUM(video_seconds_used), 0) as video_seconds_used, COALESCE(SUM(publications_used), 0) as publications_used").
		Where("project_id = ? AND usage_date >= ? AND usage_date <= ?", projectID, from, to).
		Scan(&result).Error
	if err != nil {
		return budget.UsageTotals{}, fmt.Errorf("failed to sum usage window: %w", err)
	}

	return budget.UsageTotals{
		TokenUsed:        result.TokenUsed,
		VideoSecondsUsed: result.VideoSecondsUsed,
		PublicationsUsed: result.PublicationsUsed,
	}, nil
}
