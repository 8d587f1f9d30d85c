package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"zavod/internal/domain/content"
	"zavod/internal/infrastructure/persistence/mappers"
	"zavod/internal/infrastructure/persistence/models"
)

type QCReportRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.QCReportMapper
}

func NewQCReportRepository(db *gorm.DB) content.QCResultSource {
	return &QCReportRepositoryImpl{
		db:     db,
		mapper: mappers.NewQCReportMapper(),
	}
}

// LatestResult returns the newest report for the item, nil when it was
// never checked.
func (r *QCReportRepositoryImpl) LatestResult(ctx context.Context, projectID, contentItemID uint) (*content.QCReport, error) {
	var model models.QCReportModel

	err := r.db.WithContext(ctx).
		Where("project_id = ? AND content_item_id = ?", projectID, contentItemID).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest QC report: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map QC report model to entity: %w", err)
	}

	return entity, nil
}
