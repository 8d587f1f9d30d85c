package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"zavod/internal/domain/content"
	"zavod/internal/infrastructure/persistence/models"
)

type QCReportMapper interface {
	ToEntity(model *models.QCReportModel) (*content.QCReport, error)
	ToModel(entity *content.QCReport) (*models.QCReportModel, error)
}

type QCReportMapperImpl struct{}

func NewQCReportMapper() QCReportMapper {
	return &QCReportMapperImpl{}
}

func (m *QCReportMapperImpl) ToEntity(model *models.QCReportModel) (*content.QCReport, error) {
	if model == nil {
		return nil, nil
	}

	var reasons []string
	if model.Reasons != nil {
		if err := json.Unmarshal(model.Reasons, &reasons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal QC reasons: %w", err)
		}
	}

	return content.ReconstructQCReport(
		model.ID,
		model.ProjectID,
		model.ContentItemID,
		model.Score,
		model.Passed,
		reasons,
		model.CreatedAt,
	), nil
}

func (m *QCReportMapperImpl) ToModel(entity *content.QCReport) (*models.QCReportModel, error) {
	if entity == nil {
		return nil, nil
	}

	var reasonsJSON datatypes.JSON
	if reasons := entity.Reasons(); len(reasons) > 0 {
		reasonsBytes, err := json.Marshal(reasons)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal QC reasons: %w", err)
		}
		reasonsJSON = reasonsBytes
	}

	return &models.QCReportModel{
		ID:            entity.ID(),
		ProjectID:     entity.ProjectID(),
		ContentItemID: entity.ContentItemID(),
		Score:         entity.Score(),
		Passed:        entity.Passed(),
		Reasons:       reasonsJSON,
		CreatedAt:     entity.CreatedAt(),
	}, nil
}
