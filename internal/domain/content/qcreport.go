package content

import (
	"errors"
	"time"
)

// QCReport is the outcome of a quality check over a content item. Only the
// latest report per item counts; an item with no report is treated the same
// as one that did not pass.
type QCReport struct {
	id            uint
	projectID     uint
	contentItemID uint
	score         float64
	passed        bool
	reasons       []string
	createdAt     time.Time
}

func NewQCReport(projectID, contentItemID uint, score float64, passed bool, reasons []string) (*QCReport, error) {
	if projectID == 0 {
		return nil, errors.New("project ID is required")
	}
	if contentItemID == 0 {
		return nil, errors.New("content item ID is required")
	}
	if score < 0 || score > 100 {
		return nil, errors.New("score must be between 0 and 100")
	}

	return &QCReport{
		projectID:     projectID,
		contentItemID: contentItemID,
		score:         score,
		passed:        passed,
		reasons:       reasons,
		createdAt:     time.Now().UTC(),
	}, nil
}

func ReconstructQCReport(
	id uint,
	projectID uint,
	contentItemID uint,
	score float64,
	passed bool,
	reasons []string,
	createdAt time.Time,
) *QCReport {
	return &QCReport{
		id:            id,
		projectID:     projectID,
		contentItemID: contentItemID,
		score:         score,
		passed:        passed,
		reasons:       reasons,
		createdAt:     createdAt,
	}
}

func (r *QCReport) ID() uint {
	return r.id
}

func (r *QCReport) ProjectID() uint {
	return r.projectID
}

func (r *QCReport) ContentItemID() uint {
	return r.contentItemID
}

func (r *QCReport) Score() float64 {
	return r.score
}

func (r *QCReport) Passed() bool {
	return r.passed
}

func (r *QCReport) Reasons() []string {
	return r.reasons
}

func (r *QCReport) CreatedAt() time.Time {
	return r.createdAt
}

func (r *QCReport) SetID(id uint) error {
	if r.id != 0 {
		return errors.New("QC report ID already set")
	}
	if id == 0 {
		return errors.New("invalid QC report ID")
	}
	r.id = id
	return nil
}
