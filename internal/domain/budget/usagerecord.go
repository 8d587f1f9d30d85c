package budget

import (
	"errors"
	"time"
)

// UsageRecord is one append-only ledger row. Records are never updated or
// deleted; window totals are sums over rows.
type UsageRecord struct {
	id               uint
	budgetID         uint
	projectID        uint
	usageDate        time.Time
	tokenUsed        int64
	videoSecondsUsed int64
	publicationsUsed int64
}

func NewUsageRecord(
	budgetID uint,
	projectID uint,
	usageDate time.Time,
	tokenUsed, videoSecondsUsed, publicationsUsed int64,
) (*UsageRecord, error) {
	if budgetID == 0 {
		return nil, errors.New("budget ID cannot be zero")
	}
	if projectID == 0 {
		return nil, errors.New("project ID cannot be zero")
	}
	if usageDate.IsZero() {
		return nil, errors.New("usage date cannot be zero")
	}
	if tokenUsed < 0 || videoSecondsUsed < 0 || publicationsUsed < 0 {
		return nil, errors.New("usage amounts cannot be negative")
	}

	return &UsageRecord{
		budgetID:         budgetID,
		projectID:        projectID,
		usageDate:        usageDate.UTC(),
		tokenUsed:        tokenUsed,
		videoSecondsUsed: videoSecondsUsed,
		publicationsUsed: publicationsUsed,
	}, nil
}

func ReconstructUsageRecord(
	id uint,
	budgetID uint,
	projectID uint,
	usageDate time.Time,
	tokenUsed, videoSecondsUsed, publicationsUsed int64,
) (*UsageRecord, error) {
	if id == 0 {
		return nil, errors.New("usage record ID cannot be zero")
	}
	if budgetID == 0 {
		return nil, errors.New("budget ID cannot be zero")
	}
	if projectID == 0 {
		return nil, errors.New("project ID cannot be zero")
	}

	return &UsageRecord{
		id:               id,
		budgetID:         budgetID,
		projectID:        projectID,
		usageDate:        usageDate.UTC(),
		tokenUsed:        tokenUsed,
		videoSecondsUsed: videoSecondsUsed,
		publicationsUsed: publicationsUsed,
	}, nil
}

func (r *UsageRecord) ID() uint {
	return r.id
}

func (r *UsageRecord) BudgetID() uint {
	return r.budgetID
}

func (r *UsageRecord) ProjectID() uint {
	return r.projectID
}

func (r *UsageRecord) UsageDate() time.Time {
	return r.usageDate
}

func (r *UsageRecord) TokenUsed() int64 {
	return r.tokenUsed
}

func (r *UsageRecord) VideoSecondsUsed() int64 {
	return r.videoSecondsUsed
}

func (r *UsageRecord) PublicationsUsed() int64 {
	return r.publicationsUsed
}

func (r *UsageRecord) SetID(id uint) error {
	if r.id != 0 {
		return errors.New("usage record ID already set")
	}
	if id == 0 {
		return errors.New("usage record ID cannot be zero")
	}
	r.id = id
	return nil
}

// UsageTotals is the aggregated ledger view over a window.
type UsageTotals struct {
	TokenUsed        int64
	VideoSecondsUsed int64
	PublicationsUsed int64
}

// Add returns totals with the given amounts added on top. Used for the
// hypothetical totals an admission check evaluates.
func (t UsageTotals) Add(tokenUsed, videoSecondsUsed, publicationsUsed int64) UsageTotals {
	return UsageTotals{
		TokenUsed:        t.TokenUsed + tokenUsed,
		VideoSecondsUsed: t.VideoSecondsUsed + videoSecondsUsed,
		PublicationsUsed: t.PublicationsUsed + publicationsUsed,
	}
}
