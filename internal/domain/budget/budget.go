// Package budget holds the spend and volume ceilings for a project together
// with the append-only usage ledger recorded against them.
package budget

import (
	"errors"
	"time"
)

// Budget is a per-project configuration snapshot. A project may carry several
// rows over time; the most recently created one is the active budget.
// A zero limit means the dimension is unlimited.
type Budget struct {
	id                uint
	projectID         uint
	dailyBudget       float64
	weeklyBudget      float64
	monthlyBudget     float64
	tokenLimit        int64
	videoSecondsLimit int64
	publicationLimit  int64
	createdAt         time.Time
}

func NewBudget(
	projectID uint,
	dailyBudget, weeklyBudget, monthlyBudget float64,
	tokenLimit, videoSecondsLimit, publicationLimit int64,
) (*Budget, error) {
	if projectID == 0 {
		return nil, errors.New("project ID cannot be zero")
	}
	if dailyBudget < 0 || weeklyBudget < 0 || monthlyBudget < 0 {
		return nil, errors.New("spend budgets cannot be negative")
	}
	if tokenLimit < 0 || videoSecondsLimit < 0 || publicationLimit < 0 {
		return nil, errors.New("limits cannot be negative")
	}

	return &Budget{
		projectID:         projectID,
		dailyBudget:       dailyBudget,
		weeklyBudget:      weeklyBudget,
		monthlyBudget:     monthlyBudget,
		tokenLimit:        tokenLimit,
		videoSecondsLimit: videoSecondsLimit,
		publicationLimit:  publicationLimit,
		createdAt:         time.Now().UTC(),
	}, nil
}

func ReconstructBudget(
	id uint,
	projectID uint,
	dailyBudget, weeklyBudget, monthlyBudget float64,
	tokenLimit, videoSecondsLimit, publicationLimit int64,
	createdAt time.Time,
) (*Budget, error) {
	if id == 0 {
		return nil, errors.New("budget ID cannot be zero")
	}
	if projectID == 0 {
		return nil, errors.New("project ID cannot be zero")
	}

	return &Budget{
		id:                id,
		projectID:         projectID,
		dailyBudget:       dailyBudget,
		weeklyBudget:      weeklyBudget,
		monthlyBudget:     monthlyBudget,
		tokenLimit:        tokenLimit,
		videoSecondsLimit: videoSecondsLimit,
		publicationLimit:  publicationLimit,
		createdAt:         createdAt,
	}, nil
}

func (b *Budget) ID() uint {
	return b.id
}

func (b *Budget) ProjectID() uint {
	return b.projectID
}

func (b *Budget) DailyBudget() float64 {
	return b.dailyBudget
}

func (b *Budget) WeeklyBudget() float64 {
	return b.weeklyBudget
}

func (b *Budget) MonthlyBudget() float64 {
	return b.monthlyBudget
}

func (b *Budget) TokenLimit() int64 {
	return b.tokenLimit
}

func (b *Budget) VideoSecondsLimit() int64 {
	return b.videoSecondsLimit
}

func (b *Budget) PublicationLimit() int64 {
	return b.publicationLimit
}

func (b *Budget) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Budget) SetID(id uint) error {
	if b.id != 0 {
		return errors.New("budget ID already set")
	}
	if id == 0 {
		return errors.New("budget ID cannot be zero")
	}
	b.id = id
	return nil
}
