package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"zavod/internal/application/budget/dto"
	"zavod/internal/domain/budget"
	"zavod/internal/shared/biztime"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// BuildReportUseCase assembles the daily/weekly/monthly utilization view for
// a project.
type BuildReportUseCase struct {
	budgets budget.Repository
	usage   budget.UsageRecordRepository
	logger  logger.Interface
}

func NewBuildReportUseCase(
	budgets budget.Repository,
	usage budget.UsageRecordRepository,
	logger logger.Interface,
) *BuildReportUseCase {
	return &BuildReportUseCase{
		budgets: budgets,
		usage:   usage,
		logger:  logger,
	}
}

// Execute builds the report as of the given time; zero means now. The limits
// come from the active budget row; each window sums the ledger independently.
func (uc *BuildReportUseCase) Execute(ctx context.Context, projectID uint, at time.Time) (*dto.UsageReport, error) {
	if projectID == 0 {
		return nil, apperrors.NewValidationError("project ID is required")
	}
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	active, err := uc.budgets.GetActiveByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active budget: %w", err)
	}
	if active == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no active budget for project %d", projectID))
	}

	windows := []struct {
		name    string
		from    time.Time
		ceiling float64
	}{
		{dto.WindowDaily, biztime.StartOfDayUTC(at), active.DailyBudget()},
		{dto.WindowWeekly, biztime.StartOfWeekUTC(at), active.WeeklyBudget()},
		{dto.WindowMonthly, biztime.StartOfMonthUTC(at), active.MonthlyBudget()},
	}

	report := &dto.UsageReport{
		ProjectID:   projectID,
		BudgetID:    active.ID(),
		GeneratedAt: at,
	}

	for _, w := range windows {
		totals, err := uc.usage.SumWindow(ctx, projectID, w.from, at)
		if err != nil {
			return nil, fmt.Errorf("failed to sum %s usage window: %w", w.name, err)
		}

		window := dto.WindowUsage{
			Window:       w.name,
			From:         w.from,
			To:           at,
			SpendCeiling: w.ceiling,
			Dimensions: []dto.DimensionUsage{
				dimensionUsage(dto.DimensionTokens, totals.TokenUsed, active.TokenLimit()),
				dimensionUsage(dto.DimensionVideoSeconds, totals.VideoSecondsUsed, active.VideoSecondsLimit()),
				dimensionUsage(dto.DimensionPublications, totals.PublicationsUsed, active.PublicationLimit()),
			},
		}
		report.Windows = append(report.Windows, window)

		// Only the daily window gates admission, so only it can block.
		if w.name == dto.WindowDaily {
			report.IsBlocked = anyLimitExceeded(totals, active)
		}
	}

	uc.logger.Debugw("budget report built",
		"project_id", projectID,
		"budget_id", active.ID(),
		"is_blocked", report.IsBlocked,
	)
	return report, nil
}

func dimensionUsage(name string, used, limit int64) dto.DimensionUsage {
	d := dto.DimensionUsage{
		Dimension: name,
		Used:      used,
		Limit:     limit,
	}
	if limit > 0 {
		pct := math.Round(float64(used)/float64(limit)*10000) / 100
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		d.Pct = &pct
		d.Remaining = &remaining
	}
	return d
}

func anyLimitExceeded(totals budget.UsageTotals, b *budget.Budget) bool {
	if b.TokenLimit() > 0 && totals.TokenUsed > b.TokenLimit() {
		return true
	}
	if b.VideoSecondsLimit() > 0 && totals.VideoSecondsUsed > b.VideoSecondsLimit() {
		return true
	}
	if b.PublicationLimit() > 0 && totals.PublicationsUsed > b.PublicationLimit() {
		return true
	}
	return false
}
