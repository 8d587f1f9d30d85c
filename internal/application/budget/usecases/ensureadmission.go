package usecases

import (
	"context"
	"fmt"
	"time"

	"zavod/internal/domain/alert"
	"zavod/internal/domain/budget"
	"zavod/internal/shared/biztime"
	"zavod/internal/shared/constants"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// AdmissionRequest is the hypothetical consumption an admission check
// evaluates on top of what the project has already used today.
type AdmissionRequest struct {
	ProjectID        uint
	TokenUsed        int64
	VideoSecondsUsed int64
	PublicationsUsed int64
	// At anchors the daily window; zero means now.
	At time.Time
}

// EnsureAdmissionUseCase decides whether a project may consume more budget.
// Only the daily window gates admission; weekly and monthly windows are
// reporting views.
type EnsureAdmissionUseCase struct {
	budgets budget.Repository
	usage   budget.UsageRecordRepository
	alerts  alert.Sink
	logger  logger.Interface
}

func NewEnsureAdmissionUseCase(
	budgets budget.Repository,
	usage budget.UsageRecordRepository,
	alerts alert.Sink,
	logger logger.Interface,
) *EnsureAdmissionUseCase {
	return &EnsureAdmissionUseCase{
		budgets: budgets,
		usage:   usage,
		alerts:  alerts,
		logger:  logger,
	}
}

// Execute returns nil when the request fits, *budget.LimitExceededError when
// any non-zero limit would be exceeded, and a NotFoundError when the project
// has no budget at all. Usage is never recorded here.
func (uc *EnsureAdmissionUseCase) Execute(ctx context.Context, req AdmissionRequest) error {
	if req.ProjectID == 0 {
		return apperrors.NewValidationError("project ID is required")
	}

	at := req.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	active, err := uc.budgets.GetActiveByProjectID(ctx, req.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load active budget: %w", err)
	}
	if active == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("no active budget for project %d", req.ProjectID))
	}

	windowFrom := biztime.StartOfDayUTC(at)
	totals, err := uc.usage.SumWindow(ctx, req.ProjectID, windowFrom, at)
	if err != nil {
		return fmt.Errorf("failed to sum usage window: %w", err)
	}

	hypothetical := totals.Add(req.TokenUsed, req.VideoSecondsUsed, req.PublicationsUsed)

	// A zero limit means the dimension is unlimited. Comparison is strict:
	// landing exactly on the limit is still admitted.
	var reasons []string
	if active.TokenLimit() > 0 && hypothetical.TokenUsed > active.TokenLimit() {
		reasons = append(reasons, budget.ReasonTokenLimitExceeded)
	}
	if active.VideoSecondsLimit() > 0 && hypothetical.VideoSecondsUsed > active.VideoSecondsLimit() {
		reasons = append(reasons, budget.ReasonVideoSecondsLimitExceeded)
	}
	if active.PublicationLimit() > 0 && hypothetical.PublicationsUsed > active.PublicationLimit() {
		reasons = append(reasons, budget.ReasonPublicationLimitExceeded)
	}
	if len(reasons) == 0 {
		return nil
	}

	limitErr := budget.NewLimitExceededError(req.ProjectID, reasons, hypothetical)

	uc.logger.Warnw("budget admission denied",
		"project_id", req.ProjectID,
		"reasons", reasons,
		"token_used", hypothetical.TokenUsed,
		"video_seconds_used", hypothetical.VideoSecondsUsed,
		"publications_used", hypothetical.PublicationsUsed,
	)

	uc.alerts.Notify(ctx, req.ProjectID, constants.AlertTypeBudgetExceeded, constants.AlertSeverityCritical,
		limitErr.Error(), map[string]interface{}{
			"reasons":            reasons,
			"window_from":        windowFrom,
			"window_to":          at,
			"token_used":         hypothetical.TokenUsed,
			"video_seconds_used": hypothetical.VideoSecondsUsed,
			"publications_used":  hypothetical.PublicationsUsed,
			"token_limit":        active.TokenLimit(),
			"video_limit":        active.VideoSecondsLimit(),
			"publication_limit":  active.PublicationLimit(),
		})

	return limitErr
}
