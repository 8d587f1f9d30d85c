package usecases

import (
	"context"
	"fmt"
	"time"

	"zavod/internal/domain/budget"
	"zavod/internal/shared/biztime"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// RecordUsageCommand appends consumption to the project's usage ledger.
type RecordUsageCommand struct {
	ProjectID        uint
	TokenUsed        int64
	VideoSecondsUsed int64
	PublicationsUsed int64
	// At is the usage date; zero means now.
	At time.Time
}

// TransactionRunner runs a function inside one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RecordUsageUseCase writes ledger rows. Execute gates on admission first so
// an over-budget project cannot consume more; ExecuteConfirmed records work
// that already happened and only reports a breach.
type RecordUsageUseCase struct {
	budgets   budget.Repository
	usage     budget.UsageRecordRepository
	admission *EnsureAdmissionUseCase
	tx        TransactionRunner
	logger    logger.Interface
}

func NewRecordUsageUseCase(
	budgets budget.Repository,
	usage budget.UsageRecordRepository,
	admission *EnsureAdmissionUseCase,
	tx TransactionRunner,
	logger logger.Interface,
) *RecordUsageUseCase {
	return &RecordUsageUseCase{
		budgets:   budgets,
		usage:     usage,
		admission: admission,
		tx:        tx,
		logger:    logger,
	}
}

// Execute is the fail-closed path: admission runs first and a denial leaves
// the ledger untouched.
func (uc *RecordUsageUseCase) Execute(ctx context.Context, cmd RecordUsageCommand) error {
	at := cmd.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	return uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.admission.Execute(txCtx, AdmissionRequest{
			ProjectID:        cmd.ProjectID,
			TokenUsed:        cmd.TokenUsed,
			VideoSecondsUsed: cmd.VideoSecondsUsed,
			PublicationsUsed: cmd.PublicationsUsed,
			At:               at,
		}); err != nil {
			return err
		}

		if err := uc.append(txCtx, cmd, at); err != nil {
			return err
		}

		uc.logger.Infow("budget usage recorded",
			"project_id", cmd.ProjectID,
			"token_used", cmd.TokenUsed,
			"video_seconds_used", cmd.VideoSecondsUsed,
			"publications_used", cmd.PublicationsUsed,
		)
		return nil
	})
}

// ExecuteConfirmed records usage for work that has already been delivered.
// The ledger must reflect it even when it lands over budget, so no admission
// check runs first; a breach detected afterwards is advisory and never rolls
// the delivery back.
func (uc *RecordUsageUseCase) ExecuteConfirmed(ctx context.Context, cmd RecordUsageCommand) error {
	at := cmd.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.append(txCtx, cmd, at)
	})
	if err != nil {
		return err
	}

	uc.logger.Infow("budget usage recorded",
		"project_id", cmd.ProjectID,
		"token_used", cmd.TokenUsed,
		"video_seconds_used", cmd.VideoSecondsUsed,
		"publications_used", cmd.PublicationsUsed,
	)

	// Zero-delta admission re-check: raises the budget_exceeded alert when
	// this confirmed usage pushed the project over a limit.
	if admErr := uc.admission.Execute(ctx, AdmissionRequest{ProjectID: cmd.ProjectID, At: at}); admErr != nil {
		if budget.IsLimitExceeded(admErr) {
			uc.logger.Warnw("project over budget after confirmed delivery",
				"project_id", cmd.ProjectID,
				"error", admErr,
			)
			return nil
		}
		uc.logger.Errorw("failed to re-check budget after confirmed delivery",
			"project_id", cmd.ProjectID,
			"error", admErr,
		)
	}
	return nil
}

func (uc *RecordUsageUseCase) append(ctx context.Context, cmd RecordUsageCommand, at time.Time) error {
	active, err := uc.budgets.GetActiveByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load active budget: %w", err)
	}
	if active == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("no active budget for project %d", cmd.ProjectID))
	}

	record, err := budget.NewUsageRecord(active.ID(), cmd.ProjectID, at,
		cmd.TokenUsed, cmd.VideoSecondsUsed, cmd.PublicationsUsed)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if err := uc.usage.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append usage record: %w", err)
	}
	return nil
}
