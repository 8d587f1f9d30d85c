package usecases

import (
	"context"
	"fmt"

	"zavod/internal/domain/budget"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// GetActiveBudgetUseCase resolves the budget that currently governs a project.
type GetActiveBudgetUseCase struct {
	budgets budget.Repository
	logger  logger.Interface
}

func NewGetActiveBudgetUseCase(budgets budget.Repository, logger logger.Interface) *GetActiveBudgetUseCase {
	return &GetActiveBudgetUseCase{
		budgets: budgets,
		logger:  logger,
	}
}

// Execute returns the most recently created budget for the project. A project
// without a configured budget is a not-found condition, not an unlimited one.
func (uc *GetActiveBudgetUseCase) Execute(ctx context.Context, projectID uint) (*budget.Budget, error) {
	if projectID == 0 {
		return nil, apperrors.NewValidationError("project ID is required")
	}

	active, err := uc.budgets.GetActiveByProjectID(ctx, projectID)
	if err != nil {
		uc.logger.Errorw("failed to load active budget", "error", err, "project_id", projectID)
		return nil, fmt.Errorf("failed to load active budget: %w", err)
	}
	if active == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no active budget for project %d", projectID))
	}

	return active, nil
}
