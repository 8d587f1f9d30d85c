package usecases

import (
	"context"
	"time"

	budgetusecases "zavod/internal/application/budget/usecases"
)

// BudgetGuard bridges the publishing flow to the budget use cases, narrowing
// them to the single publications dimension the publisher consumes.
type BudgetGuard struct {
	admission *budgetusecases.EnsureAdmissionUseCase
	usage     *budgetusecases.RecordUsageUseCase
}

func NewBudgetGuard(
	admission *budgetusecases.EnsureAdmissionUseCase,
	usage *budgetusecases.RecordUsageUseCase,
) *BudgetGuard {
	return &BudgetGuard{
		admission: admission,
		usage:     usage,
	}
}

func (g *BudgetGuard) EnsureAdmission(ctx context.Context, projectID uint, publicationsUsed int64, at time.Time) error {
	return g.admission.Execute(ctx, budgetusecases.AdmissionRequest{
		ProjectID:        projectID,
		PublicationsUsed: publicationsUsed,
		At:               at,
	})
}

func (g *BudgetGuard) RecordConfirmed(ctx context.Context, projectID uint, publicationsUsed int64, at time.Time) error {
	return g.usage.ExecuteConfirmed(ctx, budgetusecases.RecordUsageCommand{
		ProjectID:        projectID,
		PublicationsUsed: publicationsUsed,
		At:               at,
	})
}
