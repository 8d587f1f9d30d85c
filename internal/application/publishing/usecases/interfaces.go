package usecases

import (
	"context"
	"time"
)

// TransactionRunner runs a function inside one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BudgetGate admits or denies prospective publication consumption against
// the project budget.
type BudgetGate interface {
	EnsureAdmission(ctx context.Context, projectID uint, publicationsUsed int64, at time.Time) error
}

// UsageRecorder appends consumption for a delivery that already happened.
// Implementations must record even when the project lands over budget.
type UsageRecorder interface {
	RecordConfirmed(ctx context.Context, projectID uint, publicationsUsed int64, at time.Time) error
}

// CredentialSource resolves the decrypted platform credential for a project.
// A missing credential is a validation error, not a retryable failure.
type CredentialSource interface {
	Credential(ctx context.Context, projectID uint, provider string) (string, error)
}

// PublishPayload is the task payload carried by publish and retry tasks.
type PublishPayload struct {
	PublicationID uint `json:"publication_id"`
}
