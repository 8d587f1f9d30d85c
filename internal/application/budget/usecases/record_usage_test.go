package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/budget"
)

func newRecordUsageFixture(t *testing.T, b *budget.Budget, used budget.UsageTotals) (*RecordUsageUseCase, *mockUsageRecordRepository, *captureSink) {
	t.Helper()

	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)
	sink := &captureSink{}

	budgets.On("GetActiveByProjectID", mock.Anything, b.ProjectID()).Return(b, nil)
	usage.On("SumWindow", mock.Anything, b.ProjectID(), mock.Anything, mock.Anything).Return(used, nil)

	admission := NewEnsureAdmissionUseCase(budgets, usage, sink, newNopLogger())
	uc := NewRecordUsageUseCase(budgets, usage, admission, stubTx{}, newNopLogger())
	return uc, usage, sink
}

func TestRecordUsage_Execute_AppendsWhenAdmitted(t *testing.T) {
	b := testBudget(t, 4, 1000, 0, 10)
	uc, usage, sink := newRecordUsageFixture(t, b, budget.UsageTotals{TokenUsed: 100})

	var appended *budget.UsageRecord
	usage.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		appended = args.Get(1).(*budget.UsageRecord)
	}).Return(nil)

	at := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	err := uc.Execute(context.Background(), RecordUsageCommand{
		ProjectID: 4,
		TokenUsed: 200,
		At:        at,
	})

	require.NoError(t, err)
	require.NotNil(t, appended)
	assert.Equal(t, b.ID(), appended.BudgetID())
	assert.Equal(t, uint(4), appended.ProjectID())
	assert.Equal(t, int64(200), appended.TokenUsed())
	assert.Equal(t, at, appended.UsageDate())
	assert.Empty(t, sink.all())
}

func TestRecordUsage_Execute_DenialLeavesLedgerUntouched(t *testing.T) {
	b := testBudget(t, 4, 1000, 0, 0)
	uc, usage, sink := newRecordUsageFixture(t, b, budget.UsageTotals{TokenUsed: 950})

	err := uc.Execute(context.Background(), RecordUsageCommand{
		ProjectID: 4,
		TokenUsed: 100,
	})

	require.Error(t, err)
	assert.True(t, budget.IsLimitExceeded(err))
	usage.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Len(t, sink.all(), 1)
}

func TestRecordUsage_ExecuteConfirmed_RecordsEvenOverBudget(t *testing.T) {
	// One publication per day, one already used: a second confirmed delivery
	// still lands in the ledger, and the breach only raises an alert.
	b := testBudget(t, 4, 0, 0, 1)
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)
	sink := &captureSink{}

	budgets.On("GetActiveByProjectID", mock.Anything, uint(4)).Return(b, nil)

	appendCount := 0
	usage.On("Append", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		appendCount++
	}).Return(nil)
	// After the append, two publications stand against a limit of one.
	usage.On("SumWindow", mock.Anything, uint(4), mock.Anything, mock.Anything).
		Return(budget.UsageTotals{PublicationsUsed: 2}, nil)

	admission := NewEnsureAdmissionUseCase(budgets, usage, sink, newNopLogger())
	uc := NewRecordUsageUseCase(budgets, usage, admission, stubTx{}, newNopLogger())

	err := uc.ExecuteConfirmed(context.Background(), RecordUsageCommand{
		ProjectID:        4,
		PublicationsUsed: 1,
	})

	require.NoError(t, err, "a confirmed delivery must never fail on budget")
	assert.Equal(t, 1, appendCount)

	alerts := sink.all()
	require.Len(t, alerts, 1)
	assert.Equal(t, "budget_exceeded", alerts[0].AlertType)
}

func TestRecordUsage_ExecuteConfirmed_QuietWhenUnderBudget(t *testing.T) {
	b := testBudget(t, 4, 0, 0, 10)
	uc, usage, sink := newRecordUsageFixture(t, b, budget.UsageTotals{PublicationsUsed: 3})

	usage.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := uc.ExecuteConfirmed(context.Background(), RecordUsageCommand{
		ProjectID:        4,
		PublicationsUsed: 1,
	})

	require.NoError(t, err)
	assert.Empty(t, sink.all())
}
