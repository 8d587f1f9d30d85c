package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/budget"
	"zavod/internal/shared/constants"
	apperrors "zavod/internal/shared/errors"
)

func testBudget(t *testing.T, projectID uint, tokenLimit, videoLimit, pubLimit int64) *budget.Budget {
	t.Helper()
	b, err := budget.ReconstructBudget(1, projectID, 100, 500, 2000, tokenLimit, videoLimit, pubLimit, time.Now().UTC())
	require.NoError(t, err)
	return b
}

func TestEnsureAdmission_Execute(t *testing.T) {
	at := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		limits      [3]int64 // token, video, publications
		used        budget.UsageTotals
		request     AdmissionRequest
		wantReasons []string
	}{
		{
			name:    "under every limit admits",
			limits:  [3]int64{1000, 600, 10},
			used:    budget.UsageTotals{TokenUsed: 100, VideoSecondsUsed: 60, PublicationsUsed: 2},
			request: AdmissionRequest{ProjectID: 7, TokenUsed: 100, PublicationsUsed: 1, At: at},
		},
		{
			name:    "landing exactly on the limit admits",
			limits:  [3]int64{1000, 0, 0},
			used:    budget.UsageTotals{TokenUsed: 900},
			request: AdmissionRequest{ProjectID: 7, TokenUsed: 100, At: at},
		},
		{
			name:        "token limit exceeded",
			limits:      [3]int64{1000, 0, 0},
			used:        budget.UsageTotals{TokenUsed: 950},
			request:     AdmissionRequest{ProjectID: 7, TokenUsed: 100, At: at},
			wantReasons: []string{budget.ReasonTokenLimitExceeded},
		},
		{
			name:        "publication ceiling blocks the third post",
			limits:      [3]int64{0, 0, 2},
			used:        budget.UsageTotals{PublicationsUsed: 2},
			request:     AdmissionRequest{ProjectID: 7, PublicationsUsed: 1, At: at},
			wantReasons: []string{budget.ReasonPublicationLimitExceeded},
		},
		{
			name:   "zero limits never deny",
			limits: [3]int64{0, 0, 0},
			used:   budget.UsageTotals{TokenUsed: 1 << 40, VideoSecondsUsed: 1 << 30, PublicationsUsed: 1 << 20},
			request: AdmissionRequest{
				ProjectID: 7, TokenUsed: 1 << 20, VideoSecondsUsed: 1 << 20, PublicationsUsed: 1 << 20, At: at,
			},
		},
		{
			name:   "all dimensions breached lists reasons in check order",
			limits: [3]int64{100, 100, 1},
			used:   budget.UsageTotals{TokenUsed: 100, VideoSecondsUsed: 100, PublicationsUsed: 1},
			request: AdmissionRequest{
				ProjectID: 7, TokenUsed: 1, VideoSecondsUsed: 1, PublicationsUsed: 1, At: at,
			},
			wantReasons: []string{
				budget.ReasonTokenLimitExceeded,
				budget.ReasonVideoSecondsLimitExceeded,
				budget.ReasonPublicationLimitExceeded,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budgets := new(mockBudgetRepository)
			usage := new(mockUsageRecordRepository)
			sink := &captureSink{}

			b := testBudget(t, tt.request.ProjectID, tt.limits[0], tt.limits[1], tt.limits[2])
			budgets.On("GetActiveByProjectID", mock.Anything, tt.request.ProjectID).Return(b, nil)
			usage.On("SumWindow", mock.Anything, tt.request.ProjectID, mock.Anything, tt.request.At).
				Return(tt.used, nil)

			uc := NewEnsureAdmissionUseCase(budgets, usage, sink, newNopLogger())
			err := uc.Execute(context.Background(), tt.request)

			if len(tt.wantReasons) == 0 {
				assert.NoError(t, err)
				assert.Empty(t, sink.all(), "admitted requests must not alert")
				return
			}

			require.Error(t, err)
			limitErr := budget.GetLimitExceeded(err)
			require.NotNil(t, limitErr)
			assert.Equal(t, tt.wantReasons, limitErr.Reasons)
			assert.Equal(t, tt.request.ProjectID, limitErr.ProjectID)

			alerts := sink.all()
			require.Len(t, alerts, 1)
			assert.Equal(t, constants.AlertTypeBudgetExceeded, alerts[0].AlertType)
			assert.Equal(t, constants.AlertSeverityCritical, alerts[0].Severity)
		})
	}
}

func TestEnsureAdmission_DailyWindowStartsAtMidnight(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)
	sink := &captureSink{}

	at := time.Date(2025, 6, 16, 15, 30, 0, 0, time.UTC)
	wantFrom := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	b := testBudget(t, 3, 1000, 0, 0)
	budgets.On("GetActiveByProjectID", mock.Anything, uint(3)).Return(b, nil)
	usage.On("SumWindow", mock.Anything, uint(3), wantFrom, at).
		Return(budget.UsageTotals{}, nil)

	uc := NewEnsureAdmissionUseCase(budgets, usage, sink, newNopLogger())
	err := uc.Execute(context.Background(), AdmissionRequest{ProjectID: 3, TokenUsed: 10, At: at})

	assert.NoError(t, err)
	usage.AssertExpectations(t)
}

func TestEnsureAdmission_MissingBudgetIsNotFound(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)
	sink := &captureSink{}

	budgets.On("GetActiveByProjectID", mock.Anything, uint(9)).Return(nil, nil)

	uc := NewEnsureAdmissionUseCase(budgets, usage, sink, newNopLogger())
	err := uc.Execute(context.Background(), AdmissionRequest{ProjectID: 9, PublicationsUsed: 1})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	usage.AssertNotCalled(t, "SumWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureAdmission_RequiresProjectID(t *testing.T) {
	uc := NewEnsureAdmissionUseCase(new(mockBudgetRepository), new(mockUsageRecordRepository), &captureSink{}, newNopLogger())
	err := uc.Execute(context.Background(), AdmissionRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}
