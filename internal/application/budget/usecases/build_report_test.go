package usecases

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zavod/internal/application/budget/dto"
	"zavod/internal/domain/budget"
	apperrors "zavod/internal/shared/errors"
)

func TestBuildReport_Arithmetic(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)

	b := testBudget(t, 5, 1000, 0, 10)
	budgets.On("GetActiveByProjectID", mock.Anything, uint(5)).Return(b, nil)
	usage.On("SumWindow", mock.Anything, uint(5), mock.Anything, mock.Anything).
		Return(budget.UsageTotals{TokenUsed: 250, PublicationsUsed: 3}, nil)

	uc := NewBuildReportUseCase(budgets, usage, newNopLogger())
	at := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	report, err := uc.Execute(context.Background(), 5, at)

	require.NoError(t, err)
	require.Len(t, report.Windows, 3)
	assert.False(t, report.IsBlocked)

	daily := report.DailyWindow()
	require.NotNil(t, daily)
	require.Len(t, daily.Dimensions, 3)

	tokens := daily.Dimensions[0]
	assert.Equal(t, dto.DimensionTokens, tokens.Dimension)
	assert.Equal(t, int64(250), tokens.Used)
	assert.Equal(t, int64(1000), tokens.Limit)
	require.NotNil(t, tokens.Pct)
	assert.Equal(t, 25.0, *tokens.Pct)
	require.NotNil(t, tokens.Remaining)
	assert.Equal(t, int64(750), *tokens.Remaining)

	video := daily.Dimensions[1]
	assert.Equal(t, dto.DimensionVideoSeconds, video.Dimension)
	assert.Nil(t, video.Pct, "unlimited dimension has no percentage")
	assert.Nil(t, video.Remaining)
}

func TestBuildReport_WindowBoundaries(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)

	b := testBudget(t, 5, 1000, 0, 0)
	budgets.On("GetActiveByProjectID", mock.Anything, uint(5)).Return(b, nil)

	// Wednesday 2025-06-18: day starts same date, week the previous Monday,
	// month on June 1st.
	at := time.Date(2025, 6, 18, 9, 30, 0, 0, time.UTC)
	wantDaily := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	wantWeekly := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	wantMonthly := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	usage.On("SumWindow", mock.Anything, uint(5), wantDaily, at).Return(budget.UsageTotals{TokenUsed: 1}, nil).Once()
	usage.On("SumWindow", mock.Anything, uint(5), wantWeekly, at).Return(budget.UsageTotals{TokenUsed: 2}, nil).Once()
	usage.On("SumWindow", mock.Anything, uint(5), wantMonthly, at).Return(budget.UsageTotals{TokenUsed: 3}, nil).Once()

	uc := NewBuildReportUseCase(budgets, usage, newNopLogger())
	report, err := uc.Execute(context.Background(), 5, at)

	require.NoError(t, err)
	usage.AssertExpectations(t)

	require.Len(t, report.Windows, 3)
	assert.Equal(t, dto.WindowDaily, report.Windows[0].Window)
	assert.Equal(t, int64(1), report.Windows[0].Dimensions[0].Used)
	assert.Equal(t, dto.WindowWeekly, report.Windows[1].Window)
	assert.Equal(t, int64(2), report.Windows[1].Dimensions[0].Used)
	assert.Equal(t, dto.WindowMonthly, report.Windows[2].Window)
	assert.Equal(t, int64(3), report.Windows[2].Dimensions[0].Used)

	// Spend ceilings follow the window.
	assert.Equal(t, 100.0, report.Windows[0].SpendCeiling)
	assert.Equal(t, 500.0, report.Windows[1].SpendCeiling)
	assert.Equal(t, 2000.0, report.Windows[2].SpendCeiling)
}

func TestBuildReport_BlockedFromDailyWindowOnly(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)

	b := testBudget(t, 5, 100, 0, 0)
	budgets.On("GetActiveByProjectID", mock.Anything, uint(5)).Return(b, nil)
	usage.On("SumWindow", mock.Anything, uint(5), mock.Anything, mock.Anything).
		Return(budget.UsageTotals{TokenUsed: 150}, nil)

	uc := NewBuildReportUseCase(budgets, usage, newNopLogger())
	report, err := uc.Execute(context.Background(), 5, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, report.IsBlocked)

	// Remaining clamps at zero rather than going negative.
	daily := report.DailyWindow()
	require.NotNil(t, daily)
	require.NotNil(t, daily.Dimensions[0].Remaining)
	assert.Equal(t, int64(0), *daily.Dimensions[0].Remaining)
}

func TestBuildReport_MissingBudgetIsNotFound(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)
	budgets.On("GetActiveByProjectID", mock.Anything, uint(5)).Return(nil, nil)

	uc := NewBuildReportUseCase(budgets, usage, newNopLogger())
	_, err := uc.Execute(context.Background(), 5, time.Time{})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestExportReport_CSVShape(t *testing.T) {
	budgets := new(mockBudgetRepository)
	usage := new(mockUsageRecordRepository)

	b := testBudget(t, 5, 1000, 0, 10)
	budgets.On("GetActiveByProjectID", mock.Anything, uint(5)).Return(b, nil)
	usage.On("SumWindow", mock.Anything, uint(5), mock.Anything, mock.Anything).
		Return(budget.UsageTotals{TokenUsed: 250, PublicationsUsed: 3}, nil)

	report := NewBuildReportUseCase(budgets, usage, newNopLogger())
	uc := NewExportReportUseCase(report, newNopLogger())

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), 5, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header + 3 windows x 3 dimensions + trailer.
	require.Len(t, records, 11)
	assert.Equal(t, []string{"window", "dimension", "used", "limit", "pct", "remaining"}, records[0])

	assert.Equal(t, []string{"daily", "tokens", "250", "1000", "25", "750"}, records[1])
	assert.Equal(t, "video_seconds", records[2][1])
	assert.Equal(t, "", records[2][4], "unlimited dimension exports empty pct")
	assert.Equal(t, "", records[2][5], "unlimited dimension exports empty remaining")

	trailer := records[10]
	assert.Equal(t, "is_blocked", trailer[0])
	assert.Equal(t, "false", trailer[1])
}
