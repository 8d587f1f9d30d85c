package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/publication"
	vo "zavod/internal/domain/publication/value_objects"
	apperrors "zavod/internal/shared/errors"
)

func failedPublication(t *testing.T, id uint) *publication.Publication {
	t.Helper()
	now := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	lastErr := "qc_failed"
	return publication.ReconstructPublication(
		id, testProjectID, testContentItemID, vo.PlatformTelegram, vo.StatusFailed,
		now, "pub-deadbeef00000001", 0, nil, nil, nil, &lastErr, now, now,
	)
}

func TestMarkPublished_SettlesStuckPublishingRow(t *testing.T) {
	repo := &mockPublicationRepository{}
	uc := NewMarkPublishedUseCase(repo, newNopLogger())
	pub := publishingPublication(t, 31, 1)
	at := time.Date(2025, 6, 16, 11, 0, 0, 0, time.UTC)

	repo.On("GetByID", mock.Anything, uint(31)).Return(pub, nil)
	repo.On("Update", mock.Anything, pub).Return(nil)

	got, err := uc.Execute(context.Background(), MarkPublishedCommand{
		PublicationID:   31,
		PlatformPostID:  "900",
		PlatformPostURL: "https://t.me/c/1/900",
		PublishedAt:     at,
	})

	require.NoError(t, err)
	assert.True(t, got.Status().IsPublished())
	require.NotNil(t, got.PlatformPostID())
	assert.Equal(t, "900", *got.PlatformPostID())
	require.NotNil(t, got.PublishedAt())
	assert.Equal(t, at, *got.PublishedAt())
	assert.Equal(t, 1, got.AttemptCount())
}

func TestMarkPublished_ScheduledRowConsumesAnAttempt(t *testing.T) {
	repo := &mockPublicationRepository{}
	uc := NewMarkPublishedUseCase(repo, newNopLogger())
	pub := scheduledPublication(t, 32)

	repo.On("GetByID", mock.Anything, uint(32)).Return(pub, nil)
	repo.On("Update", mock.Anything, pub).Return(nil)

	got, err := uc.Execute(context.Background(), MarkPublishedCommand{
		PublicationID:  32,
		PlatformPostID: "901",
	})

	require.NoError(t, err)
	assert.True(t, got.Status().IsPublished())
	assert.Equal(t, 1, got.AttemptCount())
	require.NotNil(t, got.PublishedAt())
}

func TestMarkPublished_AlreadyPublishedIsNoOp(t *testing.T) {
	repo := &mockPublicationRepository{}
	uc := NewMarkPublishedUseCase(repo, newNopLogger())
	pub := publishedPublication(t, 33)

	repo.On("GetByID", mock.Anything, uint(33)).Return(pub, nil)

	got, err := uc.Execute(context.Background(), MarkPublishedCommand{
		PublicationID:  33,
		PlatformPostID: "anything",
	})

	require.NoError(t, err)
	assert.Same(t, pub, got)
	assert.Equal(t, "100", *got.PlatformPostID())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarkPublished_FailedRowStaysFailed(t *testing.T) {
	repo := &mockPublicationRepository{}
	uc := NewMarkPublishedUseCase(repo, newNopLogger())
	pub := failedPublication(t, 34)

	repo.On("GetByID", mock.Anything, uint(34)).Return(pub, nil)

	_, err := uc.Execute(context.Background(), MarkPublishedCommand{
		PublicationID:  34,
		PlatformPostID: "902",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.True(t, pub.Status().IsFailed())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarkPublished_InvalidInput(t *testing.T) {
	repo := &mockPublicationRepository{}
	uc := NewMarkPublishedUseCase(repo, newNopLogger())

	_, err := uc.Execute(context.Background(), MarkPublishedCommand{PlatformPostID: "903"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), MarkPublishedCommand{PublicationID: 35})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestMarkPublished_UnknownPublication(t *testing.T) {
	repo := &mockPublicationRepository{}
	uc := NewMarkPublishedUseCase(repo, newNopLogger())

	repo.On("GetByID", mock.Anything, uint(36)).Return(nil, nil)

	_, err := uc.Execute(context.Background(), MarkPublishedCommand{
		PublicationID:  36,
		PlatformPostID: "904",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
