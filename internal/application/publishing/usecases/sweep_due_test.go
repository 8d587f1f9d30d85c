package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/publication"
	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/infrastructure/dispatch"
)

func duePublication(t *testing.T, id, projectID uint) *publication.Publication {
	t.Helper()
	slot := time.Now().UTC().Add(-time.Minute)
	return publication.ReconstructPublication(
		id, projectID, testContentItemID, vo.PlatformTelegram, vo.StatusScheduled,
		slot, fmt.Sprintf("pub-%016d", id), 0, nil, nil, nil, nil, slot, slot,
	)
}

type sweepFixture struct {
	repo       *mockPublicationRepository
	projects   *mockProjectRepository
	dispatcher *dispatch.InMemoryDispatcher
	uc         *SweepDuePublicationsUseCase
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	f := &sweepFixture{
		repo:       &mockPublicationRepository{},
		projects:   &mockProjectRepository{},
		dispatcher: dispatch.NewInMemoryDispatcher(),
	}
	f.uc = NewSweepDuePublicationsUseCase(f.repo, f.projects, f.dispatcher, 50, newNopLogger())
	return f
}

func TestSweepDue_EnqueuesActiveProjectPublications(t *testing.T) {
	f := newSweepFixture(t)
	due := []*publication.Publication{
		duePublication(t, 1, 10),
		duePublication(t, 2, 20),
		duePublication(t, 3, 30), // archived project
	}

	f.projects.On("ListActiveIDs", mock.Anything).Return([]uint{10, 20}, nil)
	f.repo.On("ListDueScheduled", mock.Anything, mock.Anything, 50).Return(due, nil)

	count, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pending := f.dispatcher.Pending()
	require.Len(t, pending, 2)
	keys := []string{pending[0].IdempotencyKey, pending[1].IdempotencyKey}
	assert.ElementsMatch(t, []string{"publication-1", "publication-2"}, keys)
}

func TestSweepDue_RepeatedTicksDedup(t *testing.T) {
	f := newSweepFixture(t)
	due := []*publication.Publication{duePublication(t, 4, 10)}

	f.projects.On("ListActiveIDs", mock.Anything).Return([]uint{10}, nil)
	f.repo.On("ListDueScheduled", mock.Anything, mock.Anything, 50).Return(due, nil)

	_, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Len(t, f.dispatcher.Pending(), 1)
}

func TestSweepDue_ExecuteForProjectFilters(t *testing.T) {
	f := newSweepFixture(t)
	due := []*publication.Publication{
		duePublication(t, 5, 10),
		duePublication(t, 6, 20),
	}

	f.projects.On("ListActiveIDs", mock.Anything).Return([]uint{10, 20}, nil)
	f.repo.On("ListDueScheduled", mock.Anything, mock.Anything, 50).Return(due, nil)

	count, err := f.uc.ExecuteForProject(context.Background(), 20)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	pending := f.dispatcher.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "publication-6", pending[0].IdempotencyKey)
}

func TestSweepDue_NothingDue(t *testing.T) {
	f := newSweepFixture(t)

	f.projects.On("ListActiveIDs", mock.Anything).Return([]uint{10}, nil)
	f.repo.On("ListDueScheduled", mock.Anything, mock.Anything, 50).Return([]*publication.Publication{}, nil)

	count, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.dispatcher.Pending())
}

func TestSweepDue_EnqueueFailuresSkipAndContinue(t *testing.T) {
	repo := &mockPublicationRepository{}
	projects := &mockProjectRepository{}
	uc := NewSweepDuePublicationsUseCase(repo, projects, &failingDispatcher{err: errors.New("queue down")}, 50, newNopLogger())

	projects.On("ListActiveIDs", mock.Anything).Return([]uint{10}, nil)
	repo.On("ListDueScheduled", mock.Anything, mock.Anything, 50).
		Return([]*publication.Publication{duePublication(t, 7, 10)}, nil)

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSweepDue_ListFailuresSurface(t *testing.T) {
	f := newSweepFixture(t)

	f.projects.On("ListActiveIDs", mock.Anything).Return(nil, errors.New("projects table locked"))

	_, err := f.uc.Execute(context.Background())
	require.Error(t, err)
	f.repo.AssertNotCalled(t, "ListDueScheduled", mock.Anything, mock.Anything, mock.Anything)
}
