package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/task"
	"zavod/internal/shared/errors"
)

func createTestTask(t *testing.T, name, key string, runAt time.Time) *task.Task {
	t.Helper()
	tk, err := task.NewTask(name, []byte(`{"publication_id":1}`), runAt, key, 3)
	require.NoError(t, err)
	return tk
}

func TestTaskRepository_OpenKeyDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("open key blocks a second insert", func(t *testing.T) {
		first := createTestTask(t, "publish_publication", "publication-1", now)
		require.NoError(t, repo.Create(ctx, first))

		dup := createTestTask(t, "publish_publication", "publication-1", now)
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateError(err))
	})

	t.Run("find open by key", func(t *testing.T) {
		tk := createTestTask(t, "publish_publication", "publication-2", now)
		require.NoError(t, repo.Create(ctx, tk))

		found, err := repo.FindOpenByKey(ctx, "publication-2")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tk.SID(), found.SID())

		missing, err := repo.FindOpenByKey(ctx, "publication-unknown")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("completed task frees its key", func(t *testing.T) {
		tk := createTestTask(t, "publish_publication", "publication-3", now)
		require.NoError(t, repo.Create(ctx, tk))

		require.NoError(t, tk.Claim())
		require.NoError(t, tk.Complete())
		require.NoError(t, repo.Update(ctx, tk))

		open, err := repo.FindOpenByKey(ctx, "publication-3")
		require.NoError(t, err)
		assert.Nil(t, open)

		again := createTestTask(t, "publish_publication", "publication-3", now)
		assert.NoError(t, repo.Create(ctx, again))
	})

	t.Run("tasks without keys never collide", func(t *testing.T) {
		a := createTestTask(t, "publish_publication", "", now)
		b := createTestTask(t, "publish_publication", "", now)
		require.NoError(t, repo.Create(ctx, a))
		assert.NoError(t, repo.Create(ctx, b))
	})
}

func TestTaskRepository_ClaimNextDue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	older := createTestTask(t, "publish_publication", "publication-10", now.Add(-2*time.Minute))
	newer := createTestTask(t, "publish_publication", "publication-11", now.Add(-time.Minute))
	future := createTestTask(t, "publish_publication", "publication-12", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, future))

	first, err := repo.ClaimNextDue(ctx, now)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, older.SID(), first.SID())
	assert.Equal(t, task.StatusRunning, first.Status())
	assert.Equal(t, 1, first.Attempts())
	assert.NotNil(t, first.ClaimedAt())

	second, err := repo.ClaimNextDue(ctx, now)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, newer.SID(), second.SID())

	// Only the future task remains and it is not due yet.
	third, err := repo.ClaimNextDue(ctx, now)
	require.NoError(t, err)
	assert.Nil(t, third)
}

func TestTaskRepository_RequeueStuck(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stuck := createTestTask(t, "publish_publication", "publication-20", now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, stuck))
	claimed, err := repo.ClaimNextDue(ctx, now.Add(-30*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, claimed)

	fresh := createTestTask(t, "publish_publication", "publication-21", now.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, fresh))
	freshClaimed, err := repo.ClaimNextDue(ctx, now)
	require.NoError(t, err)
	require.NotNil(t, freshClaimed)
	require.Equal(t, fresh.SID(), freshClaimed.SID())

	// Cutoff catches the 30-minute-old claim but not the fresh one.
	n, err := repo.RequeueStuck(ctx, now.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	requeued, err := repo.GetBySID(ctx, stuck.SID())
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, requeued.Status())
	assert.Nil(t, requeued.ClaimedAt())
	assert.Equal(t, 1, requeued.Attempts())

	untouched, err := repo.GetBySID(ctx, fresh.SID())
	require.NoError(t, err)
	assert.Equal(t, task.StatusRunning, untouched.Status())
}

func TestTaskRepository_CountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, createTestTask(t, "publish_publication", "", now)))
	}
	claimed, err := repo.ClaimNextDue(ctx, now)
	require.NoError(t, err)
	require.NotNil(t, claimed)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[task.StatusPending])
	assert.Equal(t, int64(1), counts[task.StatusRunning])
}
