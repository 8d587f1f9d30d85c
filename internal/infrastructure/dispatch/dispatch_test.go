package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"zavod/internal/domain/task"
	"zavod/internal/infrastructure/persistence/models"
	"zavod/internal/infrastructure/repository"
	"zavod/internal/shared/logger"
)

func setupTaskRepo(t *testing.T) task.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TaskModel{}))

	return repository.NewTaskRepository(db)
}

type testPayload struct {
	PublicationID uint `json:"publication_id"`
}

func TestDurableDispatcher_Enqueue(t *testing.T) {
	repo := setupTaskRepo(t)
	d := NewDurableDispatcher(repo, logger.NewLogger(), 3)
	ctx := context.Background()

	t.Run("enqueue creates a task", func(t *testing.T) {
		sid, err := d.Enqueue(ctx, Job{
			Name:           "publish_publication",
			Payload:        testPayload{PublicationID: 1},
			IdempotencyKey: "publication-1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, sid)

		stored, err := repo.GetBySID(ctx, sid)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "publish_publication", stored.Name())
		assert.JSONEq(t, `{"publication_id":1}`, string(stored.Payload()))
		assert.Equal(t, 3, stored.MaxAttempts())
	})

	t.Run("open key returns the existing task", func(t *testing.T) {
		first, err := d.Enqueue(ctx, Job{
			Name:           "publish_publication",
			Payload:        testPayload{PublicationID: 2},
			IdempotencyKey: "publication-2",
		})
		require.NoError(t, err)

		second, err := d.Enqueue(ctx, Job{
			Name:           "publish_publication",
			Payload:        testPayload{PublicationID: 2},
			IdempotencyKey: "publication-2",
		})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("completed key can be enqueued again", func(t *testing.T) {
		first, err := d.Enqueue(ctx, Job{
			Name:           "publish_publication",
			Payload:        testPayload{PublicationID: 3},
			IdempotencyKey: "publication-3",
		})
		require.NoError(t, err)

		stored, err := repo.GetBySID(ctx, first)
		require.NoError(t, err)
		require.NoError(t, stored.Claim())
		require.NoError(t, stored.Complete())
		require.NoError(t, repo.Update(ctx, stored))

		second, err := d.Enqueue(ctx, Job{
			Name:           "publish_publication",
			Payload:        testPayload{PublicationID: 3},
			IdempotencyKey: "publication-3",
		})
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("jobs without keys are independent", func(t *testing.T) {
		a, err := d.Enqueue(ctx, Job{Name: "publish_publication", Payload: testPayload{PublicationID: 4}})
		require.NoError(t, err)
		b, err := d.Enqueue(ctx, Job{Name: "publish_publication", Payload: testPayload{PublicationID: 5}})
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestWorker_ProcessesTask(t *testing.T) {
	repo := setupTaskRepo(t)
	log := logger.NewLogger()
	d := NewDurableDispatcher(repo, log, 3)
	w := NewWorker(repo, log, WorkerConfig{
		Workers:      1,
		PollInterval: 10 * time.Millisecond,
		TaskTimeout:  time.Second,
		RequeueDelay: 10 * time.Millisecond,
	})

	var handled int32
	w.Register("publish_publication", func(ctx context.Context, payload []byte) error {
		atomic.AddInt32(&handled, 1)
		return nil
	})

	sid, err := d.Enqueue(context.Background(), Job{
		Name:           "publish_publication",
		Payload:        testPayload{PublicationID: 1},
		IdempotencyKey: "publication-1",
	})
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		stored, err := repo.GetBySID(context.Background(), sid)
		return err == nil && stored != nil && stored.Status() == task.StatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&handled))
}

func TestWorker_RequeuesThenFails(t *testing.T) {
	repo := setupTaskRepo(t)
	log := logger.NewLogger()
	d := NewDurableDispatcher(repo, log, 2)
	w := NewWorker(repo, log, WorkerConfig{
		Workers:      1,
		PollInterval: 10 * time.Millisecond,
		TaskTimeout:  time.Second,
		RequeueDelay: 10 * time.Millisecond,
	})

	var calls int32
	w.Register("publish_publication", func(ctx context.Context, payload []byte) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("handler exploded")
	})

	sid, err := d.Enqueue(context.Background(), Job{
		Name:           "publish_publication",
		Payload:        testPayload{PublicationID: 1},
		IdempotencyKey: "publication-1",
	})
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		stored, err := repo.GetBySID(context.Background(), sid)
		return err == nil && stored != nil && stored.Status() == task.StatusFailed
	}, 5*time.Second, 20*time.Millisecond)

	stored, err := repo.GetBySID(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Attempts())
	require.NotNil(t, stored.LastError())
	assert.Equal(t, "handler exploded", *stored.LastError())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// The failed task released its key for a fresh enqueue.
	again, err := d.Enqueue(context.Background(), Job{
		Name:           "publish_publication",
		Payload:        testPayload{PublicationID: 1},
		IdempotencyKey: "publication-1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, sid, again)
}

func TestWorker_UnknownHandlerFailsTask(t *testing.T) {
	repo := setupTaskRepo(t)
	log := logger.NewLogger()
	d := NewDurableDispatcher(repo, log, 3)
	w := NewWorker(repo, log, WorkerConfig{
		Workers:      1,
		PollInterval: 10 * time.Millisecond,
	})

	sid, err := d.Enqueue(context.Background(), Job{Name: "no_such_handler", Payload: testPayload{}})
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		stored, err := repo.GetBySID(context.Background(), sid)
		return err == nil && stored != nil && stored.Status() == task.StatusFailed
	}, 5*time.Second, 20*time.Millisecond)
}

func TestInMemoryDispatcher(t *testing.T) {
	d := NewInMemoryDispatcher()
	ctx := context.Background()

	first, err := d.Enqueue(ctx, Job{Name: "publish_publication", Payload: testPayload{PublicationID: 1}, IdempotencyKey: "publication-1"})
	require.NoError(t, err)

	dup, err := d.Enqueue(ctx, Job{Name: "publish_publication", Payload: testPayload{PublicationID: 1}, IdempotencyKey: "publication-1"})
	require.NoError(t, err)
	assert.Equal(t, first, dup)
	assert.Len(t, d.Pending(), 1)

	d.MarkDone(first)
	assert.Empty(t, d.Pending())

	again, err := d.Enqueue(ctx, Job{Name: "publish_publication", Payload: testPayload{PublicationID: 1}, IdempotencyKey: "publication-1"})
	require.NoError(t, err)
	assert.NotEqual(t, first, again)
}
