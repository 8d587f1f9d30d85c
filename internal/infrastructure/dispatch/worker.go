package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"zavod/internal/domain/task"
	"zavod/internal/shared/goroutine"
	"zavod/internal/shared/logger"
)

// HandlerFunc processes one task payload. A nil return completes the task;
// an error requeues it until the attempt ceiling, then fails it.
type HandlerFunc func(ctx context.Context, payload []byte) error

type WorkerConfig struct {
	Workers      int
	PollInterval time.Duration
	TaskTimeout  time.Duration
	RequeueDelay time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 2 * time.Minute
	}
	if c.RequeueDelay <= 0 {
		c.RequeueDelay = 30 * time.Second
	}
	return c
}

// Worker polls the task store and runs registered handlers. Retry here is
// the dispatch-level policy for handler crashes and store errors; business
// retries (delivery backoff and ceilings) belong to the handlers themselves.
type Worker struct {
	tasks  task.Repository
	logger logger.Interface
	cfg    WorkerConfig

	handlersMu sync.RWMutex
	handlers   map[string]HandlerFunc

	stopCh    chan struct{}
	wg        sync.WaitGroup
	started   bool
	startedMu sync.Mutex
}

func NewWorker(tasks task.Repository, log logger.Interface, cfg WorkerConfig) *Worker {
	return &Worker{
		tasks:    tasks,
		logger:   log,
		cfg:      cfg.withDefaults(),
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a handler to a task name. Register before Start.
func (w *Worker) Register(name string, fn HandlerFunc) {
	w.handlersMu.Lock()
	defer w.handlersMu.Unlock()
	w.handlers[name] = fn
}

func (w *Worker) handler(name string) (HandlerFunc, bool) {
	w.handlersMu.RLock()
	defer w.handlersMu.RUnlock()
	fn, ok := w.handlers[name]
	return fn, ok
}

// Start launches the polling pool.
func (w *Worker) Start() {
	w.startedMu.Lock()
	defer w.startedMu.Unlock()

	if w.started {
		return
	}

	w.stopCh = make(chan struct{})
	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		name := fmt.Sprintf("dispatch-worker-%d", i)
		goroutine.SafeGo(w.logger, name, func() {
			defer w.wg.Done()
			w.runLoop()
		})
	}

	w.started = true
	w.logger.Infow("dispatch worker pool started",
		"workers", w.cfg.Workers,
		"poll_interval", w.cfg.PollInterval,
	)
}

// Stop drains the pool. In-flight handlers finish their current task.
func (w *Worker) Stop() {
	w.startedMu.Lock()
	defer w.startedMu.Unlock()

	if !w.started {
		return
	}

	w.logger.Infow("stopping dispatch worker pool")
	close(w.stopCh)
	w.wg.Wait()
	w.started = false
	w.logger.Infow("dispatch worker pool stopped")
}

func (w *Worker) runLoop() {
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		if w.runOnce() {
			// Claimed and handled something; look for more work right away.
			continue
		}

		select {
		case <-w.stopCh:
			return
		case <-time.After(w.cfg.PollInterval):
		}
	}
}

// runOnce claims and handles at most one due task, reporting whether it did.
func (w *Worker) runOnce() bool {
	claimCtx, cancel := context.WithTimeout(context.Background(), w.cfg.PollInterval)
	t, err := w.tasks.ClaimNextDue(claimCtx, time.Now().UTC())
	cancel()
	if err != nil {
		w.logger.Errorw("failed to claim task", "error", err)
		return false
	}
	if t == nil {
		return false
	}

	w.handle(t)
	return true
}

func (w *Worker) handle(t *task.Task) {
	log := w.logger.With("task_sid", t.SID(), "task_name", t.Name(), "attempt", t.Attempts())

	fn, ok := w.handler(t.Name())
	if !ok {
		log.Errorw("no handler registered for task")
		w.finishFailed(t, fmt.Sprintf("no handler registered for %s", t.Name()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.TaskTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx, t.Payload())
	if err == nil {
		if cErr := t.Complete(); cErr != nil {
			log.Errorw("failed to complete task", "error", cErr)
			return
		}
		if uErr := w.tasks.Update(context.Background(), t); uErr != nil {
			log.Errorw("failed to persist completed task", "error", uErr)
			return
		}
		log.Debugw("task completed", "duration", time.Since(start))
		return
	}

	if t.IsExhausted() {
		log.Errorw("task failed permanently", "error", err, "attempts", t.Attempts())
		w.finishFailed(t, err.Error())
		return
	}

	runAt := time.Now().UTC().Add(w.cfg.RequeueDelay)
	if rErr := t.Requeue(err.Error(), runAt); rErr != nil {
		log.Errorw("failed to requeue task", "error", rErr)
		return
	}
	if uErr := w.tasks.Update(context.Background(), t); uErr != nil {
		log.Errorw("failed to persist requeued task", "error", uErr)
		return
	}
	log.Warnw("task requeued after handler error", "error", err, "run_at", runAt)
}

func (w *Worker) finishFailed(t *task.Task, reason string) {
	if err := t.MarkFailed(reason); err != nil {
		w.logger.Errorw("failed to mark task failed", "task_sid", t.SID(), "error", err)
		return
	}
	if err := w.tasks.Update(context.Background(), t); err != nil {
		w.logger.Errorw("failed to persist failed task", "task_sid", t.SID(), "error", err)
	}
}
