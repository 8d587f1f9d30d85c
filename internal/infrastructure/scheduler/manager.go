// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"zavod/internal/shared/biztime"
	"zavod/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// DefaultSweepInterval is how often due publications are swept into the
// task queue when no interval is configured.
const DefaultSweepInterval = time.Minute

// SchedulerManager manages all scheduled jobs using gocron v2 behind a
// single scheduler instance.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterPublicationJobs registers the publication sweep:
// - Enqueue delivery tasks for scheduled publications whose time has come
//
// The sweep is the safety net behind direct enqueue-at-schedule-time, so a
// row whose task was lost still gets delivered.
func (m *SchedulerManager) RegisterPublicationJobs(sweepJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.sweepDuePublications(ctx, sweepJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("publication", "sweep"),
		gocron.WithName("publication-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered publication jobs", "sweep_interval", interval)
	return nil
}

func (m *SchedulerManager) sweepDuePublications(ctx context.Context, sweepJob BatchJob) {
	m.logger.Debugw("publication sweep started")

	startTime := biztime.NowUTC()

	enqueued, err := sweepJob.Execute(ctx)
	if err != nil {
		// Context cancellation means shutdown, not a sweep failure.
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("publication sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if enqueued > 0 {
		m.logger.Infow("due publications enqueued",
			"count", enqueued,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no due publications",
			"duration", time.Since(startTime),
		)
	}
}

// RegisterDispatchMaintenanceJobs registers queue upkeep:
// - Requeue tasks whose worker died mid-run and left them claimed
func (m *SchedulerManager) RegisterDispatchMaintenanceJobs(requeueJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.requeueStuckTasks(ctx, requeueJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("dispatch", "requeue-stuck"),
		gocron.WithName("dispatch-requeue-stuck"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered dispatch maintenance jobs", "interval", interval)
	return nil
}

func (m *SchedulerManager) requeueStuckTasks(ctx context.Context, requeueJob BatchJob) {
	requeued, err := requeueJob.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("failed to requeue stuck tasks", "error", err)
		return
	}

	if requeued > 0 {
		m.logger.Warnw("stuck tasks requeued", "count", requeued)
	}
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	// Shutdown scheduler and wait for running jobs
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
