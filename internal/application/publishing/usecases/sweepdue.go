package usecases

import (
	"context"
	"fmt"

	"zavod/internal/domain/project"
	"zavod/internal/domain/publication"
	"zavod/internal/infrastructure/dispatch"
	"zavod/internal/shared/biztime"
	"zavod/internal/shared/constants"
	"zavod/internal/shared/logger"
)

// DefaultSweepBatchSize caps how many due publications one sweep tick
// enqueues.
const DefaultSweepBatchSize = 100

// SweepDuePublicationsUseCase enqueues delivery tasks for scheduled
// publications whose slot has arrived. The sweep is the safety net behind
// the per-publication tasks created at scheduling time: dedup on the task
// key makes running both harmless.
type SweepDuePublicationsUseCase struct {
	publications publication.Repository
	projects     project.Repository
	dispatcher   dispatch.Dispatcher
	batchSize    int
	logger       logger.Interface
}

func NewSweepDuePublicationsUseCase(
	publications publication.Repository,
	projects project.Repository,
	dispatcher dispatch.Dispatcher,
	batchSize int,
	logger logger.Interface,
) *SweepDuePublicationsUseCase {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &SweepDuePublicationsUseCase{
		publications: publications,
		projects:     projects,
		dispatcher:   dispatcher,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Execute sweeps every active project. It satisfies the scheduler batch job
// contract.
func (uc *SweepDuePublicationsUseCase) Execute(ctx context.Context) (int, error) {
	return uc.sweep(ctx, 0)
}

// ExecuteForProject sweeps a single project, for targeted operator runs.
func (uc *SweepDuePublicationsUseCase) ExecuteForProject(ctx context.Context, projectID uint) (int, error) {
	return uc.sweep(ctx, projectID)
}

func (uc *SweepDuePublicationsUseCase) sweep(ctx context.Context, onlyProjectID uint) (int, error) {
	activeIDs, err := uc.projects.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active projects: %w", err)
	}
	active := make(map[uint]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}

	now := biztime.NowUTC()
	due, err := uc.publications.ListDueScheduled(ctx, now, uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due publications: %w", err)
	}

	enqueued := 0
	for _, pub := range due {
		if onlyProjectID != 0 && pub.ProjectID() != onlyProjectID {
			continue
		}
		// Archived projects keep their rows but stop delivering.
		if _, ok := active[pub.ProjectID()]; !ok {
			uc.logger.Debugw("skipping due publication of inactive project",
				"publication_id", pub.ID(),
				"project_id", pub.ProjectID(),
			)
			continue
		}

		_, err := uc.dispatcher.Enqueue(ctx, dispatch.Job{
			Name:           constants.TaskPublishPublication,
			Payload:        PublishPayload{PublicationID: pub.ID()},
			IdempotencyKey: publication.PublishTaskKey(pub.ID()),
		})
		if err != nil {
			uc.logger.Errorw("failed to enqueue due publication",
				"publication_id", pub.ID(),
				"project_id", pub.ProjectID(),
				"error", err,
			)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
