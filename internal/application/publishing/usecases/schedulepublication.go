package usecases

import (
	"context"
	"fmt"
	"time"

	"zavod/internal/domain/publication"
	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/infrastructure/dispatch"
	"zavod/internal/shared/constants"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// SchedulePublicationCommand books one content item for delivery to one
// platform at a given slot.
type SchedulePublicationCommand struct {
	ProjectID     uint
	ContentItemID uint
	Platform      string
	ScheduledAt   time.Time
	// IdempotencyKey lets callers bring their own dedup key; empty derives
	// the deterministic key from the scheduling tuple.
	IdempotencyKey string
}

// SchedulePublicationUseCase creates a publication and enqueues its delivery
// task in one transaction. Calling it again with the same tuple returns the
// existing publication unchanged.
type SchedulePublicationUseCase struct {
	publications publication.Repository
	dispatcher   dispatch.Dispatcher
	tx           TransactionRunner
	logger       logger.Interface
}

func NewSchedulePublicationUseCase(
	publications publication.Repository,
	dispatcher dispatch.Dispatcher,
	tx TransactionRunner,
	logger logger.Interface,
) *SchedulePublicationUseCase {
	return &SchedulePublicationUseCase{
		publications: publications,
		dispatcher:   dispatcher,
		tx:           tx,
		logger:       logger,
	}
}

func (uc *SchedulePublicationUseCase) Execute(ctx context.Context, cmd SchedulePublicationCommand) (*publication.Publication, error) {
	platform, err := vo.NewPlatform(cmd.Platform)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	pub, err := publication.NewPublication(cmd.ProjectID, cmd.ContentItemID, platform, cmd.ScheduledAt, cmd.IdempotencyKey)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	key := pub.IdempotencyKey()

	existing, err := uc.publications.GetByIdempotencyKey(ctx, cmd.ProjectID, key)
	if err != nil {
		uc.logger.Errorw("failed to look up publication by idempotency key",
			"project_id", cmd.ProjectID,
			"idempotency_key", key,
			"error", err,
		)
		return nil, fmt.Errorf("failed to look up publication: %w", err)
	}
	if existing != nil {
		uc.logger.Debugw("publication already scheduled",
			"project_id", cmd.ProjectID,
			"publication_id", existing.ID(),
			"idempotency_key", key,
		)
		return existing, nil
	}

	var winner *publication.Publication
	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.publications.Create(txCtx, pub); err != nil {
			// Two callers racing on the same tuple: the unique key on
			// (project_id, idempotency_key) lets exactly one insert win,
			// the loser returns the winner's row.
			if apperrors.IsDuplicateError(err) {
				raced, getErr := uc.publications.GetByIdempotencyKey(txCtx, cmd.ProjectID, key)
				if getErr != nil {
					return fmt.Errorf("failed to resolve racing publication: %w", getErr)
				}
				if raced != nil {
					winner = raced
					return nil
				}
			}
			return fmt.Errorf("failed to create publication: %w", err)
		}

		_, err := uc.dispatcher.Enqueue(txCtx, dispatch.Job{
			Name:           constants.TaskPublishPublication,
			Payload:        PublishPayload{PublicationID: pub.ID()},
			RunAt:          pub.ScheduledAt(),
			IdempotencyKey: publication.PublishTaskKey(pub.ID()),
		})
		if err != nil {
			return fmt.Errorf("failed to enqueue publish task: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to schedule publication",
			"project_id", cmd.ProjectID,
			"content_item_id", cmd.ContentItemID,
			"platform", platform.String(),
			"error", err,
		)
		return nil, err
	}

	if winner != nil {
		uc.logger.Debugw("publication already scheduled by concurrent caller",
			"project_id", cmd.ProjectID,
			"publication_id", winner.ID(),
			"idempotency_key", key,
		)
		return winner, nil
	}

	uc.logger.Infow("publication scheduled",
		"project_id", cmd.ProjectID,
		"publication_id", pub.ID(),
		"content_item_id", cmd.ContentItemID,
		"platform", platform.String(),
		"scheduled_at", pub.ScheduledAt(),
		"idempotency_key", key,
	)
	return pub, nil
}
