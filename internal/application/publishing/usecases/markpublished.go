package usecases

import (
	"context"
	"fmt"
	"time"

	"zavod/internal/domain/publication"
	"zavod/internal/shared/biztime"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// MarkPublishedCommand reconciles a publication with a post that is known to
// exist on the platform, such as after a crash left a publishing row behind.
type MarkPublishedCommand struct {
	PublicationID   uint
	PlatformPostID  string
	PlatformPostURL string
	// PublishedAt is when the post went live; zero means now.
	PublishedAt time.Time
}

// MarkPublishedUseCase settles a scheduled or publishing row as published
// out of band. Calling it on an already published row changes nothing.
type MarkPublishedUseCase struct {
	publications publication.Repository
	logger       logger.Interface
}

func NewMarkPublishedUseCase(publications publication.Repository, logger logger.Interface) *MarkPublishedUseCase {
	return &MarkPublishedUseCase{
		publications: publications,
		logger:       logger,
	}
}

func (uc *MarkPublishedUseCase) Execute(ctx context.Context, cmd MarkPublishedCommand) (*publication.Publication, error) {
	if cmd.PublicationID == 0 {
		return nil, apperrors.NewValidationError("publication ID is required")
	}
	if cmd.PlatformPostID == "" {
		return nil, apperrors.NewValidationError("platform post ID is required")
	}

	pub, err := uc.publications.GetByID(ctx, cmd.PublicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load publication %d: %w", cmd.PublicationID, err)
	}
	if pub == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("publication %d not found", cmd.PublicationID))
	}

	if pub.Status().IsPublished() {
		uc.logger.Debugw("publication already published, nothing to reconcile",
			"publication_id", pub.ID(),
		)
		return pub, nil
	}
	if pub.Status().IsFailed() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("publication %d already failed", cmd.PublicationID))
	}

	publishedAt := cmd.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = biztime.NowUTC()
	}

	// A scheduled row first consumes the attempt the out-of-band delivery
	// represents.
	if pub.Status().IsScheduled() {
		if err := pub.BeginAttempt(); err != nil {
			return nil, fmt.Errorf("failed to begin attempt on publication %d: %w", cmd.PublicationID, err)
		}
	}
	if err := pub.CompletePublish(cmd.PlatformPostID, cmd.PlatformPostURL, publishedAt); err != nil {
		return nil, fmt.Errorf("failed to mark publication %d published: %w", cmd.PublicationID, err)
	}
	if err := uc.publications.Update(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to persist publication %d: %w", cmd.PublicationID, err)
	}

	uc.logger.Infow("publication reconciled as published",
		"publication_id", pub.ID(),
		"project_id", pub.ProjectID(),
		"platform", pub.Platform().String(),
		"platform_post_id", cmd.PlatformPostID,
	)
	return pub, nil
}
