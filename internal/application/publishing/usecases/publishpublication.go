package usecases

import (
	"context"
	"fmt"
	"time"

	"zavod/internal/domain/alert"
	"zavod/internal/domain/budget"
	"zavod/internal/domain/content"
	"zavod/internal/domain/publication"
	"zavod/internal/infrastructure/dispatch"
	"zavod/internal/infrastructure/platform"
	"zavod/internal/shared/biztime"
	"zavod/internal/shared/constants"
	apperrors "zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// RetryPolicy bounds the delivery retries owned by the publisher. This is
// the business-level ceiling per publication, independent of the task
// dispatcher's own requeue policy.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the production defaults: three attempts with
// exponential backoff from one minute up to fifteen.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Minute,
		MaxDelay:    15 * time.Minute,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	return p
}

// PublishPublicationUseCase executes one delivery attempt end to end:
// quality gate, budget admission, durable claim, platform call, and the
// bookkeeping that follows either outcome.
//
// Business rejections (quality, budget, bad credentials, unsupported
// platform, exhausted retries) are resolved here: the publication moves to
// its terminal state and Execute returns it with a nil error, so the task
// dispatcher treats the run as handled. Only store failures come back as
// errors, leaving the retry to the dispatcher.
type PublishPublicationUseCase struct {
	publications publication.Repository
	contents     content.Reader
	qcResults    content.QCResultSource
	budgetGate   BudgetGate
	usage        UsageRecorder
	credentials  CredentialSource
	registry     *platform.Registry
	dispatcher   dispatch.Dispatcher
	alerts       alert.Sink
	retry        RetryPolicy
	logger       logger.Interface
}

func NewPublishPublicationUseCase(
	publications publication.Repository,
	contents content.Reader,
	qcResults content.QCResultSource,
	budgetGate BudgetGate,
	usage UsageRecorder,
	credentials CredentialSource,
	registry *platform.Registry,
	dispatcher dispatch.Dispatcher,
	alerts alert.Sink,
	retry RetryPolicy,
	logger logger.Interface,
) *PublishPublicationUseCase {
	return &PublishPublicationUseCase{
		publications: publications,
		contents:     contents,
		qcResults:    qcResults,
		budgetGate:   budgetGate,
		usage:        usage,
		credentials:  credentials,
		registry:     registry,
		dispatcher:   dispatcher,
		alerts:       alerts,
		retry:        retry.normalized(),
		logger:       logger,
	}
}

func (uc *PublishPublicationUseCase) Execute(ctx context.Context, publicationID uint) (*publication.Publication, error) {
	pub, err := uc.publications.GetByID(ctx, publicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load publication %d: %w", publicationID, err)
	}
	if pub == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("publication %d not found", publicationID))
	}

	// Re-entry on a settled or in-flight row is a no-op: the dispatcher may
	// hand the same task to a worker twice, but delivery happens at most
	// once.
	if pub.IsTerminal() || pub.Status().IsPublishing() {
		uc.logger.Debugw("publication not actionable, skipping",
			"publication_id", pub.ID(),
			"status", pub.Status().String(),
		)
		return pub, nil
	}

	report, err := uc.qcResults.LatestResult(ctx, pub.ProjectID(), pub.ContentItemID())
	if err != nil {
		return nil, fmt.Errorf("failed to load quality report for content item %d: %w", pub.ContentItemID(), err)
	}
	if report == nil || !report.Passed() {
		return uc.failTerminally(ctx, pub, "qc_failed")
	}

	now := biztime.NowUTC()
	if err := uc.budgetGate.EnsureAdmission(ctx, pub.ProjectID(), 1, now); err != nil {
		if budget.IsLimitExceeded(err) || apperrors.IsNotFoundError(err) {
			return uc.failTerminally(ctx, pub, err.Error())
		}
		return nil, fmt.Errorf("failed to check budget admission: %w", err)
	}

	// The claim persists publishing plus the incremented attempt count
	// before any network call, so a crash mid-delivery surfaces as a stuck
	// publishing row instead of a double post.
	claimed, won, err := uc.publications.ClaimForPublishing(ctx, pub.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to claim publication %d: %w", pub.ID(), err)
	}
	if !won {
		uc.logger.Debugw("publication already claimed by another worker",
			"publication_id", pub.ID(),
			"status", claimed.Status().String(),
		)
		return claimed, nil
	}
	pub = claimed

	item, err := uc.contents.Get(ctx, pub.ProjectID(), pub.ContentItemID())
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return uc.failTerminally(ctx, pub, fmt.Sprintf("content item %d not found", pub.ContentItemID()))
		}
		return nil, fmt.Errorf("failed to load content item %d: %w", pub.ContentItemID(), err)
	}

	token, err := uc.credentials.Credential(ctx, pub.ProjectID(), pub.Platform().String())
	if err != nil {
		if apperrors.IsValidationError(err) {
			return uc.failTerminally(ctx, pub, err.Error())
		}
		return nil, err
	}

	adapter, err := uc.registry.Get(pub.Platform())
	if err != nil {
		return uc.failTerminally(ctx, pub, err.Error())
	}

	ref, err := adapter.Publish(ctx, platform.Request{
		Credentials: token,
		Body:        item.Body(),
		Metadata:    item.Metadata(),
	})
	if err != nil {
		return uc.resolveDeliveryFailure(ctx, pub, err)
	}

	publishedAt := biztime.NowUTC()
	if err := pub.CompletePublish(ref.PostID, ref.PostURL, publishedAt); err != nil {
		return nil, fmt.Errorf("failed to complete publication %d: %w", pub.ID(), err)
	}
	if err := uc.publications.Update(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to persist published publication %d: %w", pub.ID(), err)
	}

	uc.logger.Infow("publication delivered",
		"publication_id", pub.ID(),
		"project_id", pub.ProjectID(),
		"platform", pub.Platform().String(),
		"platform_post_id", ref.PostID,
		"attempt_count", pub.AttemptCount(),
	)

	// Usage lands after confirmed delivery. Failures here are advisory: the
	// post exists on the platform and is never rolled back.
	if err := uc.usage.RecordConfirmed(ctx, pub.ProjectID(), 1, publishedAt); err != nil {
		uc.logger.Errorw("failed to record publication usage",
			"publication_id", pub.ID(),
			"project_id", pub.ProjectID(),
			"error", err,
		)
	}
	return pub, nil
}

// failTerminally settles a business rejection: the publication moves to
// failed with the reason and the run counts as handled.
func (uc *PublishPublicationUseCase) failTerminally(ctx context.Context, pub *publication.Publication, reason string) (*publication.Publication, error) {
	if err := pub.Fail(reason); err != nil {
		return nil, fmt.Errorf("failed to mark publication %d failed: %w", pub.ID(), err)
	}
	if err := uc.publications.Update(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to persist failed publication %d: %w", pub.ID(), err)
	}
	uc.logger.Warnw("publication rejected",
		"publication_id", pub.ID(),
		"project_id", pub.ProjectID(),
		"platform", pub.Platform().String(),
		"reason", reason,
	)
	return pub, nil
}

// resolveDeliveryFailure decides between terminal failure and a rearmed
// retry after the platform call went wrong.
func (uc *PublishPublicationUseCase) resolveDeliveryFailure(ctx context.Context, pub *publication.Publication, cause error) (*publication.Publication, error) {
	errMsg := cause.Error()
	attempt := pub.AttemptCount()

	// Malformed metadata or an otherwise unpublishable item never improves
	// with retries.
	if apperrors.IsValidationError(cause) {
		return uc.failTerminally(ctx, pub, errMsg)
	}

	if attempt >= uc.retry.MaxAttempts {
		failed, err := uc.failTerminally(ctx, pub, errMsg)
		if err != nil {
			return nil, err
		}
		uc.alerts.Notify(ctx, pub.ProjectID(), constants.AlertTypePublicationFailed, constants.AlertSeverityCritical,
			fmt.Sprintf("publication %d failed after %d attempts: %s", pub.ID(), attempt, errMsg),
			map[string]interface{}{
				"publication_id": pub.ID(),
				"platform":       pub.Platform().String(),
				"attempt_count":  attempt,
				"last_error":     errMsg,
			},
		)
		return failed, nil
	}

	if err := pub.RearmForRetry(errMsg); err != nil {
		return nil, fmt.Errorf("failed to rearm publication %d: %w", pub.ID(), err)
	}
	if err := uc.publications.Update(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to persist rearmed publication %d: %w", pub.ID(), err)
	}

	delay := publication.RetryDelay(attempt, uc.retry.BaseDelay, uc.retry.MaxDelay)
	runAt := biztime.NowUTC().Add(delay)
	_, err := uc.dispatcher.Enqueue(ctx, dispatch.Job{
		Name:           constants.TaskPublishPublication,
		Payload:        PublishPayload{PublicationID: pub.ID()},
		RunAt:          runAt,
		IdempotencyKey: publication.RetryTaskKey(pub.ID(), attempt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue retry for publication %d: %w", pub.ID(), err)
	}

	uc.logger.Warnw("publication delivery failed, retry scheduled",
		"publication_id", pub.ID(),
		"project_id", pub.ProjectID(),
		"platform", pub.Platform().String(),
		"attempt_count", attempt,
		"retry_at", runAt,
		"error", errMsg,
	)
	return pub, nil
}
