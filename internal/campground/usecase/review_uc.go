package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/adapter/messaging/nats"
	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
	"github.com/trailpost/campground-service/internal/platform/metrics"
)

// ReviewUsecase manages review sub-resources of a campground.
type ReviewUsecase struct {
	repo        domain.ReviewRepository
	campgrounds domain.CampgroundRepository
	users       domain.UserRepository
	events      EventPublisher
	cache       DetailsCache
	mailer      Mailer
	metrics     *metrics.Manager
	logger      *logger.Logger
}

func NewReviewUsecase(
	repo domain.ReviewRepository,
	campgrounds domain.CampgroundRepository,
	users domain.UserRepository,
	events EventPublisher,
	cache DetailsCache,
	mailer Mailer,
	m *metrics.Manager,
	log *logger.Logger,
) *ReviewUsecase {
	return &ReviewUsecase{
		repo:        repo,
		campgrounds: campgrounds,
		users:       users,
		events:      events,
		cache:       cache,
		mailer:      mailer,
		metrics:     m,
		logger:      log.Named("ReviewUsecase"),
	}
}

// Add creates a review authored by the principal against an existing
// campground and appends its reference to the campground.
func (uc *ReviewUsecase) Add(ctx context.Context, principal domain.Principal, campgroundID, body string, rating int32) (*domain.Review, error) {
	start := time.Now()
	uc.logger.Info("Adding review",
		zap.String("campground_id", campgroundID),
		zap.String("author_id", principal.ID),
		zap.Int32("rating", rating))

	campground, err := uc.campgrounds.FindByID(ctx, campgroundID)
	if err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("add_review", "not_found").Inc()
		return nil, err
	}

	review, err := domain.NewReview(campgroundID, principal.ID, body, rating)
	if err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("add_review", "invalid_input").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.repo.Add(ctx, review); err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("add_review", "persistence").Inc()
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, campgroundID); err != nil {
			uc.logger.Warn("Cache invalidation failed", zap.String("campground_id", campgroundID), zap.Error(err))
		}
	}
	uc.publish(ctx, nats.SubjectReviewCreated, map[string]interface{}{
		"review_id":     review.ID,
		"campground_id": campgroundID,
		"author_id":     review.AuthorID,
		"rating":        review.Rating,
		"created_at":    review.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.notifyCampgroundAuthor(ctx, campground)
	uc.metrics.ReviewsCreatedTotal.Inc()
	uc.metrics.ObserveSince("add_review", start)

	uc.logger.Info("Review added", zap.String("review_id", review.ID))
	return review, nil
}

// Delete removes a review. Only the review's author may delete it; the
// campground's author gets no moderation power here.
func (uc *ReviewUsecase) Delete(ctx context.Context, principal domain.Principal, campgroundID, reviewID string) error {
	start := time.Now()
	uc.logger.Info("Deleting review",
		zap.String("campground_id", campgroundID),
		zap.String("review_id", reviewID),
		zap.String("principal_id", principal.ID))

	review, err := uc.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.CampgroundID != campgroundID {
		return domain.ErrNotFound
	}
	if domain.AuthorizeReview(principal.ID, review, domain.ActionMutate) == domain.Deny {
		uc.logger.Warn("Forbidden review delete",
			zap.String("review_id", reviewID),
			zap.String("review_author", review.AuthorID),
			zap.String("principal_id", principal.ID))
		uc.metrics.OperationErrorsTotal.WithLabelValues("delete_review", "forbidden").Inc()
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, campgroundID, reviewID); err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("delete_review", "persistence").Inc()
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, campgroundID); err != nil {
			uc.logger.Warn("Cache invalidation failed", zap.String("campground_id", campgroundID), zap.Error(err))
		}
	}
	uc.publish(ctx, nats.SubjectReviewDeleted, map[string]interface{}{
		"review_id":     reviewID,
		"campground_id": campgroundID,
		"author_id":     review.AuthorID,
		"deleted_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	uc.metrics.ReviewsDeletedTotal.Inc()
	uc.metrics.ObserveSince("delete_review", start)

	uc.logger.Info("Review deleted", zap.String("review_id", reviewID))
	return nil
}

// notifyCampgroundAuthor emails the campground's author about the new
// review, best-effort.
func (uc *ReviewUsecase) notifyCampgroundAuthor(ctx context.Context, campground *domain.Campground) {
	if uc.mailer == nil {
		return
	}
	author, err := uc.users.GetByID(ctx, campground.AuthorID)
	if err != nil || author.Email == "" {
		return
	}
	if err := uc.mailer.SendReviewReceivedEmail(author.Email, campground.Title); err != nil {
		uc.logger.Warn("Failed to send review notification",
			zap.String("campground_id", campground.ID),
			zap.Error(err))
	}
}

func (uc *ReviewUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
