package usecase

import (
	"context"

	"github.com/trailpost/campground-service/internal/campground/domain"
)

// EventPublisher emits domain events. Publish failures are logged by the
// usecases and never fail the user-visible operation.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// DetailsCache caches expanded campground views. A nil cache is valid and
// disables caching.
type DetailsCache interface {
	GetDetails(ctx context.Context, id string) (*domain.CampgroundDetails, error)
	SetDetails(ctx context.Context, details *domain.CampgroundDetails) error
	Invalidate(ctx context.Context, id string) error
}

// Mailer sends best-effort notifications. A nil mailer disables them.
type Mailer interface {
	SendReviewReceivedEmail(toEmail, campgroundTitle string) error
}
