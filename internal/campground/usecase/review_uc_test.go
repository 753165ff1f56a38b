package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	natsAdapter "github.com/trailpost/campground-service/internal/adapter/messaging/nats"
	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
	"github.com/trailpost/campground-service/internal/platform/metrics"
)

type reviewFixture struct {
	repo        *MockReviewRepository
	campgrounds *MockCampgroundRepository
	users       *MockUserRepository
	events      *MockEventPublisher
	mailer      *MockMailer
	uc          *ReviewUsecase
}

func newReviewFixture(t *testing.T, withMailer bool) *reviewFixture {
	t.Helper()
	f := &reviewFixture{
		repo:        new(MockReviewRepository),
		campgrounds: new(MockCampgroundRepository),
		users:       new(MockUserRepository),
		events:      new(MockEventPublisher),
	}
	var mailer Mailer
	if withMailer {
		f.mailer = new(MockMailer)
		mailer = f.mailer
	}
	f.uc = NewReviewUsecase(f.repo, f.campgrounds, f.users, f.events, nil, mailer, metrics.NewManager("test"), logger.NewNop())
	return f
}

func TestReviewUsecase_Add(t *testing.T) {
	ctx := context.Background()
	reviewer := domain.Principal{ID: "user2", Username: "bob"}
	campground := &domain.Campground{ID: "camp1", Title: "Creek", AuthorID: "user1"}

	t.Run("Success", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.campgrounds.On("FindByID", ctx, "camp1").Return(campground, nil).Once()
		f.repo.On("Add", ctx, mock.AnythingOfType("*domain.Review")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Review).ID = "rev1"
		}).Return(nil).Once()
		f.events.On("Publish", ctx, natsAdapter.SubjectReviewCreated, mock.Anything).Return(nil).Once()

		review, err := f.uc.Add(ctx, reviewer, "camp1", "Lovely creek", 5)

		require.NoError(t, err)
		assert.Equal(t, "rev1", review.ID)
		assert.Equal(t, "camp1", review.CampgroundID)
		assert.Equal(t, "user2", review.AuthorID)
		assert.Equal(t, int32(5), review.Rating)
		f.repo.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("CampgroundMissing", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.campgrounds.On("FindByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

		_, err := f.uc.Add(ctx, reviewer, "missing", "Body", 4)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		f.repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("InvalidRating", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.campgrounds.On("FindByID", ctx, "camp1").Return(campground, nil).Once()

		_, err := f.uc.Add(ctx, reviewer, "camp1", "Body", 0)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("NotifiesCampgroundAuthor", func(t *testing.T) {
		f := newReviewFixture(t, true)
		f.campgrounds.On("FindByID", ctx, "camp1").Return(campground, nil).Once()
		f.repo.On("Add", ctx, mock.AnythingOfType("*domain.Review")).Return(nil).Once()
		f.events.On("Publish", ctx, natsAdapter.SubjectReviewCreated, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, "user1").Return(&domain.Principal{ID: "user1", Email: "alice@example.com"}, nil).Once()
		f.mailer.On("SendReviewReceivedEmail", "alice@example.com", "Creek").Return(nil).Once()

		_, err := f.uc.Add(ctx, reviewer, "camp1", "Lovely creek", 5)

		require.NoError(t, err)
		f.mailer.AssertExpectations(t)
	})

	t.Run("MailerFailureDoesNotFailOperation", func(t *testing.T) {
		f := newReviewFixture(t, true)
		f.campgrounds.On("FindByID", ctx, "camp1").Return(campground, nil).Once()
		f.repo.On("Add", ctx, mock.AnythingOfType("*domain.Review")).Return(nil).Once()
		f.events.On("Publish", ctx, natsAdapter.SubjectReviewCreated, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, "user1").Return(&domain.Principal{ID: "user1", Email: "alice@example.com"}, nil).Once()
		f.mailer.On("SendReviewReceivedEmail", "alice@example.com", "Creek").Return(errors.New("smtp down")).Once()

		_, err := f.uc.Add(ctx, reviewer, "camp1", "Lovely creek", 5)

		require.NoError(t, err)
	})
}

func TestReviewUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	reviewer := domain.Principal{ID: "user2"}
	campgroundOwner := domain.Principal{ID: "user1"}
	review := &domain.Review{ID: "rev1", CampgroundID: "camp1", AuthorID: "user2", Body: "Body", Rating: 4}

	t.Run("AuthorCanDelete", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.repo.On("GetByID", ctx, "rev1").Return(review, nil).Once()
		f.repo.On("Delete", ctx, "camp1", "rev1").Return(nil).Once()
		f.events.On("Publish", ctx, natsAdapter.SubjectReviewDeleted, mock.Anything).Return(nil).Once()

		err := f.uc.Delete(ctx, reviewer, "camp1", "rev1")

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("CampgroundOwnerCannotDeleteOthersReview", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.repo.On("GetByID", ctx, "rev1").Return(review, nil).Once()

		err := f.uc.Delete(ctx, campgroundOwner, "camp1", "rev1")

		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MismatchedCampgroundTreatedAsMissing", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.repo.On("GetByID", ctx, "rev1").Return(review, nil).Once()

		err := f.uc.Delete(ctx, reviewer, "other-camp", "rev1")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReviewMissing", func(t *testing.T) {
		f := newReviewFixture(t, false)
		f.repo.On("GetByID", ctx, "gone").Return(nil, domain.ErrNotFound).Once()

		err := f.uc.Delete(ctx, reviewer, "camp1", "gone")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
