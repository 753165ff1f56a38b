package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trailpost/campground-service/internal/campground/domain"
)

type MockCampgroundRepository struct{ mock.Mock }

func (m *MockCampgroundRepository) Create(ctx context.Context, c *domain.Campground) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCampgroundRepository) Update(ctx context.Context, c *domain.Campground) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCampgroundRepository) FindByID(ctx context.Context, id string) (*domain.Campground, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campground), args.Error(1)
}
func (m *MockCampgroundRepository) FindAll(ctx context.Context, filter domain.Filter) ([]*domain.Campground, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Campground), args.Get(1).(int64), args.Error(2)
}
func (m *MockCampgroundRepository) FindDetails(ctx context.Context, id string) (*domain.CampgroundDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CampgroundDetails), args.Error(1)
}
func (m *MockCampgroundRepository) AppendImages(ctx context.Context, id string, images []domain.Image) error {
	args := m.Called(ctx, id, images)
	return args.Error(0)
}
func (m *MockCampgroundRepository) RemoveImages(ctx context.Context, id string, filenames []string) error {
	args := m.Called(ctx, id, filenames)
	return args.Error(0)
}
func (m *MockCampgroundRepository) DeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepository) Delete(ctx context.Context, campgroundID, reviewID string) error {
	args := m.Called(ctx, campgroundID, reviewID)
	return args.Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Resolve(ctx context.Context, query string) (domain.Geometry, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Geometry), args.Error(1)
}

type MockAssetStorage struct{ mock.Mock }

func (m *MockAssetStorage) Upload(ctx context.Context, files []domain.File) ([]domain.Image, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Image), args.Error(1)
}
func (m *MockAssetStorage) Remove(ctx context.Context, identifiers []string) []string {
	args := m.Called(ctx, identifiers)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockDetailsCache struct{ mock.Mock }

func (m *MockDetailsCache) GetDetails(ctx context.Context, id string) (*domain.CampgroundDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CampgroundDetails), args.Error(1)
}
func (m *MockDetailsCache) SetDetails(ctx context.Context, details *domain.CampgroundDetails) error {
	args := m.Called(ctx, details)
	return args.Error(0)
}
func (m *MockDetailsCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendReviewReceivedEmail(toEmail, campgroundTitle string) error {
	args := m.Called(toEmail, campgroundTitle)
	return args.Error(0)
}
