package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	natsAdapter "github.com/trailpost/campground-service/internal/adapter/messaging/nats"
	mongoRepo "github.com/trailpost/campground-service/internal/adapter/repository/mongodb"
	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/campground/usecase"
	platformLogger "github.com/trailpost/campground-service/internal/platform/logger"
	"github.com/trailpost/campground-service/internal/platform/metrics"
)

var (
	testDBClient       *mongo.Client
	testCampgroundRepo *mongoRepo.CampgroundRepository
	testReviewRepo     *mongoRepo.ReviewRepository
	testUserRepo       *mongoRepo.UserRepository
	testNatsPub        *natsAdapter.Publisher
	testLogger         *platformLogger.Logger
)

const testDatabase = "test_campgrounds_db"

// stubGeocoder returns a fixed point without touching the network.
type stubGeocoder struct{ geometry domain.Geometry }

func (s *stubGeocoder) Resolve(ctx context.Context, query string) (domain.Geometry, error) {
	return s.geometry, nil
}

// stubStorage records uploads and deletions in memory.
type stubStorage struct {
	stored map[string]bool
}

func newStubStorage() *stubStorage { return &stubStorage{stored: map[string]bool{}} }

func (s *stubStorage) Upload(ctx context.Context, files []domain.File) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(files))
	for _, f := range files {
		s.stored[f.Name] = true
		images = append(images, domain.Image{URL: "http://storage.local/" + f.Name, Filename: f.Name})
	}
	return images, nil
}

func (s *stubStorage) Remove(ctx context.Context, identifiers []string) []string {
	for _, id := range identifiers {
		delete(s.stored, id)
	}
	return nil
}

// TestMain starts MongoDB and NATS containers for the suite.
func TestMain(m *testing.M) {
	testLogger = platformLogger.NewLogger()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	mongoResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	mongoURI := fmt.Sprintf("mongodb://%s/%s", mongoResource.GetHostPort("27017/tcp"), testDatabase)

	natsResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "nats",
		Tag:        "2.9",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start NATS resource: %s", err)
	}
	natsURL := fmt.Sprintf("nats://%s", natsResource.GetHostPort("4222/tcp"))

	if err := pool.Retry(func() error {
		var errRetry error
		testDBClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if errRetry != nil {
			return errRetry
		}
		return testDBClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	if err := pool.Retry(func() error {
		var errRetry error
		testNatsPub, errRetry = natsAdapter.NewPublisher(natsURL, testLogger, "campground-service-integration")
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to NATS: %s", err)
	}

	db := testDBClient.Database(testDatabase)
	testCampgroundRepo, err = mongoRepo.NewCampgroundRepository(db, testLogger)
	if err != nil {
		log.Fatalf("Could not create campground repository: %s", err)
	}
	testReviewRepo, err = mongoRepo.NewReviewRepository(db, testLogger)
	if err != nil {
		log.Fatalf("Could not create review repository: %s", err)
	}
	testUserRepo = mongoRepo.NewUserRepository(db, testLogger)

	code := m.Run()

	if err := pool.Purge(mongoResource); err != nil {
		log.Fatalf("Could not purge MongoDB resource: %s", err)
	}
	if err := pool.Purge(natsResource); err != nil {
		log.Fatalf("Could not purge NATS resource: %s", err)
	}
	testNatsPub.Close()
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	t.Helper()
	db := testDBClient.Database(testDatabase)
	for _, name := range []string{"campgrounds", "reviews", "users"} {
		_, err := db.Collection(name).DeleteMany(context.Background(), bson.M{})
		require.NoError(t, err)
	}
}

func seedUser(t *testing.T, id, username, email string) {
	t.Helper()
	_, err := testDBClient.Database(testDatabase).Collection("users").InsertOne(context.Background(), bson.M{
		"_id":      id,
		"username": username,
		"email":    email,
	})
	require.NoError(t, err)
}

func newCampgroundUsecase(storage domain.AssetStorage) *usecase.CampgroundUsecase {
	geocoder := &stubGeocoder{geometry: domain.Geometry{Type: "Point", Coordinates: []float64{-119.5383, 37.8651}}}
	return usecase.NewCampgroundUsecase(testCampgroundRepo, geocoder, storage, testNatsPub, nil, metrics.NewManager("integration"), testLogger)
}

func newReviewUsecase() *usecase.ReviewUsecase {
	return usecase.NewReviewUsecase(testReviewRepo, testCampgroundRepo, testUserRepo, testNatsPub, nil, nil, metrics.NewManager("integration_reviews"), testLogger)
}

func TestCampgroundLifecycle(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	storage := newStubStorage()
	campgroundUC := newCampgroundUsecase(storage)
	reviewUC := newReviewUsecase()

	owner := domain.Principal{ID: "owner1", Username: "alice"}
	reviewer := domain.Principal{ID: "reviewer1", Username: "bob"}
	seedUser(t, "owner1", "alice", "alice@example.com")
	seedUser(t, "reviewer1", "bob", "bob@example.com")

	created, err := campgroundUC.Create(ctx, owner, usecase.CreateInput{
		Title:       "Creekside",
		Location:    "Yosemite Valley, CA",
		Description: "Granite views",
		Price:       42,
		Files: []domain.File{
			{Name: "view.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []float64{-119.5383, 37.8651}, created.Geometry.Coordinates)
	assert.True(t, storage.stored["view.jpg"])

	review, err := reviewUC.Add(ctx, reviewer, created.ID, "Lovely creek", 5)
	require.NoError(t, err)
	require.NotEmpty(t, review.ID)

	details, err := campgroundUC.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Creekside", details.Title)
	assert.Equal(t, "alice", details.Author.Username)
	require.Len(t, details.Reviews, 1)
	assert.Equal(t, "Lovely creek", details.Reviews[0].Body)
	assert.Equal(t, "bob", details.Reviews[0].Author.Username)
	assert.Equal(t, []string{review.ID}, details.ReviewIDs)

	// Non-author mutation is rejected before any state changes.
	_, err = campgroundUC.Update(ctx, reviewer, created.ID, usecase.UpdateInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Deleting takes the campground, its reviews, and its assets together.
	result, err := campgroundUC.Delete(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Empty(t, result.FailedAssetDeletes)
	assert.False(t, storage.stored["view.jpg"])

	_, err = campgroundUC.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := testDBClient.Database(testDatabase).Collection("reviews").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReviewReferenceConsistency(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	campgroundUC := newCampgroundUsecase(newStubStorage())
	reviewUC := newReviewUsecase()

	owner := domain.Principal{ID: "owner1", Username: "alice"}
	reviewer := domain.Principal{ID: "reviewer1", Username: "bob"}

	created, err := campgroundUC.Create(ctx, owner, usecase.CreateInput{
		Title: "Meadow", Location: "Tuolumne, CA", Price: 20,
	})
	require.NoError(t, err)

	first, err := reviewUC.Add(ctx, reviewer, created.ID, "Quiet", 4)
	require.NoError(t, err)
	second, err := reviewUC.Add(ctx, reviewer, created.ID, "Busy on weekends", 3)
	require.NoError(t, err)

	stored, err := testCampgroundRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, stored.ReviewIDs)

	// Only the review's author can remove it.
	err = reviewUC.Delete(ctx, owner, created.ID, first.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = reviewUC.Delete(ctx, reviewer, created.ID, first.ID)
	require.NoError(t, err)

	stored, err = testCampgroundRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, stored.ReviewIDs)

	// The document is gone too, not just the reference.
	_, err = testReviewRepo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImageRemovalIsIdempotent(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	storage := newStubStorage()
	campgroundUC := newCampgroundUsecase(storage)
	owner := domain.Principal{ID: "owner1"}

	created, err := campgroundUC.Create(ctx, owner, usecase.CreateInput{
		Title: "Ridge", Location: "Sierra, CA", Price: 15,
		Files: []domain.File{
			{Name: "a.jpg", Data: []byte{1}},
			{Name: "b.jpg", Data: []byte{2}},
		},
	})
	require.NoError(t, err)

	_, err = campgroundUC.Update(ctx, owner, created.ID, usecase.UpdateInput{DeleteImages: []string{"a.jpg"}})
	require.NoError(t, err)

	// Removing the same identifier again changes nothing.
	_, err = campgroundUC.Update(ctx, owner, created.ID, usecase.UpdateInput{DeleteImages: []string{"a.jpg"}})
	require.NoError(t, err)

	stored, err := testCampgroundRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.jpg"}, stored.ImageFilenames())
}
