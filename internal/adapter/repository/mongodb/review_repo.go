package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

// ReviewRepository implements domain.ReviewRepository on MongoDB. Both
// writes of every operation (review document and the parent campground's
// reference list) run through runTxn.
type ReviewRepository struct {
	collection  *mongo.Collection
	campgrounds *mongo.Collection
	client      *mongo.Client
	logger      *logger.Logger
}

func NewReviewRepository(db *mongo.Database, log *logger.Logger) (*ReviewRepository, error) {
	collection := db.Collection(reviewCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "campground_id", Value: 1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for reviews collection", zap.Error(err))
	}

	return &ReviewRepository{
		collection:  collection,
		campgrounds: db.Collection(campgroundCollectionName),
		client:      db.Client(),
		logger:      log.Named("ReviewRepository"),
	}, nil
}

// Add inserts the review and appends its reference to the parent
// campground.
func (r *ReviewRepository) Add(ctx context.Context, review *domain.Review) error {
	doc, err := toReviewDocument(review)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now

	err = runTxn(ctx, r.client, func(ctx context.Context) error {
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("%w: review insert failed: %v", domain.ErrRepository, err)
		}

		update := bson.M{
			"$push": bson.M{"review_ids": doc.ID},
			"$set":  bson.M{"updated_at": now},
		}
		result, err := r.campgrounds.UpdateOne(ctx, bson.M{"_id": doc.CampgroundID}, update)
		if err != nil {
			return fmt.Errorf("%w: reference append failed: %v", domain.ErrRepository, err)
		}
		if result.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to add review",
			zap.String("campground_id", review.CampgroundID),
			zap.String("author_id", review.AuthorID),
			zap.Error(err))
		return err
	}

	review.ID = doc.ID.Hex()
	review.CreatedAt = now
	r.logger.Info("Review added", zap.String("review_id", review.ID), zap.String("campground_id", review.CampgroundID))
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc reviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: findone failed: %v", domain.ErrRepository, err)
	}
	return toDomainReview(&doc), nil
}

// Delete removes the reference from the campground and deletes the review
// document as one logical unit.
func (r *ReviewRepository) Delete(ctx context.Context, campgroundID, reviewID string) error {
	campgroundOID, err := primitive.ObjectIDFromHex(campgroundID)
	if err != nil {
		return domain.ErrNotFound
	}
	reviewOID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return domain.ErrNotFound
	}

	err = runTxn(ctx, r.client, func(ctx context.Context) error {
		update := bson.M{
			"$pull": bson.M{"review_ids": reviewOID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		}
		if _, err := r.campgrounds.UpdateOne(ctx, bson.M{"_id": campgroundOID}, update); err != nil {
			return fmt.Errorf("%w: reference pull failed: %v", domain.ErrRepository, err)
		}

		result, err := r.collection.DeleteOne(ctx, bson.M{"_id": reviewOID, "campground_id": campgroundOID})
		if err != nil {
			return fmt.Errorf("%w: review delete failed: %v", domain.ErrRepository, err)
		}
		if result.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete review",
			zap.String("campground_id", campgroundID),
			zap.String("review_id", reviewID),
			zap.Error(err))
		return err
	}

	r.logger.Info("Review deleted", zap.String("review_id", reviewID), zap.String("campground_id", campgroundID))
	return nil
}
