package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

const (
	campgroundCollectionName = "campgrounds"
	reviewCollectionName     = "reviews"
	userCollectionName       = "users"
)

// CampgroundRepository implements domain.CampgroundRepository on MongoDB.
type CampgroundRepository struct {
	collection *mongo.Collection
	reviews    *mongo.Collection
	client     *mongo.Client
	logger     *logger.Logger
}

// NewCampgroundRepository creates the repository and ensures its indexes.
func NewCampgroundRepository(db *mongo.Database, log *logger.Logger) (*CampgroundRepository, error) {
	collection := db.Collection(campgroundCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}, {Key: "location", Value: "text"}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be managed externally; log and continue.
		log.Error("Failed to create indexes for campgrounds collection", zap.Error(err))
	}

	return &CampgroundRepository{
		collection: collection,
		reviews:    db.Collection(reviewCollectionName),
		client:     db.Client(),
		logger:     log.Named("CampgroundRepository"),
	}, nil
}

func (r *CampgroundRepository) Create(ctx context.Context, c *domain.Campground) error {
	doc, err := toCampgroundDocument(c)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert campground", zap.Error(err))
		return fmt.Errorf("%w: insert failed: %v", domain.ErrRepository, err)
	}

	c.ID = doc.ID.Hex()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.logger.Info("Campground created", zap.String("campground_id", c.ID), zap.String("author_id", c.AuthorID))
	return nil
}

// Update persists the scalar fields and the image list. The author
// reference and the review reference list are never touched here: the
// author is immutable and review references are owned by the review
// operations.
func (r *CampgroundRepository) Update(ctx context.Context, c *domain.Campground) error {
	doc, err := toCampgroundDocument(c)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	doc.UpdatedAt = time.Now().UTC()
	c.UpdatedAt = doc.UpdatedAt

	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"location":    doc.Location,
		"geometry":    doc.Geometry,
		"images":      doc.Images,
		"price":       doc.Price,
		"description": doc.Description,
		"updated_at":  doc.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update campground", zap.String("campground_id", c.ID), zap.Error(err))
		return fmt.Errorf("%w: update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CampgroundRepository) FindByID(ctx context.Context, id string) (*domain.Campground, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc campgroundDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find campground", zap.String("campground_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: findone failed: %v", domain.ErrRepository, err)
	}
	return toDomainCampground(&doc), nil
}

func (r *CampgroundRepository) FindAll(ctx context.Context, filter domain.Filter) ([]*domain.Campground, int64, error) {
	query := bson.M{}
	if filter.Query != "" {
		query["$text"] = bson.M{"$search": filter.Query}
	}
	if filter.MinPrice > 0 && filter.MaxPrice > 0 {
		query["price"] = bson.M{"$gte": filter.MinPrice, "$lte": filter.MaxPrice}
	} else if filter.MinPrice > 0 {
		query["price"] = bson.M{"$gte": filter.MinPrice}
	} else if filter.MaxPrice > 0 {
		query["price"] = bson.M{"$lte": filter.MaxPrice}
	}
	if filter.AuthorID != "" {
		query["author_id"] = filter.AuthorID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count failed: %v", domain.ErrRepository, err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
		if filter.Page > 1 {
			opts.SetSkip(int64(filter.Page-1) * int64(filter.Limit))
		}
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []campgroundDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("%w: cursor failed: %v", domain.ErrRepository, err)
	}

	campgrounds := make([]*domain.Campground, 0, len(docs))
	for i := range docs {
		campgrounds = append(campgrounds, toDomainCampground(&docs[i]))
	}
	return campgrounds, total, nil
}

// FindDetails expands the review references into full reviews with their
// authors resolved, plus the campground's own author, in one aggregation.
func (r *CampgroundRepository) FindDetails(ctx context.Context, id string) (*domain.CampgroundDetails, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": oid}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": reviewCollectionName,
			"let":  bson.M{"ids": "$review_ids"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{"$expr": bson.M{"$in": bson.A{"$_id", "$$ids"}}}}},
				bson.D{{Key: "$sort", Value: bson.M{"created_at": 1}}},
				bson.D{{Key: "$lookup", Value: bson.M{
					"from":         userCollectionName,
					"localField":   "author_id",
					"foreignField": "_id",
					"as":           "author",
				}}},
				bson.D{{Key: "$unwind", Value: bson.M{"path": "$author", "preserveNullAndEmptyArrays": true}}},
			},
			"as": "reviews",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         userCollectionName,
			"localField":   "author_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$author", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Details aggregation failed", zap.String("campground_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: aggregate failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []campgroundDetailsDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: cursor failed: %v", domain.ErrRepository, err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return toDomainDetails(&docs[0]), nil
}

func (r *CampgroundRepository) AppendImages(ctx context.Context, id string, images []domain.Image) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	update := bson.M{
		"$push": bson.M{"images": bson.M{"$each": toImageDocuments(images)}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to append images", zap.String("campground_id", id), zap.Error(err))
		return fmt.Errorf("%w: append images failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveImages pulls images by identifier, keeping the order of survivors.
// Identifiers with no matching entry are ignored, so repeating a removal
// leaves the sequence unchanged.
func (r *CampgroundRepository) RemoveImages(ctx context.Context, id string, filenames []string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	update := bson.M{
		"$pull": bson.M{"images": bson.M{"filename": bson.M{"$in": filenames}}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to remove images", zap.String("campground_id", id), zap.Error(err))
		return fmt.Errorf("%w: remove images failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCascade deletes the campground and every review referencing it as
// one logical unit, transactionally when the deployment supports it.
func (r *CampgroundRepository) DeleteCascade(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	return runTxn(ctx, r.client, func(ctx context.Context) error {
		deleted, err := r.reviews.DeleteMany(ctx, bson.M{"campground_id": oid})
		if err != nil {
			return fmt.Errorf("%w: cascade review delete failed: %v", domain.ErrRepository, err)
		}

		result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("%w: campground delete failed: %v", domain.ErrRepository, err)
		}
		if result.DeletedCount == 0 {
			return domain.ErrNotFound
		}

		r.logger.Info("Campground deleted with cascade",
			zap.String("campground_id", id),
			zap.Int64("reviews_deleted", deleted.DeletedCount))
		return nil
	})
}
