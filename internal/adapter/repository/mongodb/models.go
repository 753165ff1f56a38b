package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailpost/campground-service/internal/campground/domain"
)

// Documents mirror the domain entities with database-specific structure.
// The domain package stays free of bson tags; conversion happens here.

type geometryDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type imageDocument struct {
	URL      string `bson:"url"`
	Filename string `bson:"filename"`
}

type campgroundDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Location    string               `bson:"location"`
	Geometry    geometryDocument     `bson:"geometry"`
	Images      []imageDocument      `bson:"images"`
	Price       float64              `bson:"price"`
	Description string               `bson:"description"`
	AuthorID    string               `bson:"author_id"`
	ReviewIDs   []primitive.ObjectID `bson:"review_ids"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type reviewDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CampgroundID primitive.ObjectID `bson:"campground_id"`
	AuthorID     string             `bson:"author_id"`
	Body         string             `bson:"body"`
	Rating       int32              `bson:"rating"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// userDocument is the projection of a principal kept in the users
// collection. The auth subsystem owns the full records; only the display
// identity is read here.
type userDocument struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
	Email    string `bson:"email"`
}

// campgroundDetailsDocument is the shape produced by the expanded-read
// aggregation pipeline.
type campgroundDetailsDocument struct {
	ID          primitive.ObjectID      `bson:"_id"`
	Title       string                  `bson:"title"`
	Location    string                  `bson:"location"`
	Geometry    geometryDocument        `bson:"geometry"`
	Images      []imageDocument         `bson:"images"`
	Price       float64                 `bson:"price"`
	Description string                  `bson:"description"`
	AuthorID    string                  `bson:"author_id"`
	ReviewIDs   []primitive.ObjectID    `bson:"review_ids"`
	CreatedAt   time.Time               `bson:"created_at"`
	UpdatedAt   time.Time               `bson:"updated_at"`
	Author      *userDocument           `bson:"author"`
	Reviews     []reviewDetailsDocument `bson:"reviews"`
}

type reviewDetailsDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	CampgroundID primitive.ObjectID `bson:"campground_id"`
	AuthorID     string             `bson:"author_id"`
	Body         string             `bson:"body"`
	Rating       int32              `bson:"rating"`
	CreatedAt    time.Time          `bson:"created_at"`
	Author       *userDocument      `bson:"author"`
}

func toCampgroundDocument(c *domain.Campground) (*campgroundDocument, error) {
	if c == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if c.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid campground ID %q: %w", c.ID, err)
		}
	}

	reviewIDs := make([]primitive.ObjectID, 0, len(c.ReviewIDs))
	for _, id := range c.ReviewIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid review ID %q on campground %q: %w", id, c.ID, err)
		}
		reviewIDs = append(reviewIDs, oid)
	}

	return &campgroundDocument{
		ID:          docID,
		Title:       c.Title,
		Location:    c.Location,
		Geometry:    geometryDocument{Type: c.Geometry.Type, Coordinates: c.Geometry.Coordinates},
		Images:      toImageDocuments(c.Images),
		Price:       c.Price,
		Description: c.Description,
		AuthorID:    c.AuthorID,
		ReviewIDs:   reviewIDs,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

func toDomainCampground(d *campgroundDocument) *domain.Campground {
	if d == nil {
		return nil
	}
	reviewIDs := make([]string, 0, len(d.ReviewIDs))
	for _, oid := range d.ReviewIDs {
		reviewIDs = append(reviewIDs, oid.Hex())
	}
	return &domain.Campground{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Location:    d.Location,
		Geometry:    domain.Geometry{Type: d.Geometry.Type, Coordinates: d.Geometry.Coordinates},
		Images:      toDomainImages(d.Images),
		Price:       d.Price,
		Description: d.Description,
		AuthorID:    d.AuthorID,
		ReviewIDs:   reviewIDs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toImageDocuments(images []domain.Image) []imageDocument {
	docs := make([]imageDocument, 0, len(images))
	for _, img := range images {
		docs = append(docs, imageDocument{URL: img.URL, Filename: img.Filename})
	}
	return docs
}

func toDomainImages(docs []imageDocument) []domain.Image {
	images := make([]domain.Image, 0, len(docs))
	for _, doc := range docs {
		images = append(images, domain.Image{URL: doc.URL, Filename: doc.Filename})
	}
	return images
}

func toReviewDocument(r *domain.Review) (*reviewDocument, error) {
	if r == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if r.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid review ID %q: %w", r.ID, err)
		}
	}
	campgroundID, err := primitive.ObjectIDFromHex(r.CampgroundID)
	if err != nil {
		return nil, fmt.Errorf("invalid campground ID %q on review: %w", r.CampgroundID, err)
	}

	return &reviewDocument{
		ID:           docID,
		CampgroundID: campgroundID,
		AuthorID:     r.AuthorID,
		Body:         r.Body,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
	}, nil
}

func toDomainReview(d *reviewDocument) *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:           d.ID.Hex(),
		CampgroundID: d.CampgroundID.Hex(),
		AuthorID:     d.AuthorID,
		Body:         d.Body,
		Rating:       d.Rating,
		CreatedAt:    d.CreatedAt,
	}
}

func toDomainPrincipal(d *userDocument) domain.Principal {
	if d == nil {
		return domain.Principal{}
	}
	return domain.Principal{ID: d.ID, Username: d.Username, Email: d.Email}
}

func toDomainDetails(d *campgroundDetailsDocument) *domain.CampgroundDetails {
	if d == nil {
		return nil
	}

	reviewIDs := make([]string, 0, len(d.ReviewIDs))
	for _, oid := range d.ReviewIDs {
		reviewIDs = append(reviewIDs, oid.Hex())
	}

	reviews := make([]domain.ReviewDetails, 0, len(d.Reviews))
	for i := range d.Reviews {
		rd := &d.Reviews[i]
		reviews = append(reviews, domain.ReviewDetails{
			Review: domain.Review{
				ID:           rd.ID.Hex(),
				CampgroundID: rd.CampgroundID.Hex(),
				AuthorID:     rd.AuthorID,
				Body:         rd.Body,
				Rating:       rd.Rating,
				CreatedAt:    rd.CreatedAt,
			},
			Author: toDomainPrincipal(rd.Author),
		})
	}

	return &domain.CampgroundDetails{
		Campground: domain.Campground{
			ID:          d.ID.Hex(),
			Title:       d.Title,
			Location:    d.Location,
			Geometry:    domain.Geometry{Type: d.Geometry.Type, Coordinates: d.Geometry.Coordinates},
			Images:      toDomainImages(d.Images),
			Price:       d.Price,
			Description: d.Description,
			AuthorID:    d.AuthorID,
			ReviewIDs:   reviewIDs,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		},
		Author:  toDomainPrincipal(d.Author),
		Reviews: reviews,
	}
}
