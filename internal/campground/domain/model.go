package domain

import (
	"errors"
	"strings"
	"time"
)

// Geometry is a GeoJSON point produced by the geocoding adapter.
// Coordinates are [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Image references an asset held in external object storage. Filename is
// the storage identifier used for deletion.
type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// File is an uploaded binary payload before it reaches object storage.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Principal is the identity of an authenticated actor. It is owned by the
// auth subsystem; the core only references it.
type Principal struct {
	ID       string
	Username string
	Email    string
}

// Campground is the primary entity of the platform. AuthorID is set once at
// creation and never reassigned. ReviewIDs mirrors the set of reviews whose
// CampgroundID points back here; every mutating operation must keep the two
// sides consistent.
type Campground struct {
	ID          string
	Title       string
	Location    string
	Geometry    Geometry
	Images      []Image
	Price       float64
	Description string
	AuthorID    string
	ReviewIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImageFilenames returns the storage identifiers of all images, in order.
func (c *Campground) ImageFilenames() []string {
	names := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		names = append(names, img.Filename)
	}
	return names
}

// Review is a sub-resource of a campground. AuthorID is immutable.
type Review struct {
	ID           string
	CampgroundID string
	AuthorID     string
	Body         string
	Rating       int32
	CreatedAt    time.Time
}

// NewCampground validates the scalar fields and builds a campground owned
// by the given principal. Geometry and images are attached by the caller
// once the external adapters have produced them.
func NewCampground(authorID, title, location, description string, price float64) (*Campground, error) {
	if authorID == "" {
		return nil, errors.New("authorID cannot be empty")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title cannot be empty")
	}
	if strings.TrimSpace(location) == "" {
		return nil, errors.New("location cannot be empty")
	}
	if price < 0 {
		return nil, errors.New("price cannot be negative")
	}

	now := time.Now().UTC()
	return &Campground{
		Title:       strings.TrimSpace(title),
		Location:    strings.TrimSpace(location),
		Description: description,
		Price:       price,
		AuthorID:    authorID,
		Images:      []Image{},
		ReviewIDs:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewReview validates and builds a review for an existing campground.
func NewReview(campgroundID, authorID, body string, rating int32) (*Review, error) {
	if campgroundID == "" {
		return nil, errors.New("campgroundID cannot be empty")
	}
	if authorID == "" {
		return nil, errors.New("authorID cannot be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("body cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	return &Review{
		CampgroundID: campgroundID,
		AuthorID:     authorID,
		Body:         strings.TrimSpace(body),
		Rating:       rating,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ReviewDetails is a review with its author's display identity resolved.
type ReviewDetails struct {
	Review
	Author Principal
}

// CampgroundDetails is the expanded read view: the campground, its author,
// and every review with that review's author resolved.
type CampgroundDetails struct {
	Campground
	Author  Principal
	Reviews []ReviewDetails
}

// Filter holds the parameters for listing campgrounds.
type Filter struct {
	Query    string
	MinPrice float64
	MaxPrice float64
	AuthorID string
	Page     int32
	Limit    int32
}
