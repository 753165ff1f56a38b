package domain

import "context"

// CampgroundRepository is the persistence boundary for campgrounds.
// Implementations operate on the clean domain entities; database specific
// structures stay inside the adapter.
type CampgroundRepository interface {
	Create(ctx context.Context, c *Campground) error
	Update(ctx context.Context, c *Campground) error
	FindByID(ctx context.Context, id string) (*Campground, error)
	FindAll(ctx context.Context, filter Filter) ([]*Campground, int64, error)

	// FindDetails eagerly expands the review references into full reviews
	// with their authors' identities, plus the campground's own author.
	// Returns ErrNotFound when no such campground exists.
	FindDetails(ctx context.Context, id string) (*CampgroundDetails, error)

	AppendImages(ctx context.Context, id string, images []Image) error
	// RemoveImages drops images by identifier match, leaving the order of
	// remaining entries unchanged. Removing an identifier that is already
	// gone is a no-op.
	RemoveImages(ctx context.Context, id string, filenames []string) error

	// DeleteCascade deletes the campground and every review referencing it
	// as one logical unit.
	DeleteCascade(ctx context.Context, id string) error
}

// ReviewRepository manages review documents and keeps the parent
// campground's reference list consistent with them.
type ReviewRepository interface {
	// Add inserts the review and appends its reference to the parent
	// campground. Returns ErrNotFound when the campground is absent.
	Add(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	// Delete removes the reference from the campground and deletes the
	// review document as one logical unit.
	Delete(ctx context.Context, campgroundID, reviewID string) error
}

// UserRepository resolves principal projections for expanded reads and
// notifications. The auth subsystem owns the records.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*Principal, error)
}

// Geocoder translates a free-text location into normalized coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (Geometry, error)
}

// AssetStorage uploads image payloads to object storage and deletes them
// by identifier.
type AssetStorage interface {
	// Upload stores every payload and returns one image descriptor per
	// input, in input order. All-or-nothing: if any upload fails the whole
	// batch fails with an AssetError and nothing is reported as stored.
	Upload(ctx context.Context, files []File) ([]Image, error)
	// Remove deletes each identified asset independently, best-effort, and
	// returns the identifiers that could not be deleted.
	Remove(ctx context.Context, identifiers []string) (failed []string)
}
