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

// CampgroundUsecase orchestrates the campground lifecycle: geocoding and
// asset uploads on create, ownership-gated updates, and the best-effort
// two-system cascade on delete.
type CampgroundUsecase struct {
	repo     domain.CampgroundRepository
	geocoder domain.Geocoder
	storage  domain.AssetStorage
	events   EventPublisher
	cache    DetailsCache
	metrics  *metrics.Manager
	logger   *logger.Logger
}

func NewCampgroundUsecase(
	repo domain.CampgroundRepository,
	geocoder domain.Geocoder,
	storage domain.AssetStorage,
	events EventPublisher,
	cache DetailsCache,
	m *metrics.Manager,
	log *logger.Logger,
) *CampgroundUsecase {
	return &CampgroundUsecase{
		repo:     repo,
		geocoder: geocoder,
		storage:  storage,
		events:   events,
		cache:    cache,
		metrics:  m,
		logger:   log.Named("CampgroundUsecase"),
	}
}

// CreateInput holds the validated request fields for Create.
type CreateInput struct {
	Title       string
	Location    string
	Description string
	Price       float64
	Files       []domain.File
}

// UpdateInput holds the changes for Update. Empty strings and a nil price
// leave the corresponding field untouched.
type UpdateInput struct {
	Title        string
	Location     string
	Description  *string
	Price        *float64
	NewFiles     []domain.File
	DeleteImages []string
}

// UpdateResult reports the updated campground plus any storage identifiers
// the best-effort asset delete could not remove.
type UpdateResult struct {
	Campground         *domain.Campground
	FailedAssetDeletes []string
}

// DeleteResult reports which storage identifiers the best-effort asset
// delete could not remove; the document-side delete succeeded regardless.
type DeleteResult struct {
	FailedAssetDeletes []string
}

// Create geocodes the location, uploads the image payloads, and persists
// the campground owned by the principal. A failure of either external call
// aborts the whole operation: nothing is ever persisted for a failed
// create.
func (uc *CampgroundUsecase) Create(ctx context.Context, principal domain.Principal, in CreateInput) (*domain.Campground, error) {
	start := time.Now()
	uc.logger.Info("Creating campground",
		zap.String("author_id", principal.ID),
		zap.String("title", in.Title),
		zap.String("location", in.Location),
		zap.Int("file_count", len(in.Files)))

	campground, err := domain.NewCampground(principal.ID, in.Title, in.Location, in.Description, in.Price)
	if err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("create_campground", "invalid_input").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	geometry, err := uc.geocoder.Resolve(ctx, campground.Location)
	if err != nil {
		uc.logger.Warn("Geocoding failed, aborting create", zap.String("location", campground.Location), zap.Error(err))
		uc.metrics.OperationErrorsTotal.WithLabelValues("create_campground", "geocode").Inc()
		return nil, err
	}
	campground.Geometry = geometry

	if len(in.Files) > 0 {
		images, err := uc.storage.Upload(ctx, in.Files)
		if err != nil {
			uc.logger.Error("Image upload failed, aborting create", zap.Error(err))
			uc.metrics.OperationErrorsTotal.WithLabelValues("create_campground", "asset_upload").Inc()
			return nil, err
		}
		campground.Images = images
	}

	if err := uc.repo.Create(ctx, campground); err != nil {
		// The uploads already happened; reclaim them so a failed create
		// leaves nothing behind in either system.
		if failed := uc.storage.Remove(ctx, campground.ImageFilenames()); len(failed) > 0 {
			uc.reportFailedAssetDeletes(ctx, campground.ID, failed)
		}
		uc.metrics.OperationErrorsTotal.WithLabelValues("create_campground", "persistence").Inc()
		return nil, err
	}

	uc.publish(ctx, nats.SubjectCampgroundCreated, map[string]interface{}{
		"campground_id": campground.ID,
		"author_id":     campground.AuthorID,
		"title":         campground.Title,
		"created_at":    campground.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.metrics.CampgroundsCreatedTotal.Inc()
	uc.metrics.ObserveSince("create_campground", start)

	uc.logger.Info("Campground created", zap.String("campground_id", campground.ID))
	return campground, nil
}

// Get returns the expanded view: the campground, its author, and every
// review with the review's author resolved.
func (uc *CampgroundUsecase) Get(ctx context.Context, id string) (*domain.CampgroundDetails, error) {
	if uc.cache != nil {
		if details, err := uc.cache.GetDetails(ctx, id); err != nil {
			uc.logger.Warn("Cache read failed", zap.String("campground_id", id), zap.Error(err))
		} else if details != nil {
			return details, nil
		}
	}

	details, err := uc.repo.FindDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetDetails(ctx, details); err != nil {
			uc.logger.Warn("Cache write failed", zap.String("campground_id", id), zap.Error(err))
		}
	}
	return details, nil
}

// List returns campgrounds matching the filter plus the total count.
func (uc *CampgroundUsecase) List(ctx context.Context, filter domain.Filter) ([]*domain.Campground, int64, error) {
	if filter.Limit < 1 {
		filter.Limit = 20
	} else if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	return uc.repo.FindAll(ctx, filter)
}

// Update applies field changes, uploads new images, and removes requested
// ones. Only the author may update. Storage deletion is best-effort: the
// document record is the source of truth for what the user intended to
// remove, so the image entries are dropped even when the underlying
// storage delete partially failed.
func (uc *CampgroundUsecase) Update(ctx context.Context, principal domain.Principal, id string, in UpdateInput) (*UpdateResult, error) {
	start := time.Now()
	uc.logger.Info("Updating campground", zap.String("campground_id", id), zap.String("principal_id", principal.ID))

	campground, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.AuthorizeCampground(principal.ID, campground, domain.ActionMutate) == domain.Deny {
		uc.logger.Warn("Forbidden campground update",
			zap.String("campground_id", id),
			zap.String("owner_id", campground.AuthorID),
			zap.String("principal_id", principal.ID))
		uc.metrics.OperationErrorsTotal.WithLabelValues("update_campground", "forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	if in.Title != "" {
		campground.Title = in.Title
	}
	if in.Location != "" {
		campground.Location = in.Location
	}
	if in.Description != nil {
		campground.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
		}
		campground.Price = *in.Price
	}

	if err := uc.repo.Update(ctx, campground); err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("update_campground", "persistence").Inc()
		return nil, err
	}

	if len(in.NewFiles) > 0 {
		images, err := uc.storage.Upload(ctx, in.NewFiles)
		if err != nil {
			uc.metrics.OperationErrorsTotal.WithLabelValues("update_campground", "asset_upload").Inc()
			return nil, err
		}
		if err := uc.repo.AppendImages(ctx, id, images); err != nil {
			return nil, err
		}
		campground.Images = append(campground.Images, images...)
	}

	var failedDeletes []string
	if len(in.DeleteImages) > 0 {
		failedDeletes = uc.storage.Remove(ctx, in.DeleteImages)
		if len(failedDeletes) > 0 {
			uc.reportFailedAssetDeletes(ctx, id, failedDeletes)
		}
		if err := uc.repo.RemoveImages(ctx, id, in.DeleteImages); err != nil {
			return nil, err
		}
		campground.Images = dropImages(campground.Images, in.DeleteImages)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, id); err != nil {
			uc.logger.Warn("Cache invalidation failed", zap.String("campground_id", id), zap.Error(err))
		}
	}
	uc.publish(ctx, nats.SubjectCampgroundUpdated, map[string]interface{}{
		"campground_id": id,
		"author_id":     campground.AuthorID,
		"updated_at":    campground.UpdatedAt.Format(time.RFC3339Nano),
	})
	uc.metrics.CampgroundsUpdatedTotal.Inc()
	uc.metrics.ObserveSince("update_campground", start)

	return &UpdateResult{Campground: campground, FailedAssetDeletes: failedDeletes}, nil
}

// Delete removes the campground's assets from storage (best-effort), then
// deletes the document and every review referencing it. Only the author
// may delete.
func (uc *CampgroundUsecase) Delete(ctx context.Context, principal domain.Principal, id string) (*DeleteResult, error) {
	start := time.Now()
	uc.logger.Info("Deleting campground", zap.String("campground_id", id), zap.String("principal_id", principal.ID))

	campground, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.AuthorizeCampground(principal.ID, campground, domain.ActionMutate) == domain.Deny {
		uc.logger.Warn("Forbidden campground delete",
			zap.String("campground_id", id),
			zap.String("owner_id", campground.AuthorID),
			zap.String("principal_id", principal.ID))
		uc.metrics.OperationErrorsTotal.WithLabelValues("delete_campground", "forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	var failedDeletes []string
	if identifiers := campground.ImageFilenames(); len(identifiers) > 0 {
		failedDeletes = uc.storage.Remove(ctx, identifiers)
		if len(failedDeletes) > 0 {
			uc.reportFailedAssetDeletes(ctx, id, failedDeletes)
		}
	}

	if err := uc.repo.DeleteCascade(ctx, id); err != nil {
		uc.metrics.OperationErrorsTotal.WithLabelValues("delete_campground", "persistence").Inc()
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, id); err != nil {
			uc.logger.Warn("Cache invalidation failed", zap.String("campground_id", id), zap.Error(err))
		}
	}
	uc.publish(ctx, nats.SubjectCampgroundDeleted, map[string]interface{}{
		"campground_id": id,
		"author_id":     campground.AuthorID,
		"deleted_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	uc.metrics.CampgroundsDeletedTotal.Inc()
	uc.metrics.ObserveSince("delete_campground", start)

	uc.logger.Info("Campground deleted", zap.String("campground_id", id), zap.Int("failed_asset_deletes", len(failedDeletes)))
	return &DeleteResult{FailedAssetDeletes: failedDeletes}, nil
}

// reportFailedAssetDeletes emits the identifiers a best-effort storage
// delete left behind, for the operator reconciliation job.
func (uc *CampgroundUsecase) reportFailedAssetDeletes(ctx context.Context, campgroundID string, failed []string) {
	uc.metrics.AssetDeleteFailuresTotal.Add(float64(len(failed)))
	uc.publish(ctx, nats.SubjectAssetCleanupFailed, map[string]interface{}{
		"campground_id": campgroundID,
		"identifiers":   failed,
		"reported_at":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (uc *CampgroundUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func dropImages(images []domain.Image, filenames []string) []domain.Image {
	drop := make(map[string]struct{}, len(filenames))
	for _, f := range filenames {
		drop[f] = struct{}{}
	}
	kept := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if _, ok := drop[img.Filename]; !ok {
			kept = append(kept, img)
		}
	}
	return kept
}
