package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

// JSON shapes returned by the API. The domain entities stay tag-free; the
// transport owns its own representation.

type imageResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type campgroundResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Geometry    domain.Geometry `json:"geometry"`
	Images      []imageResponse `json:"images"`
	Price       float64         `json:"price"`
	Description string          `json:"description"`
	AuthorID    string          `json:"author_id"`
	ReviewIDs   []string        `json:"review_ids"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type principalResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type reviewResponse struct {
	ID           string             `json:"id"`
	CampgroundID string             `json:"campground_id"`
	AuthorID     string             `json:"author_id"`
	Author       *principalResponse `json:"author,omitempty"`
	Body         string             `json:"body"`
	Rating       int32              `json:"rating"`
	CreatedAt    time.Time          `json:"created_at"`
}

type campgroundDetailsResponse struct {
	campgroundResponse
	Author  *principalResponse `json:"author,omitempty"`
	Reviews []reviewResponse   `json:"reviews"`
}

func toCampgroundResponse(c *domain.Campground) campgroundResponse {
	images := make([]imageResponse, 0, len(c.Images))
	for _, img := range c.Images {
		images = append(images, imageResponse{URL: img.URL, Filename: img.Filename})
	}
	return campgroundResponse{
		ID:          c.ID,
		Title:       c.Title,
		Location:    c.Location,
		Geometry:    c.Geometry,
		Images:      images,
		Price:       c.Price,
		Description: c.Description,
		AuthorID:    c.AuthorID,
		ReviewIDs:   c.ReviewIDs,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toDetailsResponse(d *domain.CampgroundDetails) campgroundDetailsResponse {
	resp := campgroundDetailsResponse{
		campgroundResponse: toCampgroundResponse(&d.Campground),
		Reviews:            make([]reviewResponse, 0, len(d.Reviews)),
	}
	if d.Author.ID != "" {
		resp.Author = &principalResponse{ID: d.Author.ID, Username: d.Author.Username}
	}
	for i := range d.Reviews {
		rd := &d.Reviews[i]
		review := reviewResponse{
			ID:           rd.ID,
			CampgroundID: rd.CampgroundID,
			AuthorID:     rd.AuthorID,
			Body:         rd.Body,
			Rating:       rd.Rating,
			CreatedAt:    rd.CreatedAt,
		}
		if rd.Author.ID != "" {
			review.Author = &principalResponse{ID: rd.Author.ID, Username: rd.Author.Username}
		}
		resp.Reviews = append(resp.Reviews, review)
	}
	return resp
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:           r.ID,
		CampgroundID: r.CampgroundID,
		AuthorID:     r.AuthorID,
		Body:         r.Body,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
	}
}

// renderError maps the domain error taxonomy onto HTTP statuses.
func renderError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var geocodeErr *domain.GeocodeError
	var assetErr *domain.AssetError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, map[string]string{"error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidInput):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	case errors.As(err, &geocodeErr):
		if geocodeErr.Kind == domain.GeocodeInvalidQuery || geocodeErr.Kind == domain.GeocodeNotFound {
			render.Status(r, http.StatusBadRequest)
		} else {
			render.Status(r, http.StatusBadGateway)
		}
		render.JSON(w, r, map[string]string{"error": geocodeErr.Error(), "kind": string(geocodeErr.Kind)})
	case errors.As(err, &assetErr):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, map[string]string{"error": assetErr.Error(), "kind": string(assetErr.Kind)})
	default:
		log.Error("Unhandled error", zap.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "internal server error"})
	}
}
