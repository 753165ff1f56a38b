package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/trailpost/campground-service/internal/adapter/http/middleware"
	"github.com/trailpost/campground-service/internal/campground/usecase"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

// ReviewHandler exposes review creation and deletion under a campground.
type ReviewHandler struct {
	usecase *usecase.ReviewUsecase
	logger  *logger.Logger
}

func NewReviewHandler(uc *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{usecase: uc, logger: log.Named("ReviewHandler")}
}

type createReviewRequest struct {
	Body   string `json:"body"`
	Rating int32  `json:"rating"`
}

// Create handles POST /campgrounds/{id}/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	var req createReviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid request body"})
		return
	}

	review, err := h.usecase.Add(r.Context(), principal, chi.URLParam(r, "id"), req.Body, req.Rating)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toReviewResponse(review))
}

// Delete handles DELETE /campgrounds/{id}/reviews/{reviewID}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	err := h.usecase.Delete(r.Context(), principal, chi.URLParam(r, "id"), chi.URLParam(r, "reviewID"))
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"deleted": true})
}
