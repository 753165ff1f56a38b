package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/trailpost/campground-service/internal/adapter/http/middleware"
	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/campground/usecase"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

const maxUploadBytes = 32 << 20

// CampgroundHandler exposes the campground lifecycle over JSON/multipart.
type CampgroundHandler struct {
	usecase *usecase.CampgroundUsecase
	logger  *logger.Logger
}

func NewCampgroundHandler(uc *usecase.CampgroundUsecase, log *logger.Logger) *CampgroundHandler {
	return &CampgroundHandler{usecase: uc, logger: log.Named("CampgroundHandler")}
}

// Create handles POST /campgrounds as multipart/form-data with scalar
// fields plus zero or more "images" files.
func (h *CampgroundHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid multipart form"})
		return
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid price"})
		return
	}

	files, err := readUploadedFiles(r, "images")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "failed to read uploaded files"})
		return
	}

	campground, err := h.usecase.Create(r.Context(), principal, usecase.CreateInput{
		Title:       r.FormValue("title"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
		Price:       price,
		Files:       files,
	})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toCampgroundResponse(campground))
}

// Get handles GET /campgrounds/{id}, returning the expanded view.
func (h *CampgroundHandler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.usecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, toDetailsResponse(details))
}

// List handles GET /campgrounds with optional query/price/author filters.
func (h *CampgroundHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.Filter{
		Query:    r.URL.Query().Get("q"),
		AuthorID: r.URL.Query().Get("author"),
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		filter.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.ParseInt(v, 10, 32); err == nil {
			filter.Page = int32(page)
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.ParseInt(v, 10, 32); err == nil {
			filter.Limit = int32(limit)
		}
	}

	campgrounds, total, err := h.usecase.List(r.Context(), filter)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	items := make([]campgroundResponse, 0, len(campgrounds))
	for _, c := range campgrounds {
		items = append(items, toCampgroundResponse(c))
	}
	render.JSON(w, r, map[string]interface{}{"campgrounds": items, "total": total})
}

// Update handles PUT /campgrounds/{id} as multipart/form-data. Scalar
// fields are optional; "images" adds files, "delete_images" lists storage
// identifiers to drop.
func (h *CampgroundHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid multipart form"})
		return
	}

	in := usecase.UpdateInput{
		Title:    r.FormValue("title"),
		Location: r.FormValue("location"),
	}
	if _, present := r.Form["description"]; present {
		description := r.FormValue("description")
		in.Description = &description
	}
	if v := r.FormValue("price"); v != "" {
		price, err := parsePrice(v)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid price"})
			return
		}
		in.Price = &price
	}
	in.DeleteImages = r.Form["delete_images"]

	files, err := readUploadedFiles(r, "images")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "failed to read uploaded files"})
		return
	}
	in.NewFiles = files

	result, err := h.usecase.Update(r.Context(), principal, chi.URLParam(r, "id"), in)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	resp := map[string]interface{}{"campground": toCampgroundResponse(result.Campground)}
	if len(result.FailedAssetDeletes) > 0 {
		resp["failed_asset_deletes"] = result.FailedAssetDeletes
	}
	render.JSON(w, r, resp)
}

// Delete handles DELETE /campgrounds/{id}.
func (h *CampgroundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	result, err := h.usecase.Delete(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	resp := map[string]interface{}{"deleted": true}
	if len(result.FailedAssetDeletes) > 0 {
		resp["failed_asset_deletes"] = result.FailedAssetDeletes
	}
	render.JSON(w, r, resp)
}

func parsePrice(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func readUploadedFiles(r *http.Request, field string) ([]domain.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	files := make([]domain.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, domain.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
