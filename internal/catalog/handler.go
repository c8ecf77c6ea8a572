package catalog

import (
	"net/http"

	"github.com/akarpov/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the catalog module.
type Handler struct {
	service *Service
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, CategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}

	httputil.Success(w, http.StatusOK, responses)
}
