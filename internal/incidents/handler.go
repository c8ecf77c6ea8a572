package incidents

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers incident routes. All routes require authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// CreateIncidentRequest represents the incident creation body.
type CreateIncidentRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	CategoryID  *string `json:"categoryId" validate:"omitempty,uuid"`
}

// UpdateIncidentRequest represents the incident update body. Status is the
// requested target state as a wire integer (0=Open, 1=InProgress, 2=Closed);
// a resolution is required when closing.
type UpdateIncidentRequest struct {
	Description string `json:"description" validate:"max=1000"`
	Status      int    `json:"status" validate:"oneof=0 1 2"`
	Resolution  string `json:"resolution" validate:"required_if=Status 2,max=1000"`
}

// IncidentResponse represents an incident in API responses.
type IncidentResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CategoryID   *string    `json:"categoryId"`
	CategoryName *string    `json:"categoryName"`
	Status       int        `json:"status"`
	Resolution   string     `json:"resolution"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrNotFound, Status: http.StatusNotFound, Message: "incident not found"},
	{Error: ErrConcurrencyConflict, Status: http.StatusConflict, Message: "incident was modified concurrently, re-read and retry"},
	{Error: domain.ErrInvalidTransition, Status: http.StatusConflict},
}

// List handles GET /incidents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	incidents, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, h.toResponse(r.Context(), incident))
	}

	httputil.Success(w, http.StatusOK, responses)
}

// Get handles GET /incidents/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	incident, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, h.toResponse(r.Context(), incident))
}

// Create handles POST /incidents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	userID := httputil.GetUserID(r.Context())

	incident, err := h.service.Create(r.Context(), CreateIncidentInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}, userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, h.toResponse(r.Context(), incident))
}

// Update handles PUT /incidents/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	userID := httputil.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	incident, err := h.service.Update(r.Context(), id, userID, UpdateIncidentInput{
		Description: req.Description,
		Status:      domain.IncidentStatus(req.Status),
		Resolution:  req.Resolution,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, h.toResponse(r.Context(), incident))
}

// Delete handles DELETE /incidents/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toResponse(ctx context.Context, incident *domain.Incident) IncidentResponse {
	return IncidentResponse{
		ID:           incident.ID,
		Title:        incident.Title,
		Description:  incident.Description,
		CategoryID:   incident.CategoryID,
		CategoryName: h.service.CategoryName(ctx, incident),
		Status:       int(incident.Status),
		Resolution:   incident.Resolution,
		CreatedAt:    incident.CreatedAt,
		UpdatedAt:    incident.UpdatedAt,
	}
}
