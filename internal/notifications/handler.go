package notifications

import (
	"net/http"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the notifications module.
type Handler struct {
	service *Service
}

// NewHandler creates a new notifications handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers notification routes. All routes require
// authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/{id}/mark-read", h.MarkRead)
		r.Post("/mark-all-read", h.MarkAllRead)
	})
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
	IncidentID *string   `json:"incidentId"`
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrNotificationNotFound, Status: http.StatusNotFound, Message: "notification not found"},
}

// List handles GET /notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	notifications, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toResponse(n))
	}

	httputil.Success(w, http.StatusOK, responses)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]int{"count": count})
}

// MarkRead handles POST /notifications/{id}/mark-read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.MarkRead(r.Context(), id, userID); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/mark-all-read.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       string(n.Type),
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
		IncidentID: n.IncidentID,
	}
}
