package notifications

import (
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Handler wires HTTP endpoints for notifications.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers notification routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/unread-count", h.handleUnreadCount)
	r.Post("/{id}/read", h.handleMarkRead)
	r.Post("/mark-all-read", h.handleMarkAllRead)
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type listResponse struct {
	Items      []notificationResponse `json:"items"`
	Pagination shared.Pagination      `json:"pagination"`
}

func identityOrFail(w http.ResponseWriter, r *http.Request) (shared.Identity, bool) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
	}
	return id, ok
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	page, perPage := shared.PageParams(r, 20, 100)
	pagination := shared.NewPagination(page, perPage, 0)
	items, total, err := h.service.List(r.Context(), id.UserID, pagination.PerPage, pagination.Offset())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]notificationResponse, len(items))
	for i, n := range items {
		out[i] = notificationResponse{
			ID:        n.ID,
			Kind:      n.Kind,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Items:      out,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(r.Context(), id.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	notificationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "notification id must be an integer")
		return
	}
	if err := h.service.MarkRead(r.Context(), id.UserID, notificationID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	if err := h.service.MarkAllRead(r.Context(), id.UserID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
