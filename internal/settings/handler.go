package settings

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Handler wires HTTP endpoints for system settings.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers settings routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/email", h.handleEmail)
	r.Post("/email/test", h.handleTestEmail)
	r.Get("/{key}", h.handleGet)
	r.Put("/{key}", h.handleUpdate)
}

type settingResponse struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	UpdatedAt   string  `json:"updated_at"`
}

func toSettingResponse(s *Setting) settingResponse {
	return settingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Category:    s.Category,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
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
	items, err := h.service.List(r.Context(), id, r.URL.Query().Get("category"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]settingResponse, len(items))
	for i := range items {
		out[i] = toSettingResponse(&items[i])
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	s, err := h.service.Get(r.Context(), id, chi.URLParam(r, "key"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSettingResponse(s))
}

type updateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var req updateSettingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	s, err := h.service.Update(r.Context(), id, chi.URLParam(r, "key"), req.Value)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSettingResponse(s))
}

func (h *Handler) handleEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	email, err := h.service.Email(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, email)
}

type testEmailRequest struct {
	To string `json:"to" validate:"required,email"`
}

func (h *Handler) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var req testEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SendTestEmail(r.Context(), id, req.To); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "test email queued"})
}
