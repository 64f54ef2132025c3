package projects

import (
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Handler wires HTTP endpoints for projects.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers project routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type projectResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description"`
	Status      Status  `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	ManagerID   *int64  `json:"manager_id"`
	CreatedBy   int64   `json:"created_by"`
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toProjectResponse(p *Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   dateString(p.StartDate),
		EndDate:     dateString(p.EndDate),
		ManagerID:   p.ManagerID,
		CreatedBy:   p.CreatedBy,
	}
}

func identityOrFail(w http.ResponseWriter, r *http.Request) (shared.Identity, bool) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
	}
	return id, ok
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	projects, err := h.service.List(r.Context(), id, Status(r.URL.Query().Get("status")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]projectResponse, len(projects))
	for i := range projects {
		items[i] = toProjectResponse(&projects[i])
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	projectID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "project id must be an integer")
		return
	}
	p, err := h.service.Get(r.Context(), id, projectID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProjectResponse(p))
}

type createProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Code        string  `json:"code" validate:"required,max=50"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	ManagerID   *int64  `json:"manager_id"`
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "end_date must be YYYY-MM-DD")
		return
	}
	p, err := h.service.Create(r.Context(), id, &Project{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      Status(req.Status),
		StartDate:   start,
		EndDate:     end,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProjectResponse(p))
}

type updateProjectRequest struct {
	Name        shared.Patch[string]  `json:"name"`
	Description shared.Patch[*string] `json:"description"`
	Status      shared.Patch[string]  `json:"status"`
	StartDate   shared.Patch[*string] `json:"start_date"`
	EndDate     shared.Patch[*string] `json:"end_date"`
	ManagerID   shared.Patch[*int64]  `json:"manager_id"`
}

func patchDate(p shared.Patch[*string]) (shared.Patch[*time.Time], error) {
	var out shared.Patch[*time.Time]
	if !p.Set() {
		return out, nil
	}
	t, err := parseDate(p.Value())
	if err != nil {
		return out, err
	}
	return shared.PatchOf(t), nil
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	projectID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "project id must be an integer")
		return
	}
	var req updateProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	start, err := patchDate(req.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := patchDate(req.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "end_date must be YYYY-MM-DD")
		return
	}
	in := UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		ManagerID:   req.ManagerID,
	}
	if req.Status.Set() {
		in.Status = shared.PatchOf(Status(req.Status.Value()))
	}
	p, err := h.service.Update(r.Context(), id, projectID, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	projectID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "project id must be an integer")
		return
	}
	if err := h.service.Delete(r.Context(), id, projectID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
