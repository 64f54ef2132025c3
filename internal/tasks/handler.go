package tasks

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

// Handler wires HTTP endpoints for tasks.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers task routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/my-tasks", h.handleMine)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Patch("/{id}/status", h.handleUpdateStatus)
	r.Delete("/{id}", h.handleDelete)
}

type taskResponse struct {
	ID          int64    `json:"id"`
	ProjectID   int64    `json:"project_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	AssigneeID  *int64   `json:"assignee_id"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     *string  `json:"due_date"`
	CompletedAt *string  `json:"completed_at"`
	CreatedBy   int64    `json:"created_by"`
}

func toTaskResponse(t *Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedBy:   t.CreatedBy,
	}
	if t.DueDate != nil {
		s := t.DueDate.Format("2006-01-02")
		resp.DueDate = &s
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
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

func respondTasks(w http.ResponseWriter, tasks []Task) {
	items := make([]taskResponse, len(tasks))
	for i := range tasks {
		items[i] = toTaskResponse(&tasks[i])
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var f Filter
	if s := r.URL.Query().Get("project_id"); s != "" {
		projectID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "project_id must be an integer")
			return
		}
		f.ProjectID = projectID
	}
	f.Status = Status(r.URL.Query().Get("status"))
	tasks, err := h.service.List(r.Context(), id, f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	respondTasks(w, tasks)
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.Mine(r.Context(), id, Status(r.URL.Query().Get("status")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	respondTasks(w, tasks)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "task id must be an integer")
		return
	}
	t, err := h.service.Get(r.Context(), id, taskID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(t))
}

type createTaskRequest struct {
	ProjectID   int64   `json:"project_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	AssigneeID  *int64  `json:"assignee_id"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var due *time.Time
	if req.DueDate != nil {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "due_date must be YYYY-MM-DD")
			return
		}
		due = &d
	}
	t, err := h.service.Create(r.Context(), id, &Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      Status(req.Status),
		Priority:    Priority(req.Priority),
		DueDate:     due,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTaskResponse(t))
}

type updateTaskRequest struct {
	Title       shared.Patch[string]  `json:"title"`
	Description shared.Patch[*string] `json:"description"`
	AssigneeID  shared.Patch[*int64]  `json:"assignee_id"`
	Status      shared.Patch[string]  `json:"status"`
	Priority    shared.Patch[string]  `json:"priority"`
	DueDate     shared.Patch[*string] `json:"due_date"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "task id must be an integer")
		return
	}
	var req updateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	in := UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	if req.Status.Set() {
		in.Status = shared.PatchOf(Status(req.Status.Value()))
	}
	if req.Priority.Set() {
		in.Priority = shared.PatchOf(Priority(req.Priority.Value()))
	}
	if req.DueDate.Set() {
		var due *time.Time
		if s := req.DueDate.Value(); s != nil {
			d, err := time.Parse("2006-01-02", *s)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "due_date must be YYYY-MM-DD")
				return
			}
			due = &d
		}
		in.DueDate = shared.PatchOf(due)
	}
	t, err := h.service.Update(r.Context(), id, taskID, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(t))
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "task id must be an integer")
		return
	}
	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	t, err := h.service.UpdateStatus(r.Context(), id, taskID, Status(req.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "task id must be an integer")
		return
	}
	if err := h.service.Delete(r.Context(), id, taskID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
