package blogs

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

// Handler wires HTTP endpoints for blogs.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers blog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/slug/{slug}", h.handleGetBySlug)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type blogResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Content     string  `json:"content"`
	Excerpt     *string `json:"excerpt"`
	Status      Status  `json:"status"`
	AuthorID    int64   `json:"author_id"`
	AuthorName  string  `json:"author_name"`
	PublishedAt *string `json:"published_at"`
}

func toBlogResponse(b *Blog) blogResponse {
	resp := blogResponse{
		ID:         b.ID,
		Title:      b.Title,
		Slug:       b.Slug,
		Content:    b.Content,
		Excerpt:    b.Excerpt,
		Status:     b.Status,
		AuthorID:   b.AuthorID,
		AuthorName: b.AuthorName,
	}
	if b.PublishedAt != nil {
		s := b.PublishedAt.Format(time.RFC3339)
		resp.PublishedAt = &s
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

type blogListResponse struct {
	Items      []blogResponse    `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	page, perPage := shared.PageParams(r, 20, 100)
	pagination := shared.NewPagination(page, perPage, 0)
	blogs, total, err := h.service.List(r.Context(), id,
		Filter{Status: Status(r.URL.Query().Get("status"))}, pagination.PerPage, pagination.Offset())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]blogResponse, len(blogs))
	for i := range blogs {
		items[i] = toBlogResponse(&blogs[i])
	}
	httpx.JSON(w, http.StatusOK, blogListResponse{
		Items:      items,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	blogID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "blog id must be an integer")
		return
	}
	b, err := h.service.Get(r.Context(), id, blogID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBlogResponse(b))
}

func (h *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	b, err := h.service.GetBySlug(r.Context(), id, chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBlogResponse(b))
}

type createBlogRequest struct {
	Title   string  `json:"title" validate:"required,max=200"`
	Slug    string  `json:"slug"`
	Content string  `json:"content" validate:"required"`
	Excerpt *string `json:"excerpt"`
	Status  string  `json:"status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var req createBlogRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	b, err := h.service.Create(r.Context(), id, &Blog{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Status:  Status(req.Status),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBlogResponse(b))
}

type updateBlogRequest struct {
	Title   shared.Patch[string]  `json:"title"`
	Slug    shared.Patch[string]  `json:"slug"`
	Content shared.Patch[string]  `json:"content"`
	Excerpt shared.Patch[*string] `json:"excerpt"`
	Status  shared.Patch[string]  `json:"status"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	blogID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "blog id must be an integer")
		return
	}
	var req updateBlogRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	in := UpdateInput{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Excerpt: req.Excerpt,
	}
	if req.Status.Set() {
		in.Status = shared.PatchOf(Status(req.Status.Value()))
	}
	b, err := h.service.Update(r.Context(), id, blogID, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBlogResponse(b))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	blogID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "blog id must be an integer")
		return
	}
	if err := h.service.Delete(r.Context(), id, blogID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "blog deleted"})
}
