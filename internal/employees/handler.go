package employees

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

// Handler wires HTTP endpoints for employee profiles.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers employee routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/me", h.handleMe)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type employeeResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	EmployeeCode  string  `json:"employee_code"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	Phone         *string `json:"phone"`
	Department    *string `json:"department"`
	Designation   *string `json:"designation"`
	DateOfJoining *string `json:"date_of_joining"`
	DateOfBirth   *string `json:"date_of_birth"`
	Address       *string `json:"address"`
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toEmployeeResponse(e *Employee) employeeResponse {
	return employeeResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		EmployeeCode:  e.EmployeeCode,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Username:      e.Username,
		Role:          e.Role,
		Phone:         e.Phone,
		Department:    e.Department,
		Designation:   e.Designation,
		DateOfJoining: dateString(e.DateOfJoining),
		DateOfBirth:   dateString(e.DateOfBirth),
		Address:       e.Address,
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
	employees, err := h.service.List(r.Context(), id, r.URL.Query().Get("department"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]employeeResponse, len(employees))
	for i := range employees {
		items[i] = toEmployeeResponse(&employees[i])
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	emp, err := h.service.Me(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	employeeID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "employee id must be an integer")
		return
	}
	emp, err := h.service.Get(r.Context(), id, employeeID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEmployeeResponse(emp))
}

type createEmployeeRequest struct {
	UserID        int64   `json:"user_id" validate:"required"`
	EmployeeCode  string  `json:"employee_code" validate:"required,max=50"`
	FirstName     string  `json:"first_name" validate:"required,max=100"`
	LastName      string  `json:"last_name" validate:"required,max=100"`
	Phone         *string `json:"phone"`
	Department    *string `json:"department"`
	Designation   *string `json:"designation"`
	DateOfJoining *string `json:"date_of_joining"`
	DateOfBirth   *string `json:"date_of_birth"`
	Address       *string `json:"address"`
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
	var req createEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	joining, err := parseDate(req.DateOfJoining)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date_of_joining must be YYYY-MM-DD")
		return
	}
	birth, err := parseDate(req.DateOfBirth)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date_of_birth must be YYYY-MM-DD")
		return
	}
	emp, err := h.service.Create(r.Context(), id, &Employee{
		UserID:        req.UserID,
		EmployeeCode:  req.EmployeeCode,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Department:    req.Department,
		Designation:   req.Designation,
		DateOfJoining: joining,
		DateOfBirth:   birth,
		Address:       req.Address,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEmployeeResponse(emp))
}

type updateEmployeeRequest struct {
	FirstName     shared.Patch[string]  `json:"first_name"`
	LastName      shared.Patch[string]  `json:"last_name"`
	Phone         shared.Patch[*string] `json:"phone"`
	Department    shared.Patch[*string] `json:"department"`
	Designation   shared.Patch[*string] `json:"designation"`
	DateOfJoining shared.Patch[*string] `json:"date_of_joining"`
	DateOfBirth   shared.Patch[*string] `json:"date_of_birth"`
	Address       shared.Patch[*string] `json:"address"`
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
	employeeID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "employee id must be an integer")
		return
	}
	var req updateEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	joining, err := patchDate(req.DateOfJoining)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date_of_joining must be YYYY-MM-DD")
		return
	}
	birth, err := patchDate(req.DateOfBirth)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date_of_birth must be YYYY-MM-DD")
		return
	}
	emp, err := h.service.Update(r.Context(), id, employeeID, UpdateInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Department:    req.Department,
		Designation:   req.Designation,
		DateOfJoining: joining,
		DateOfBirth:   birth,
		Address:       req.Address,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	employeeID, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "employee id must be an integer")
		return
	}
	if err := h.service.Delete(r.Context(), id, employeeID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}
