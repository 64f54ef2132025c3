package attendance

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Handler wires HTTP endpoints for attendance.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers attendance routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/check-in", h.handleCheckIn)
	r.Post("/check-out", h.handleCheckOut)
	r.Get("/today", h.handleToday)
	r.Get("/history", h.handleHistory)
	r.With(h.guard.RequireRoles(rbac.RoleSuperAdmin, rbac.RoleAdmin)).
		Get("/all-today", h.handleAllToday)
	r.With(h.guard.RequirePermission(rbac.PermManageAttendance)).
		Put("/override", h.handleOverride)
}

type recordResponse struct {
	ID           int64   `json:"id"`
	EmployeeID   int64   `json:"employee_id"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       Status  `json:"status"`
	WorkingHours float64 `json:"working_hours"`
	Remarks      string  `json:"remarks,omitempty"`
}

func toRecordResponse(rec *Record) recordResponse {
	resp := recordResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		Date:         rec.Date.Format("2006-01-02"),
		Status:       rec.Status,
		WorkingHours: rec.WorkingHours,
		Remarks:      rec.Remarks,
	}
	if rec.CheckIn != nil {
		s := rec.CheckIn.Format("15:04")
		resp.CheckInTime = &s
	}
	if rec.CheckOut != nil {
		s := rec.CheckOut.Format("15:04")
		resp.CheckOutTime = &s
	}
	return resp
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	rec, err := h.service.CheckIn(r.Context(), id.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRecordResponse(rec))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	rec, err := h.service.CheckOut(r.Context(), id.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	rec, err := h.service.Today(r.Context(), id.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if rec == nil {
		httpx.JSON(w, http.StatusOK, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecordResponse(rec))
}

type historyResponse struct {
	Items      []recordResponse  `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	page, perPage := shared.PageParams(r, 30, 100)
	pagination := shared.NewPagination(page, perPage, 0)
	records, total, err := h.service.History(r.Context(), id.UserID, pagination.PerPage, pagination.Offset())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]recordResponse, len(records))
	for i := range records {
		items[i] = toRecordResponse(&records[i])
	}
	httpx.JSON(w, http.StatusOK, historyResponse{
		Items:      items,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

type dayEntryResponse struct {
	recordResponse
	EmployeeName string `json:"employee_name"`
}

func (h *Handler) handleAllToday(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.AllToday(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]dayEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = dayEntryResponse{
			recordResponse: toRecordResponse(&entry.Record),
			EmployeeName:   entry.EmployeeName,
		}
	}
	httpx.JSON(w, http.StatusOK, items)
}

type overrideRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Status     string `json:"status" validate:"required"`
	Remarks    string `json:"remarks"`
}

func (h *Handler) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	rec, err := h.service.Override(r.Context(), req.EmployeeID, date, Status(req.Status), req.Remarks)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecordResponse(rec))
}
