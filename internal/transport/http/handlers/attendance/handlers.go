package attendancehandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/attendance"
	"peopleops/internal/domain/rbac"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Roles   *rbac.Service
}

func NewHandler(service *attendance.Service, roles *rbac.Service) *Handler {
	return &Handler{Service: service, Roles: roles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireFeature(rbac.FeatureAttendanceMark, h.Roles)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequireFeature(rbac.FeatureAttendanceMark, h.Roles)).Post("/check-out", h.handleCheckOut)
		r.Get("/my", h.handleMy)
		r.Get("/today", h.handleToday)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Get("/all", h.handleAll)
		r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleCEO)).Get("/user/{userID}", h.handleUser)
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	rec, err := h.Service.CheckIn(r.Context(), user.UserID, shared.ClientIP(r))
	if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
		api.Fail(w, http.StatusBadRequest, "already checked in today", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "check-in failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	rec, err := h.Service.CheckOut(r.Context(), user.UserID, shared.ClientIP(r))
	switch {
	case errors.Is(err, attendance.ErrNotCheckedIn):
		api.Fail(w, http.StatusBadRequest, "no open check-in for today", middleware.GetRequestID(r.Context()))
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		api.Fail(w, http.StatusBadRequest, "already checked out today", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "check-out failed", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, rec, middleware.GetRequestID(r.Context()))
	}
}

// handleMy returns the caller's rows for the requested month along with a
// per-status stats block.
func (h *Handler) handleMy(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	h.respondMonth(w, r, user.UserID)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	rec, err := h.Service.TodayFor(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load today's record", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

// handleAll builds the day sheet, one row per active user, defaulting to the
// current day when date= is absent.
func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		day = parsed
	}

	summaries, err := h.Service.DaySheet(r.Context(), day)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to build the day sheet", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	h.respondMonth(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) respondMonth(w http.ResponseWriter, r *http.Request, userID string) {
	from, to, err := shared.MonthQuery(r, time.Now())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.Service.MonthRecords(r.Context(), userID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	stats, err := h.Service.Summary(r.Context(), userID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to summarize attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"records": records,
		"stats":   stats,
	}, middleware.GetRequestID(r.Context()))
}
