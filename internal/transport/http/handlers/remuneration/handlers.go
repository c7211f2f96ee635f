package remunerationhandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/rbac"
	"peopleops/internal/domain/remuneration"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service *remuneration.Service
	Roles   *rbac.Service
}

func NewHandler(service *remuneration.Service, roles *rbac.Service) *Handler {
	return &Handler{Service: service, Roles: roles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/remuneration", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Get("/attendance-summary", h.handleAttendanceSummary)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Get("/get", h.handleForMonth)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Post("/save", h.handleSave)
		r.Get("/salary", h.handleSalary)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Get("/variable", h.handleVariableForMonth)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Put("/variable", h.handleSaveVariable)
		r.Post("/peer-rating", h.handlePeerRating)
		r.With(middleware.RequireRole(rbac.ManagementRoles...)).Get("/peer-rating/averages", h.handlePeerAverages)
	})
}

func monthQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("month"))
}

func (h *Handler) handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.Service.AttendanceSummaries(r.Context(), monthQuery(r))
	if errors.Is(err, remuneration.ErrBadMonth) {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to build attendance summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sheet, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleForMonth(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ForMonth(r.Context(), monthQuery(r))
	if errors.Is(err, remuneration.ErrBadMonth) {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list remuneration", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload remuneration.SaveInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Save(r.Context(), user, payload)
	if errors.Is(err, remuneration.ErrBadMonth) {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to save remuneration", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSalary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	records, err := h.Service.Salary(r.Context(), user, monthQuery(r))
	switch {
	case errors.Is(err, remuneration.ErrBadMonth):
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
	case errors.Is(err, remuneration.ErrNoSalaryAccess):
		api.Fail(w, http.StatusForbidden, "no salary access", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to load salary", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, records, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleVariableForMonth(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.VariableForMonth(r.Context(), monthQuery(r))
	if errors.Is(err, remuneration.ErrBadMonth) {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list variable remuneration", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveVariable(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload remuneration.VariableInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.SaveVariable(r.Context(), user, payload)
	if errors.Is(err, remuneration.ErrBadMonth) {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to save variable remuneration", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePeerAverages(w http.ResponseWriter, r *http.Request) {
	averages, err := h.Service.PeerAverages(r.Context(), monthQuery(r))
	if errors.Is(err, remuneration.ErrBadMonth) {
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to average peer ratings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, averages, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePeerRating(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload remuneration.PeerRatingInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.SubmitPeerRating(r.Context(), user.UserID, payload)
	switch {
	case errors.Is(err, remuneration.ErrSelfRating):
		api.Fail(w, http.StatusBadRequest, "cannot peer-rate yourself", middleware.GetRequestID(r.Context()))
	case errors.Is(err, remuneration.ErrBadMonth):
		api.Fail(w, http.StatusBadRequest, "month must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to save peer rating", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, map[string]string{"status": "saved"}, middleware.GetRequestID(r.Context()))
	}
}
