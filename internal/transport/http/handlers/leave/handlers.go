package leavehandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/auth"
	"peopleops/internal/domain/leave"
	"peopleops/internal/domain/rbac"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Roles   *rbac.Service
}

func NewHandler(service *leave.Service, roles *rbac.Service) *Handler {
	return &Handler{Service: service, Roles: roles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireFeature(rbac.FeatureLeaveApply, h.Roles)).Post("/apply", h.handleApply)
		r.Get("/my", h.handleMy)
		r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleCEO)).Get("/all", h.handleAll)
		r.Get("/pending", h.handlePending)
		r.Get("/{leaveID}", h.handleGet)
		r.Put("/{leaveID}/approve", h.handleApprove)
		r.Put("/{leaveID}/reject", h.handleReject)
	})
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload leave.ApplyInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Apply(r.Context(), user.UserID, payload)
	switch {
	case errors.Is(err, leave.ErrUnknownLeaveType):
		api.Fail(w, http.StatusBadRequest, "unknown leave type", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "end date before start date", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrUnknownApprover):
		api.Fail(w, http.StatusBadRequest, "reporting-to user not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusBadRequest, "insufficient leave balance", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrOverlapPending):
		api.Fail(w, http.StatusBadRequest, "an overlapping request is already pending", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to apply for leave", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, req, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleMy(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "year must be numeric", middleware.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	requests, err := h.Service.MyRequests(r.Context(), user.UserID, r.URL.Query().Get("status"), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	balance, err := h.Service.Balances(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load leave balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"requests": requests,
		"balance":  balance,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.AllRequests(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	requests, err := h.Service.PendingFor(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list pending requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "leaveID"))
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "leave request not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load leave request", middleware.GetRequestID(r.Context()))
		return
	}

	// Owners, their designated approver and management may read a request.
	if req.UserID != user.UserID && !rbac.IsAdminOrCEO(user.Role) &&
		(req.ApproverID == nil || *req.ApproverID != user.UserID) &&
		!rbac.IsManagementRole(user.Role) {
		api.Fail(w, http.StatusForbidden, "not allowed to view this request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	Note string `json:"note"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

type decideFunc func(ctx context.Context, actor auth.UserContext, id, note string) (leave.Request, error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc) {
	user, _ := middleware.GetUser(r.Context())

	var payload decisionPayload
	if r.ContentLength > 0 {
		if err := shared.DecodeAndValidate(r, &payload); err != nil {
			api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
	}

	req, err := fn(r.Context(), user, chi.URLParam(r, "leaveID"), payload.Note)
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "leave request not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "not allowed to decide this request", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusBadRequest, "request already decided", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusBadRequest, "insufficient leave balance", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to decide leave request", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, req, middleware.GetRequestID(r.Context()))
	}
}
