package rbachandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/rbac"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Roles *rbac.Service
}

func NewHandler(roles *rbac.Service) *Handler {
	return &Handler{Roles: roles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/{roleID}", h.handleGet)
		r.Get("/me/permissions", h.handleMyPermissions)
		r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleCEO)).Put("/{roleID}", h.handleSave)
		r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleCEO)).Delete("/{roleID}", h.handleDeactivate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") == ""
	roles, err := h.Roles.ListRoles(r.Context(), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list roles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, roles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	role, err := h.Roles.Resolve(r.Context(), chi.URLParam(r, "roleID"))
	if errors.Is(err, rbac.ErrRoleNotFound) {
		api.Fail(w, http.StatusNotFound, "role not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load role", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, role, middleware.GetRequestID(r.Context()))
}

// handleMyPermissions resolves the caller's own role so clients can decide
// which components to render.
func (h *Handler) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	role, err := h.Roles.Resolve(r.Context(), user.Role)
	if errors.Is(err, rbac.ErrRoleNotFound) {
		api.Fail(w, http.StatusNotFound, "role not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to resolve permissions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, role, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload rbac.RolePermission
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	payload.RoleID = chi.URLParam(r, "roleID")

	if err := h.Roles.SaveRole(r.Context(), payload); err != nil {
		if errors.Is(err, rbac.ErrInvalidRole) {
			api.Fail(w, http.StatusBadRequest, "invalid role definition", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to save role", middleware.GetRequestID(r.Context()))
		return
	}

	role, err := h.Roles.GetRole(r.Context(), payload.RoleID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load saved role", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, role, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	err := h.Roles.DeactivateRole(r.Context(), chi.URLParam(r, "roleID"))
	switch {
	case errors.Is(err, rbac.ErrSystemRoleImmutable):
		api.Fail(w, http.StatusForbidden, "system roles cannot be deactivated", middleware.GetRequestID(r.Context()))
	case errors.Is(err, rbac.ErrRoleNotFound):
		api.Fail(w, http.StatusNotFound, "role not found", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to deactivate role", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, map[string]string{"roleId": chi.URLParam(r, "roleID")}, middleware.GetRequestID(r.Context()))
	}
}
