package directoryhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/directory"
	"peopleops/internal/domain/rbac"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Directory *directory.Service
}

func NewHandler(dir *directory.Service) *Handler {
	return &Handler{Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/directory", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", h.handleMe)
		r.Get("/users", h.handleList)
		r.Get("/users/{userID}", h.handleGet)
		r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleCEO)).Post("/users", h.handleRegister)
		r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleCEO)).Put("/users/{userID}", h.handleUpdate)
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.Directory.Profile(r.Context(), user.UserID)
	if errors.Is(err, directory.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Directory.Profile(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, directory.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload directory.RegisterInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Directory.Register(r.Context(), payload)
	switch {
	case errors.Is(err, directory.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "unknown role", middleware.GetRequestID(r.Context()))
	case errors.Is(err, directory.ErrDuplicateUser):
		api.Fail(w, http.StatusBadRequest, "username or email already taken", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to register user", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, user, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload directory.UpdateEmployeeInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Directory.UpdateEmployee(r.Context(), chi.URLParam(r, "userID"), payload)
	switch {
	case errors.Is(err, directory.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "unknown role", middleware.GetRequestID(r.Context()))
	case errors.Is(err, directory.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "user not found", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to update user", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, user, middleware.GetRequestID(r.Context()))
	}
}
