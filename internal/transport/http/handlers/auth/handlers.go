package authhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/directory"
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
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
	})
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Directory.Login(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, directory.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login failed", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token": result.Token,
		"user":  result.User,
	}, middleware.GetRequestID(r.Context()))
}

// handleLogout exists for client symmetry. Tokens are stateless, so logout is
// a client-side discard; the server just acknowledges.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged out"}, middleware.GetRequestID(r.Context()))
}
