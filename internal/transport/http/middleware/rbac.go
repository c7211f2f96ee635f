package middleware

import (
	"log/slog"
	"net/http"

	"peopleops/internal/domain/rbac"
	"peopleops/internal/transport/http/api"
)

// ValidateRole confirms the token's role is still one of the live roles. When
// the role store is unreachable the request is let through on the static role
// set alone, so a database blip never locks everyone out.
func ValidateRole(roles *rbac.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !roles.IsValidRole(r.Context(), user.Role) {
				slog.Warn("token carries unknown role",
					"role", user.Role,
					"user_id", user.UserID,
					"request_id", GetRequestID(r.Context()))
				api.Fail(w, http.StatusForbidden, "role is no longer valid", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole restricts a route to the listed roles.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "authentication required", GetRequestID(r.Context()))
				return
			}
			if _, ok := set[user.Role]; !ok {
				api.Fail(w, http.StatusForbidden, "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireFeature restricts a route to roles whose permission record grants
// the feature.
func RequireFeature(featureID string, roles *rbac.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "authentication required", GetRequestID(r.Context()))
				return
			}

			allowed, err := roles.HasFeature(r.Context(), user.Role, featureID)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "permission check failed", GetRequestID(r.Context()))
				return
			}
			if !allowed {
				api.Fail(w, http.StatusForbidden, "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
