package middleware

import (
	"net/http"

	"gearshop/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the user carries the admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{domain.RoleAdmin}, logger)
}

// RequireRider middleware ensures the user carries the rider role.
// Admins pass too; the back office uses the same endpoints.
func RequireRider(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{domain.RoleRider, domain.RoleAdmin}, logger)
}

// RequireRole middleware ensures the user carries at least one of the
// specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles, ok := GetUserRoles(r.Context())
			if !ok {
				logger.Warn("Roles not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			allowed := false
			for _, role := range roles {
				for _, allowedRole := range allowedRoles {
					if role == allowedRole {
						allowed = true
						break
					}
				}
			}

			if !allowed {
				logger.Warn("User roles not authorized",
					zap.Strings("roles", roles),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
