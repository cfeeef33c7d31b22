// ABOUTME: Role-based access control middleware for API endpoints
// ABOUTME: Gates endpoints by the roles carried in the session token

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gursheyss/cs157a/internal/mockapi/models"
)

// roleHierarchy defines the privilege level for each role. Unknown roles
// resolve to 0, which denies access to any protected endpoint.
var roleHierarchy = map[string]int{
	models.RoleUser:      1,
	models.RoleOrganizer: 2,
}

// RequireRole returns middleware that enforces a minimum role.
// Panics if requiredRole is not in the role hierarchy (catches config errors at startup).
// Returns 403 Forbidden if the caller's role is insufficient.
func RequireRole(requiredRole string) Middleware {
	requiredLevel, ok := roleHierarchy[requiredRole]
	if !ok {
		panic(fmt.Sprintf("RequireRole: unknown role %q; valid roles: %v", requiredRole, []string{models.RoleUser, models.RoleOrganizer}))
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserClaims(r)
			callerLevel := 0
			username := ""
			if claims != nil {
				username = claims.Username
				for _, role := range claims.Roles {
					callerLevel = max(callerLevel, roleHierarchy[role])
				}
			}

			if callerLevel < requiredLevel {
				slog.Warn("RBAC authorization denied",
					"path", r.URL.Path,
					"method", r.Method,
					"required_role", requiredRole,
					"username", username,
				)
				WriteJSONError(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next(w, r)
		}
	}
}
