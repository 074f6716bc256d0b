package middleware

import (
	"net/http"

	"roleauth/internal/domain"
	"roleauth/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole allows the request through when the token holds at least one
// of the required roles (OR semantics). With no arguments any valid,
// unexpired token passes.
func RequireRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesAny, exists := c.Get("roles")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Roles not found in token")
			c.Abort()
			return
		}

		tokenRoles, ok := rolesAny.([]string)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Roles not found in token")
			c.Abort()
			return
		}

		if len(requiredRoles) == 0 || intersects(tokenRoles, requiredRoles) {
			c.Next()
			return
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires the Admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

func intersects(tokenRoles, requiredRoles []string) bool {
	for _, have := range tokenRoles {
		for _, want := range requiredRoles {
			if have == want {
				return true
			}
		}
	}
	return false
}
