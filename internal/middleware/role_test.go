package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func routerWithRoles(tokenRoles []string, required ...string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if tokenRoles != nil {
			c.Set("roles", tokenRoles)
		}
		c.Next()
	})
	router.Use(RequireRole(required...))
	router.GET("/guarded", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doGet(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/guarded", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireRole_MatchingRoleAllowed(t *testing.T) {
	w := doGet(routerWithRoles([]string{"User", "Admin"}, "Admin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_OrSemantics(t *testing.T) {
	// One of the required roles is enough.
	w := doGet(routerWithRoles([]string{"Manager"}, "Admin", "Manager"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_MissingRoleForbidden(t *testing.T) {
	w := doGet(routerWithRoles([]string{"User"}, "Admin"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireRole_EmptyRequirementAllowsAnyValidToken(t *testing.T) {
	w := doGet(routerWithRoles([]string{}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_NoRolesInContext(t *testing.T) {
	w := doGet(routerWithRoles(nil, "Admin"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("roles", []string{"User"})
		c.Next()
	})
	router.Use(AdminOnly())
	router.GET("/guarded", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doGet(router)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
