package role

import (
	"errors"
	"net/http"
	"strconv"

	"roleauth/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts role management endpoints; the passed group must
// already enforce the admin role.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	roleGroup := admin.Group("/roles")
	{
		roleGroup.GET("", h.List)
		roleGroup.POST("", h.Create)
		roleGroup.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	roles, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list roles")
		return
	}

	out := make([]RolePublic, 0, len(roles))
	for _, r := range roles {
		out = append(out, RolePublic{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	response.Success(c, http.StatusOK, gin.H{"roles": out})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Role name is required")
		return
	}

	role, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrRoleExists) {
			response.Error(c, http.StatusConflict, "ROLE_EXISTS", "A role with this name already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create role")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "role created",
		"role":    RolePublic{ID: role.ID, Name: role.Name, Description: role.Description},
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid role ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrRoleNotFound):
			response.Error(c, http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found")
		case errors.Is(err, ErrRoleProtected):
			response.Error(c, http.StatusConflict, "ROLE_PROTECTED", "This role cannot be deleted")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete role")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "role deleted"})
}
