package user

import (
	"errors"
	"net/http"
	"strconv"

	"roleauth/internal/domain"
	"roleauth/internal/pkg/response"
	"roleauth/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes mounts endpoints that require a valid token.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/:id", h.Get)
		userGroup.PUT("/:id", h.Update)
	}
}

// RegisterAdminRoutes mounts endpoints that require the Admin role.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	userGroup := admin.Group("/users")
	{
		userGroup.GET("", h.List)
		userGroup.DELETE("/:id", h.Delete)
		userGroup.POST("/:id/roles", h.AddRole)
	}
}

func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	out := make([]UserPublic, 0, len(users))
	for i := range users {
		out = append(out, toPublic(&users[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"users": out})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toPublic(user)})
}

// Update modifies a profile. A user may update their own record; updating
// anyone else requires the Admin role.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if c.GetInt64("user_id") != id && !callerIsAdmin(c) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You may only update your own profile")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(&req); fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid profile fields", fieldErrors)
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, ErrUsernameExists):
			response.Error(c, http.StatusConflict, "USERNAME_EXISTS", "This username is already taken")
		case errors.Is(err, ErrEmailExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update user")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "user updated",
		"user":    toPublic(user),
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *Handler) AddRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AddRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Role name is required")
		return
	}

	user, err := h.service.AddRole(c.Request.Context(), id, req.RoleName)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add role")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "role added",
		"user":    toPublic(user),
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func callerIsAdmin(c *gin.Context) bool {
	roles, _ := c.Get("roles")
	names, ok := roles.([]string)
	if !ok {
		return false
	}
	for _, r := range names {
		if r == domain.RoleAdmin {
			return true
		}
	}
	return false
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Roles:       u.RoleNames(),
	}
}
