package user

type UpdateUserRequest struct {
	Username    string `json:"username" validate:"omitempty,min=3,max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name" validate:"omitempty,max=128"`
}

type AddRoleRequest struct {
	RoleName string `json:"role_name" binding:"required,min=2,max=64"`
}

type UserPublic struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles"`
}
