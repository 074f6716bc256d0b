package domain

import "time"

const (
	// RoleAdmin is seeded at startup and must always have at least one member.
	RoleAdmin = "Admin"
	// RoleUser is the default role assigned on registration.
	RoleUser = "User"
)

type User struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Email        string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	DisplayName  string `json:"display_name,omitempty"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Description string `json:"description,omitempty"`
}

// RoleNames returns the user's role names as a plain slice for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports membership in a role by name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
