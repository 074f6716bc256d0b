package role

import "errors"

var (
	ErrRoleExists    = errors.New("role already exists")
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleProtected = errors.New("role cannot be deleted")
)
