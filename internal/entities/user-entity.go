// Файл: internal/entities/user-entity.go
package entities

import (
	"rheuma-portal/pkg/types"
)

type User struct {
	ID       uint64 `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	FullName string `json:"full_name" db:"full_name"`

	Password string `json:"-" db:"password"`

	Role     string `json:"role" db:"role"`
	IsActive bool   `json:"is_active" db:"is_active"`

	types.BaseEntity
}
