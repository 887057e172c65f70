package dto

import (
	"time"

	"rheuma-portal/internal/entities"
)

type UserPublicDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateRoleDTO struct {
	Role string `json:"role" validate:"required,role"`
}

func NewUserPublicDTO(u *entities.User) UserPublicDTO {
	return UserPublicDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserPublicDTOs(users []entities.User) []UserPublicDTO {
	out := make([]UserPublicDTO, 0, len(users))
	for i := range users {
		out = append(out, NewUserPublicDTO(&users[i]))
	}
	return out
}
