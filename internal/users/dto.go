package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	FullName    *string   `json:"full_name"`
	Email       *string   `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserInput is the payload for registering an operator.
type CreateUserInput struct {
	Username    string  `json:"username" validate:"required,min=3,max=64"`
	FullName    *string `json:"full_name" validate:"omitempty,max=128"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    string  `json:"password" validate:"required,min=6,max=128"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UpdateUserInput is a partial user update. An empty password is ignored.
type UpdateUserInput struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=128"`
	Email       *string `json:"email" validate:"omitempty,email"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=128"`
}

func (in CreateUserInput) toModel(hash string) *models.User {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &models.User{
		Username:       strings.TrimSpace(in.Username),
		FullName:       in.FullName,
		Email:          in.Email,
		HashedPassword: hash,
		IsActive:       active,
		IsSuperuser:    in.IsSuperuser,
	}
}

func (in UpdateUserInput) apply(u *models.User) {
	if in.FullName != nil {
		u.FullName = in.FullName
	}
	if in.Email != nil {
		u.Email = in.Email
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		u.IsSuperuser = *in.IsSuperuser
	}
}

func (in UpdateUserInput) newPassword() (string, bool) {
	if in.Password == nil || *in.Password == "" {
		return "", false
	}
	return *in.Password, true
}

// FromModel maps a persisted user into its DTO.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
