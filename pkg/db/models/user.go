package models

import "time"

// User is an operator account of the admin service.
type User struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username       string    `gorm:"column:username;not null;uniqueIndex"`
	FullName       *string   `gorm:"column:full_name"`
	Email          *string   `gorm:"column:email"`
	HashedPassword string    `gorm:"column:hashed_password;not null"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	IsSuperuser    bool      `gorm:"column:is_superuser;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
