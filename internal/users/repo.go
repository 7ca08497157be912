package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/internal/repo"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Repository exposes user persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves the user matching username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users ordered by id.
func (r *Repository) List(ctx context.Context, p pagination.Params) ([]models.User, error) {
	var rows []models.User
	if err := repo.Page(r.DB(ctx).Order("id ASC"), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the mutable user columns.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Model(user).
		Select("full_name", "email", "hashed_password", "is_active", "is_superuser", "updated_at").
		Updates(user).Error
}

// Delete removes the user row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.DB(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
