package members

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/internal/repo"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Repository handles member persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to member operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new member row.
func (r *Repository) Create(ctx context.Context, member *models.Member) error {
	if member == nil {
		return fmt.Errorf("member is required")
	}
	return r.DB(ctx).Create(member).Error
}

// FindByMemberID loads a member by its business identifier.
func (r *Repository) FindByMemberID(ctx context.Context, memberID string) (*models.Member, error) {
	var member models.Member
	if err := r.DB(ctx).Where("member_id = ?", memberID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns a page of members in insertion order.
func (r *Repository) List(ctx context.Context, p pagination.Params) ([]models.Member, error) {
	var members []models.Member
	if err := repo.Page(r.DB(ctx).Order("id ASC"), p).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Update saves the mutable member columns.
func (r *Repository) Update(ctx context.Context, member *models.Member) error {
	if member == nil {
		return fmt.Errorf("member is required")
	}
	return r.DB(ctx).Model(member).
		Select("phone", "tier", "tags", "is_blacklisted").
		Updates(member).Error
}
