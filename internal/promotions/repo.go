package promotions

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/internal/repo"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Repository handles promotion persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to promotion operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new promotion.
func (r *Repository) Create(ctx context.Context, promotion *models.Promotion) error {
	if promotion == nil {
		return fmt.Errorf("promotion is required")
	}
	return r.DB(ctx).Create(promotion).Error
}

// FindByPromotionID loads a promotion by its business identifier.
func (r *Repository) FindByPromotionID(ctx context.Context, promotionID string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.DB(ctx).Where("promotion_id = ?", promotionID).First(&promotion).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// List returns a page of promotions in insertion order.
func (r *Repository) List(ctx context.Context, p pagination.Params) ([]models.Promotion, error) {
	var rows []models.Promotion
	if err := repo.Page(r.DB(ctx).Order("id ASC"), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves every mutable promotion column.
func (r *Repository) Update(ctx context.Context, promotion *models.Promotion) error {
	if promotion == nil {
		return fmt.Errorf("promotion is required")
	}
	return r.DB(ctx).Model(promotion).
		Select("name", "promotion_type", "store_scope", "member_tier_scope", "starts_at", "ends_at", "payload").
		Updates(promotion).Error
}
