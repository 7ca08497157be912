package stores

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/internal/repo"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Repository handles store persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.DB(ctx).Create(store).Error
}

// FindByStoreID loads a store by its business identifier.
func (r *Repository) FindByStoreID(ctx context.Context, storeID string) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("store_id = ?", storeID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Exists reports whether a store with storeID is persisted.
func (r *Repository) Exists(ctx context.Context, storeID string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Store{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of stores in insertion order.
func (r *Repository) List(ctx context.Context, p pagination.Params) ([]models.Store, error) {
	var stores []models.Store
	if err := repo.Page(r.DB(ctx).Order("id ASC"), p).Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Update saves the mutable columns of the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.DB(ctx).Model(store).
		Select("name", "region", "timezone").
		Updates(store).Error
}
