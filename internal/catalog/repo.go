package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/retail-admin-backend/internal/repo"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateSKU(ctx context.Context, sku *models.SKU) error {
	if sku == nil {
		return fmt.Errorf("sku is required")
	}
	return r.DB(ctx).Omit(clause.Associations).Create(sku).Error
}

func (r *repository) UpdateSKU(ctx context.Context, sku *models.SKU) error {
	if sku == nil {
		return fmt.Errorf("sku is required")
	}
	return r.DB(ctx).Model(sku).
		Omit(clause.Associations).
		Select("name", "brand", "category", "tax_rate", "shelf_life_days", "origin", "updated_at").
		Updates(sku).Error
}

func (r *repository) FindBySKUID(ctx context.Context, skuID string) (*models.SKU, error) {
	var sku models.SKU
	if err := r.DB(ctx).Where("sku_id = ?", skuID).First(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *repository) FindBySKUIDWithChildren(ctx context.Context, skuID string) (*models.SKU, error) {
	var sku models.SKU
	if err := withChildren(r.DB(ctx)).Where("sku_id = ?", skuID).First(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *repository) List(ctx context.Context, p pagination.Params) ([]models.SKU, error) {
	var skus []models.SKU
	if err := repo.Page(withChildren(r.DB(ctx)).Order("id ASC"), p).Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

func (r *repository) Exists(ctx context.Context, skuID string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.SKU{}).Where("sku_id = ?", skuID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MissingSKUIDs returns the ids from skuIDs that have no row, in input order.
func (r *repository) MissingSKUIDs(ctx context.Context, skuIDs []string) ([]string, error) {
	if len(skuIDs) == 0 {
		return nil, nil
	}
	var found []string
	if err := r.DB(ctx).Model(&models.SKU{}).
		Where("sku_id IN ?", skuIDs).
		Pluck("sku_id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []string
	seen := make(map[string]struct{}, len(skuIDs))
	for _, id := range skuIDs {
		if _, ok := present[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing, nil
}

func (r *repository) ReplaceBarcodes(ctx context.Context, skuID string, barcodes []models.Barcode) error {
	db := r.DB(ctx)
	if err := db.Where("sku_id = ?", skuID).Delete(&models.Barcode{}).Error; err != nil {
		return err
	}
	if len(barcodes) == 0 {
		return nil
	}
	return db.Create(&barcodes).Error
}

func (r *repository) ReplacePrices(ctx context.Context, skuID string, prices []models.Price) error {
	db := r.DB(ctx)
	if err := db.Where("sku_id = ?", skuID).Delete(&models.Price{}).Error; err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	return db.Create(&prices).Error
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Barcodes", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") }).
		Preload("Prices", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") })
}
