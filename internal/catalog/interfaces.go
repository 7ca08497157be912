package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Repository defines persistence operations for SKUs, barcodes and prices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSKU(ctx context.Context, sku *models.SKU) error
	UpdateSKU(ctx context.Context, sku *models.SKU) error
	FindBySKUID(ctx context.Context, skuID string) (*models.SKU, error)
	FindBySKUIDWithChildren(ctx context.Context, skuID string) (*models.SKU, error)
	List(ctx context.Context, p pagination.Params) ([]models.SKU, error)
	Exists(ctx context.Context, skuID string) (bool, error)
	MissingSKUIDs(ctx context.Context, skuIDs []string) ([]string, error)
	ReplaceBarcodes(ctx context.Context, skuID string, barcodes []models.Barcode) error
	ReplacePrices(ctx context.Context, skuID string, prices []models.Price) error
}
