package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	UpdateOrder(ctx context.Context, order *models.Order) error
	Exists(ctx context.Context, orderID string) (bool, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
}
