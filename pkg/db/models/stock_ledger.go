package models

import (
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/enums"
)

// StockLedger records an immutable quantity change for a store/SKU pair.
type StockLedger struct {
	ID        uint             `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID   string           `gorm:"column:store_id;not null;index"`
	SKUID     string           `gorm:"column:sku_id;not null;index"`
	QtyDelta  int              `gorm:"column:qty_delta;not null"`
	Reason    enums.MoveReason `gorm:"column:reason;not null;index"`
	Reference *string          `gorm:"column:reference;index"`
	CreatedAt time.Time        `gorm:"column:created_at;not null;index"`
}

func (StockLedger) TableName() string {
	return "stock_ledger"
}
