package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the header row of a sale.
type Order struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   string          `gorm:"column:order_id;not null;uniqueIndex"`
	StoreID   string          `gorm:"column:store_id;not null;index"`
	Channel   string          `gorm:"column:channel;not null;index"`
	Status    string          `gorm:"column:status;not null;index"`
	MemberID  *string         `gorm:"column:member_id;index"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	TaxTotal  decimal.Decimal `gorm:"column:tax_total;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;not null;index"`
	UpdatedAt time.Time       `gorm:"column:updated_at;not null;index"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:OrderID"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID      uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID string          `gorm:"column:order_id;not null;index"`
	SKUID   string          `gorm:"column:sku_id;not null;index"`
	Qty     int             `gorm:"column:qty;not null"`
	Price   decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	TaxRate decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4);not null"`
}
