package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKU is a sellable catalog item.
type SKU struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement"`
	SKUID         string          `gorm:"column:sku_id;not null;uniqueIndex"`
	Name          string          `gorm:"column:name;not null"`
	Brand         *string         `gorm:"column:brand;index"`
	Category      *string         `gorm:"column:category;index"`
	TaxRate       decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4);not null"`
	ShelfLifeDays *int            `gorm:"column:shelf_life_days"`
	Origin        *string         `gorm:"column:origin"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`

	Barcodes []Barcode `gorm:"foreignKey:SKUID;references:SKUID"`
	Prices   []Price   `gorm:"foreignKey:SKUID;references:SKUID"`
}

func (SKU) TableName() string {
	return "skus"
}

// Barcode is one scannable code for a SKU; codes are globally unique.
type Barcode struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement"`
	SKUID       string  `gorm:"column:sku_id;not null;index"`
	Code        string  `gorm:"column:code;not null;uniqueIndex"`
	PackageSize *string `gorm:"column:package_size"`
}

// Price is a store-scoped selling price valid from StartAt until EndAt.
type Price struct {
	ID          uint                `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID     string              `gorm:"column:store_id;not null;index"`
	SKUID       string              `gorm:"column:sku_id;not null;index"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	MemberPrice decimal.NullDecimal `gorm:"column:member_price;type:numeric(12,2)"`
	StartAt     time.Time           `gorm:"column:start_at;not null;index"`
	EndAt       *time.Time          `gorm:"column:end_at;index"`
}
