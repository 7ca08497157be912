package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/types"
)

// BarcodeInput is one barcode in a create/update payload.
type BarcodeInput struct {
	Code        string  `json:"code" validate:"required,max=64"`
	PackageSize *string `json:"package_size" validate:"omitempty,max=32"`
}

// PriceInput is one store-scoped price in a create/update payload.
type PriceInput struct {
	StoreID     string              `json:"store_id" validate:"required,max=64"`
	Price       decimal.Decimal     `json:"price"`
	MemberPrice decimal.NullDecimal `json:"member_price"`
	StartAt     *time.Time          `json:"start_at"`
	EndAt       *time.Time          `json:"end_at"`
}

// CreateSKUInput holds a new SKU plus its initial barcode and price sets.
type CreateSKUInput struct {
	SKUID         string          `json:"sku_id" validate:"required,max=64"`
	Name          string          `json:"name" validate:"required,max=255"`
	Brand         *string         `json:"brand" validate:"omitempty,max=128"`
	Category      *string         `json:"category" validate:"omitempty,max=128"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ShelfLifeDays *int            `json:"shelf_life_days" validate:"omitempty,min=0"`
	Origin        *string         `json:"origin" validate:"omitempty,max=128"`
	Barcodes      []BarcodeInput  `json:"barcodes" validate:"omitempty,dive"`
	Prices        []PriceInput    `json:"prices" validate:"omitempty,dive"`
}

// UpdateSKUInput is a partial SKU patch. A nil Barcodes/Prices pointer leaves
// the set unchanged; a pointer to an empty slice clears it.
type UpdateSKUInput struct {
	Name          *string              `json:"name" validate:"omitempty,min=1,max=255"`
	Brand         types.NullableString `json:"brand"`
	Category      types.NullableString `json:"category"`
	TaxRate       *decimal.Decimal     `json:"tax_rate"`
	ShelfLifeDays types.Nullable[int]  `json:"shelf_life_days"`
	Origin        types.NullableString `json:"origin"`
	Barcodes      *[]BarcodeInput      `json:"barcodes"`
	Prices        *[]PriceInput        `json:"prices"`
}

// BarcodeDTO is the API view of a barcode.
type BarcodeDTO struct {
	Code        string  `json:"code"`
	PackageSize *string `json:"package_size"`
}

// PriceDTO is the API view of a price.
type PriceDTO struct {
	StoreID     string              `json:"store_id"`
	Price       decimal.Decimal     `json:"price"`
	MemberPrice decimal.NullDecimal `json:"member_price"`
	StartAt     time.Time           `json:"start_at"`
	EndAt       *time.Time          `json:"end_at"`
}

// SKUDTO is the API view of a SKU with its children.
type SKUDTO struct {
	ID            uint            `json:"id"`
	SKUID         string          `json:"sku_id"`
	Name          string          `json:"name"`
	Brand         *string         `json:"brand"`
	Category      *string         `json:"category"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ShelfLifeDays *int            `json:"shelf_life_days"`
	Origin        *string         `json:"origin"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Barcodes      []BarcodeDTO    `json:"barcodes"`
	Prices        []PriceDTO      `json:"prices"`
}

func (in CreateSKUInput) toModel(now time.Time) *models.SKU {
	return &models.SKU{
		SKUID:         strings.TrimSpace(in.SKUID),
		Name:          strings.TrimSpace(in.Name),
		Brand:         in.Brand,
		Category:      in.Category,
		TaxRate:       in.TaxRate,
		ShelfLifeDays: in.ShelfLifeDays,
		Origin:        in.Origin,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (in UpdateSKUInput) apply(m *models.SKU, now time.Time) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brand.Valid {
		m.Brand = in.Brand.Value
	}
	if in.Category.Valid {
		m.Category = in.Category.Value
	}
	if in.TaxRate != nil {
		m.TaxRate = *in.TaxRate
	}
	if in.ShelfLifeDays.Valid {
		m.ShelfLifeDays = in.ShelfLifeDays.Value
	}
	if in.Origin.Valid {
		m.Origin = in.Origin.Value
	}
	m.UpdatedAt = now
}

func barcodeModels(skuID string, in []BarcodeInput) []models.Barcode {
	out := make([]models.Barcode, 0, len(in))
	for _, b := range in {
		out = append(out, models.Barcode{
			SKUID:       skuID,
			Code:        strings.TrimSpace(b.Code),
			PackageSize: b.PackageSize,
		})
	}
	return out
}

func priceModels(skuID string, in []PriceInput, now time.Time) []models.Price {
	out := make([]models.Price, 0, len(in))
	for _, p := range in {
		start := now
		if p.StartAt != nil && !p.StartAt.IsZero() {
			start = p.StartAt.UTC()
		}
		var end *time.Time
		if p.EndAt != nil {
			e := p.EndAt.UTC()
			end = &e
		}
		out = append(out, models.Price{
			StoreID:     strings.TrimSpace(p.StoreID),
			SKUID:       skuID,
			Price:       p.Price,
			MemberPrice: p.MemberPrice,
			StartAt:     start,
			EndAt:       end,
		})
	}
	return out
}

// FromModel maps a SKU and its loaded children into a DTO.
func FromModel(m *models.SKU) *SKUDTO {
	if m == nil {
		return nil
	}
	dto := &SKUDTO{
		ID:            m.ID,
		SKUID:         m.SKUID,
		Name:          m.Name,
		Brand:         m.Brand,
		Category:      m.Category,
		TaxRate:       m.TaxRate,
		ShelfLifeDays: m.ShelfLifeDays,
		Origin:        m.Origin,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Barcodes:      make([]BarcodeDTO, 0, len(m.Barcodes)),
		Prices:        make([]PriceDTO, 0, len(m.Prices)),
	}
	for _, b := range m.Barcodes {
		dto.Barcodes = append(dto.Barcodes, BarcodeDTO{Code: b.Code, PackageSize: b.PackageSize})
	}
	for _, p := range m.Prices {
		dto.Prices = append(dto.Prices, PriceDTO{
			StoreID:     p.StoreID,
			Price:       p.Price,
			MemberPrice: p.MemberPrice,
			StartAt:     p.StartAt,
			EndAt:       p.EndAt,
		})
	}
	return dto
}
