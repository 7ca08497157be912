package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/enums"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
	"github.com/angelmondragon/retail-admin-backend/pkg/types"
)

// ItemInput is one requested order line.
type ItemInput struct {
	SKUID   string          `json:"sku_id" validate:"required,max=64"`
	Qty     int             `json:"qty" validate:"gt=0"`
	Price   decimal.Decimal `json:"price"`
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// CreateOrderInput is the payload for placing an order.
type CreateOrderInput struct {
	OrderID  string           `json:"order_id" validate:"required,max=64"`
	StoreID  string           `json:"store_id" validate:"required,max=64"`
	Channel  string           `json:"channel" validate:"omitempty,max=32"`
	Status   string           `json:"status" validate:"omitempty,max=32"`
	MemberID *string          `json:"member_id" validate:"omitempty,max=64"`
	Total    *decimal.Decimal `json:"total" validate:"required"`
	TaxTotal decimal.Decimal  `json:"tax_total"`
	Items    []ItemInput      `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderInput is a partial order patch.
type UpdateOrderInput struct {
	Status   *string              `json:"status" validate:"omitempty,min=1,max=32"`
	Channel  *string              `json:"channel" validate:"omitempty,min=1,max=32"`
	MemberID types.NullableString `json:"member_id"`
	Total    *decimal.Decimal     `json:"total"`
	TaxTotal *decimal.Decimal     `json:"tax_total"`
}

// ListFilter narrows order listings.
type ListFilter struct {
	StoreID string
	Status  string
	Page    pagination.Params
}

// ItemDTO is one order line as returned to clients.
type ItemDTO struct {
	SKUID   string          `json:"sku_id"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// OrderDTO is an order header with its lines.
type OrderDTO struct {
	ID        uint            `json:"id"`
	OrderID   string          `json:"order_id"`
	StoreID   string          `json:"store_id"`
	Channel   string          `json:"channel"`
	Status    string          `json:"status"`
	MemberID  *string         `json:"member_id"`
	Total     decimal.Decimal `json:"total"`
	TaxTotal  decimal.Decimal `json:"tax_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Items     []ItemDTO       `json:"items"`
}

func (in CreateOrderInput) header(now time.Time) *models.Order {
	order := &models.Order{
		OrderID:   strings.TrimSpace(in.OrderID),
		StoreID:   strings.TrimSpace(in.StoreID),
		Channel:   enums.OrDefault(in.Channel, enums.OrderChannelPOS),
		Status:    enums.OrDefault(in.Status, enums.OrderStatusCreated),
		MemberID:  in.MemberID,
		TaxTotal:  in.TaxTotal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Total != nil {
		order.Total = *in.Total
	}
	return order
}

func (in CreateOrderInput) items(orderID string) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		out = append(out, models.OrderItem{
			OrderID: orderID,
			SKUID:   strings.TrimSpace(item.SKUID),
			Qty:     item.Qty,
			Price:   item.Price,
			TaxRate: item.TaxRate,
		})
	}
	return out
}

func (in CreateOrderInput) skuIDs() []string {
	ids := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, strings.TrimSpace(item.SKUID))
	}
	return ids
}

// apply merges the supplied fields and stamps updated_at.
func (in UpdateOrderInput) apply(m *models.Order, now time.Time) {
	if in.Status != nil {
		m.Status = strings.TrimSpace(*in.Status)
	}
	if in.Channel != nil {
		m.Channel = strings.TrimSpace(*in.Channel)
	}
	if in.MemberID.Valid {
		m.MemberID = in.MemberID.Value
	}
	if in.Total != nil {
		m.Total = *in.Total
	}
	if in.TaxTotal != nil {
		m.TaxTotal = *in.TaxTotal
	}
	m.UpdatedAt = now
}

// FromModel maps an order and its preloaded items into a DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, ItemDTO{
			SKUID:   item.SKUID,
			Qty:     item.Qty,
			Price:   item.Price,
			TaxRate: item.TaxRate,
		})
	}
	return &OrderDTO{
		ID:        m.ID,
		OrderID:   m.OrderID,
		StoreID:   m.StoreID,
		Channel:   m.Channel,
		Status:    m.Status,
		MemberID:  m.MemberID,
		Total:     m.Total,
		TaxTotal:  m.TaxTotal,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Items:     items,
	}
}
