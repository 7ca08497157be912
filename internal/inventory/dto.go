package inventory

import (
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/enums"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// RecordMoveInput captures one manual stock movement.
type RecordMoveInput struct {
	StoreID   string  `json:"store_id" validate:"required,max=64"`
	SKUID     string  `json:"sku_id" validate:"required,max=64"`
	QtyDelta  *int    `json:"qty_delta" validate:"required"`
	Reason    string  `json:"reason" validate:"omitempty,max=64"`
	Reference *string `json:"reference" validate:"omitempty,max=128"`
}

// LedgerFilter narrows a ledger listing.
type LedgerFilter struct {
	StoreID string
	SKUID   string
	Page    pagination.Params
}

// BalanceFilter narrows a balance listing.
type BalanceFilter struct {
	StoreID string
	SKUID   string
}

// LedgerEntryDTO is the API view of a ledger row.
type LedgerEntryDTO struct {
	ID        uint      `json:"id"`
	StoreID   string    `json:"store_id"`
	SKUID     string    `json:"sku_id"`
	QtyDelta  int       `json:"qty_delta"`
	Reason    string    `json:"reason"`
	Reference *string   `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// StockBalanceDTO is the derived on-hand quantity for a store/SKU pair.
type StockBalanceDTO struct {
	StoreID   string    `json:"store_id"`
	SKUID     string    `json:"sku_id"`
	OnHand    int64     `json:"on_hand"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleEntry builds the compensating row written for each order line.
func SaleEntry(storeID, skuID, orderID string, qty int, at time.Time) models.StockLedger {
	if qty > 0 {
		qty = -qty
	}
	ref := orderID
	return models.StockLedger{
		StoreID:   storeID,
		SKUID:     skuID,
		QtyDelta:  qty,
		Reason:    enums.MoveReasonSale,
		Reference: &ref,
		CreatedAt: at,
	}
}

func (in RecordMoveInput) toModel(now time.Time) *models.StockLedger {
	var qty int
	if in.QtyDelta != nil {
		qty = *in.QtyDelta
	}
	return &models.StockLedger{
		StoreID:   strings.TrimSpace(in.StoreID),
		SKUID:     strings.TrimSpace(in.SKUID),
		QtyDelta:  qty,
		Reason:    enums.NormalizeMoveReason(in.Reason),
		Reference: in.Reference,
		CreatedAt: now,
	}
}

// EntryFromModel maps a ledger row to its DTO.
func EntryFromModel(m *models.StockLedger) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		SKUID:     m.SKUID,
		QtyDelta:  m.QtyDelta,
		Reason:    m.Reason.String(),
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}
