package inventory

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/internal/repo"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/retail-admin-backend/pkg/db/types"
)

// Repository manages the append-only stock ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, entries ...*models.StockLedger) error
	List(ctx context.Context, filter LedgerFilter) ([]models.StockLedger, error)
	Balances(ctx context.Context, filter BalanceFilter) ([]StockBalanceDTO, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Append(ctx context.Context, entries ...*models.StockLedger) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e == nil {
			return fmt.Errorf("ledger entry is required")
		}
	}
	return r.DB(ctx).Create(entries).Error
}

func (r *repository) List(ctx context.Context, filter LedgerFilter) ([]models.StockLedger, error) {
	q := r.DB(ctx).Model(&models.StockLedger{})
	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.SKUID != "" {
		q = q.Where("sku_id = ?", filter.SKUID)
	}
	var entries []models.StockLedger
	if err := repo.Page(q.Order("created_at DESC").Order("id DESC"), filter.Page).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

type balanceRow struct {
	StoreID   string            `gorm:"column:store_id"`
	SKUID     string            `gorm:"column:sku_id"`
	OnHand    int64             `gorm:"column:on_hand"`
	UpdatedAt dbtypes.Timestamp `gorm:"column:updated_at"`
}

// Balances sums deltas per store/SKU pair. Pairs without entries are absent.
func (r *repository) Balances(ctx context.Context, filter BalanceFilter) ([]StockBalanceDTO, error) {
	q := r.DB(ctx).Model(&models.StockLedger{}).
		Select("store_id, sku_id, COALESCE(SUM(qty_delta), 0) AS on_hand, MAX(created_at) AS updated_at")
	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.SKUID != "" {
		q = q.Where("sku_id = ?", filter.SKUID)
	}
	var rows []balanceRow
	if err := q.Group("store_id, sku_id").Order("store_id, sku_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]StockBalanceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, StockBalanceDTO{
			StoreID:   row.StoreID,
			SKUID:     row.SKUID,
			OnHand:    row.OnHand,
			UpdatedAt: row.UpdatedAt.Time,
		})
	}
	return out, nil
}
