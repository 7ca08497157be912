package inventory

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
)

type skuChecker interface {
	Exists(ctx context.Context, skuID string) (bool, error)
}

// Service records stock movements and derives balances.
type Service interface {
	RecordMove(ctx context.Context, input RecordMoveInput) (*LedgerEntryDTO, error)
	ListLedger(ctx context.Context, filter LedgerFilter) ([]LedgerEntryDTO, error)
	ListBalances(ctx context.Context, filter BalanceFilter) ([]StockBalanceDTO, error)
}

type service struct {
	repo Repository
	skus skuChecker
	now  func() time.Time
}

// NewService wires the inventory service.
func NewService(repo Repository, skus skuChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if skus == nil {
		return nil, fmt.Errorf("sku checker required")
	}
	return &service{repo: repo, skus: skus, now: func() time.Time { return time.Now().UTC() }}, nil
}

// RecordMove appends a movement after checking the SKU. The store is not
// looked up, so moves may reference stores that were never created.
func (s *service) RecordMove(ctx context.Context, input RecordMoveInput) (*LedgerEntryDTO, error) {
	entry := input.toModel(s.now())
	if entry.StoreID == "" || entry.SKUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_id and sku_id are required")
	}
	if input.QtyDelta == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty_delta is required")
	}

	exists, err := s.skus.Exists(ctx, entry.SKUID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "SKU not found").
			WithDetails(map[string]any{"sku_id": entry.SKUID})
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock move")
	}
	dto := EntryFromModel(entry)
	return &dto, nil
}

func (s *service) ListLedger(ctx context.Context, filter LedgerFilter) ([]LedgerEntryDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger")
	}
	out := make([]LedgerEntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, EntryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListBalances(ctx context.Context, filter BalanceFilter) ([]StockBalanceDTO, error) {
	rows, err := s.repo.Balances(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list balances")
	}
	return rows, nil
}
