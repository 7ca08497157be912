package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/internal/catalog"
	"github.com/angelmondragon/retail-admin-backend/internal/inventory"
	"github.com/angelmondragon/retail-admin-backend/internal/stores"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order placement and maintenance.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID string) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]OrderDTO, error)
	Update(ctx context.Context, orderID string, input UpdateOrderInput) (*OrderDTO, error)
}

// ServiceParams groups the collaborators of the order service.
type ServiceParams struct {
	Repo    Repository
	Stores  *stores.Repository
	Catalog catalog.Repository
	Ledger  inventory.Repository
	Tx      txRunner
}

type service struct {
	repo    Repository
	stores  *stores.Repository
	catalog catalog.Repository
	ledger  inventory.Repository
	tx      txRunner
	now     func() time.Time
}

// NewService wires the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    params.Repo,
		stores:  params.Stores,
		catalog: params.Catalog,
		ledger:  params.Ledger,
		tx:      params.Tx,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create writes the header, its lines and one sale ledger row per line in a
// single transaction.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	now := s.now()
	order := input.header(now)
	items := input.items(order.OrderID)

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		storeRepo := s.stores.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)
		orderRepo := s.repo.WithTx(tx)

		ok, err := storeRepo.Exists(ctx, order.StoreID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found").
				WithDetails(map[string]any{"store_id": order.StoreID})
		}

		missing, err := catalogRepo.MissingSKUIDs(ctx, input.skuIDs())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check skus")
		}
		if len(missing) > 0 {
			return missingSKUsError(missing)
		}

		exists, err := orderRepo.Exists(ctx, order.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
		}
		if exists {
			return conflict(nil, order.OrderID)
		}

		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err) {
				return conflict(err, order.OrderID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		entries := make([]*models.StockLedger, 0, len(items))
		for _, item := range items {
			entry := inventory.SaleEntry(order.StoreID, item.SKUID, order.OrderID, item.Qty, now)
			entries = append(entries, &entry)
		}
		if err := ledgerRepo.Append(ctx, entries...); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale movements")
		}

		loaded, err := orderRepo.FindByOrderID(ctx, order.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.find(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]OrderDTO, error) {
	filter.StoreID = strings.TrimSpace(filter.StoreID)
	filter.Status = strings.TrimSpace(filter.Status)
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, orderID string, input UpdateOrderInput) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.find(ctx, repo, orderID)
		if err != nil {
			return err
		}
		input.apply(order, s.now())
		if order.Status == "" || order.Channel == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "status and channel cannot be blank")
		}
		if err := repo.UpdateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) find(ctx context.Context, repo Repository, orderID string) (*models.Order, error) {
	order, err := repo.FindByOrderID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func validateCreate(input CreateOrderInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.OrderID) == "" {
		details["order_id"] = "required"
	}
	if strings.TrimSpace(input.StoreID) == "" {
		details["store_id"] = "required"
	}
	if input.Total == nil {
		details["total"] = "required"
	}
	if len(input.Items) == 0 {
		details["items"] = "at least one item is required"
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.SKUID) == "" {
			details[fmt.Sprintf("items[%d].sku_id", i)] = "required"
		}
		if item.Qty <= 0 {
			details[fmt.Sprintf("items[%d].qty", i)] = "must be greater than zero"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(details)
	}
	return nil
}

func missingSKUsError(missing []string) error {
	var combined error
	for _, id := range missing {
		combined = multierr.Append(combined, fmt.Errorf("SKU %s not found", id))
	}
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, combined, combined.Error()).
		WithDetails(map[string]any{"sku_ids": missing})
}

func conflict(cause error, orderID string) error {
	if cause == nil {
		cause = errors.New("order_id taken")
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, "order already exists").
		WithDetails(map[string]any{"order_id": orderID})
}
