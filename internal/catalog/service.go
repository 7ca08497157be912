package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateSKUInput) (*SKUDTO, error)
	Get(ctx context.Context, skuID string) (*SKUDTO, error)
	List(ctx context.Context, p pagination.Params) ([]SKUDTO, error)
	Update(ctx context.Context, skuID string, input UpdateSKUInput) (*SKUDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService wires the catalog service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Create(ctx context.Context, input CreateSKUInput) (*SKUDTO, error) {
	now := s.now()
	sku := input.toModel(now)
	if sku.SKUID == "" || sku.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku_id and name are required")
	}
	if sku.TaxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax_rate must not be negative")
	}
	if err := validateChildren(input.Barcodes, input.Prices); err != nil {
		return nil, err
	}

	var created *models.SKU
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateSKU(ctx, sku); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "SKU already exists").
					WithDetails(map[string]any{"sku_id": sku.SKUID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sku")
		}
		if err := s.replaceChildren(ctx, repo, sku.SKUID, &input.Barcodes, &input.Prices, now); err != nil {
			return err
		}
		loaded, err := repo.FindBySKUIDWithChildren(ctx, sku.SKUID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload sku")
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, skuID string) (*SKUDTO, error) {
	sku, err := s.repo.FindBySKUIDWithChildren(ctx, strings.TrimSpace(skuID))
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(sku), nil
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]SKUDTO, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list skus")
	}
	out := make([]SKUDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, skuID string, input UpdateSKUInput) (*SKUDTO, error) {
	skuID = strings.TrimSpace(skuID)
	if input.TaxRate != nil && input.TaxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax_rate must not be negative")
	}
	var barcodes []BarcodeInput
	if input.Barcodes != nil {
		barcodes = *input.Barcodes
	}
	var prices []PriceInput
	if input.Prices != nil {
		prices = *input.Prices
	}
	if err := validateChildren(barcodes, prices); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *models.SKU
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sku, err := repo.FindBySKUID(ctx, skuID)
		if err != nil {
			return mapLoadError(err)
		}
		input.apply(sku, now)
		if sku.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		if err := repo.UpdateSKU(ctx, sku); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sku")
		}
		if err := s.replaceChildren(ctx, repo, skuID, input.Barcodes, input.Prices, now); err != nil {
			return err
		}
		loaded, err := repo.FindBySKUIDWithChildren(ctx, skuID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload sku")
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// replaceChildren swaps in the supplied sets; a nil pointer leaves that set untouched.
func (s *service) replaceChildren(ctx context.Context, repo Repository, skuID string, barcodes *[]BarcodeInput, prices *[]PriceInput, now time.Time) error {
	if barcodes != nil {
		if err := repo.ReplaceBarcodes(ctx, skuID, barcodeModels(skuID, *barcodes)); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "barcode already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace barcodes")
		}
	}
	if prices != nil {
		if err := repo.ReplacePrices(ctx, skuID, priceModels(skuID, *prices, now)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace prices")
		}
	}
	return nil
}

func validateChildren(barcodes []BarcodeInput, prices []PriceInput) error {
	details := map[string]string{}
	for i, b := range barcodes {
		if strings.TrimSpace(b.Code) == "" {
			details[fmt.Sprintf("barcodes[%d].code", i)] = "is required"
		}
	}
	for i, p := range prices {
		key := fmt.Sprintf("prices[%d]", i)
		if strings.TrimSpace(p.StoreID) == "" {
			details[key+".store_id"] = "is required"
		}
		if p.Price.IsNegative() {
			details[key+".price"] = "must not be negative"
		}
		if p.MemberPrice.Valid && p.MemberPrice.Decimal.IsNegative() {
			details[key+".member_price"] = "must not be negative"
		}
		if p.StartAt != nil && p.EndAt != nil && p.EndAt.Before(*p.StartAt) {
			details[key+".end_at"] = "must not precede start_at"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func mapLoadError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "SKU not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sku")
}
