package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByStoreID(ctx context.Context, storeID string) (*models.Store, error)
	List(ctx context.Context, p pagination.Params) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error)
	Get(ctx context.Context, storeID string) (*StoreDTO, error)
	List(ctx context.Context, p pagination.Params) ([]StoreDTO, error)
	Update(ctx context.Context, storeID string, input UpdateStoreInput) (*StoreDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error) {
	store := input.ToModel()
	if store.StoreID == "" || store.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_id and name are required")
	}
	if err := s.repo.Create(ctx, store); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "store already exists").
				WithDetails(map[string]any{"store_id": store.StoreID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) Get(ctx context.Context, storeID string) (*StoreDTO, error) {
	store, err := s.find(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]StoreDTO, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, storeID string, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.find(ctx, storeID)
	if err != nil {
		return nil, err
	}
	input.Apply(store)
	if store.Name == "" || store.Timezone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and timezone cannot be blank")
	}
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) find(ctx context.Context, storeID string) (*models.Store, error) {
	storeID = strings.TrimSpace(storeID)
	store, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}
