package routes

import (
	"fmt"

	"github.com/angelmondragon/retail-admin-backend/internal/catalog"
	"github.com/angelmondragon/retail-admin-backend/internal/inventory"
	"github.com/angelmondragon/retail-admin-backend/internal/members"
	"github.com/angelmondragon/retail-admin-backend/internal/orders"
	"github.com/angelmondragon/retail-admin-backend/internal/promotions"
	"github.com/angelmondragon/retail-admin-backend/internal/stores"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
)

// RetailServices groups the services behind the retail API.
type RetailServices struct {
	Stores     stores.Service
	Catalog    catalog.Service
	Inventory  inventory.Service
	Members    members.Service
	Orders     orders.Service
	Promotions promotions.Service
}

// NewRetailServices builds every retail service on top of one database client.
func NewRetailServices(client *db.Client) (RetailServices, error) {
	conn := client.DB()

	storeRepo := stores.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	ledgerRepo := inventory.NewRepository(conn)

	var (
		svcs RetailServices
		err  error
	)
	if svcs.Stores, err = stores.NewService(storeRepo); err != nil {
		return svcs, fmt.Errorf("store service: %w", err)
	}
	if svcs.Catalog, err = catalog.NewService(catalogRepo, client); err != nil {
		return svcs, fmt.Errorf("catalog service: %w", err)
	}
	if svcs.Inventory, err = inventory.NewService(ledgerRepo, catalogRepo); err != nil {
		return svcs, fmt.Errorf("inventory service: %w", err)
	}
	if svcs.Members, err = members.NewService(members.NewRepository(conn)); err != nil {
		return svcs, fmt.Errorf("member service: %w", err)
	}
	if svcs.Promotions, err = promotions.NewService(promotions.NewRepository(conn)); err != nil {
		return svcs, fmt.Errorf("promotion service: %w", err)
	}
	svcs.Orders, err = orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(conn),
		Stores:  storeRepo,
		Catalog: catalogRepo,
		Ledger:  ledgerRepo,
		Tx:      client,
	})
	if err != nil {
		return svcs, fmt.Errorf("order service: %w", err)
	}
	return svcs, nil
}
