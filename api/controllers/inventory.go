package controllers

import (
	"net/http"

	"github.com/angelmondragon/retail-admin-backend/api/responses"
	"github.com/angelmondragon/retail-admin-backend/api/validators"
	"github.com/angelmondragon/retail-admin-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// InventoryMove appends one manual ledger entry.
func InventoryMove(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload inventory.RecordMoveInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithSKUID(logg.WithStoreID(r.Context(), payload.StoreID), payload.SKUID)
		entry, err := svc.RecordMove(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// InventoryLedger lists ledger rows, optionally filtered by store and SKU.
func InventoryLedger(svc inventory.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r, bounds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := inventory.LedgerFilter{
			StoreID: validators.QueryString(r, "store_id"),
			SKUID:   validators.QueryString(r, "sku_id"),
			Page:    page,
		}
		ctx := logg.WithSKUID(logg.WithStoreID(r.Context(), filter.StoreID), filter.SKUID)
		entries, err := svc.ListLedger(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// InventoryStock returns derived on-hand balances.
func InventoryStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		filter := inventory.BalanceFilter{
			StoreID: validators.QueryString(r, "store_id"),
			SKUID:   validators.QueryString(r, "sku_id"),
		}
		ctx := logg.WithSKUID(logg.WithStoreID(r.Context(), filter.StoreID), filter.SKUID)
		balances, err := svc.ListBalances(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, balances)
	}
}
