package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-admin-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type stubOrderService struct {
	err       error
	created   *orders.CreateOrderInput
	filter    orders.ListFilter
	patchedID string
	patch     orders.UpdateOrderInput
}

func (s *stubOrderService) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	s.created = &input
	if s.err != nil {
		return nil, s.err
	}
	items := make([]orders.ItemDTO, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, orders.ItemDTO{SKUID: it.SKUID, Qty: it.Qty, Price: it.Price, TaxRate: it.TaxRate})
	}
	return &orders.OrderDTO{OrderID: input.OrderID, StoreID: input.StoreID, Channel: "POS", Status: "CREATED", Total: *input.Total, Items: items}, nil
}

func (s *stubOrderService) Get(ctx context.Context, orderID string) (*orders.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orders.OrderDTO{OrderID: orderID}, nil
}

func (s *stubOrderService) List(ctx context.Context, filter orders.ListFilter) ([]orders.OrderDTO, error) {
	s.filter = filter
	return []orders.OrderDTO{}, s.err
}

func (s *stubOrderService) Update(ctx context.Context, orderID string, input orders.UpdateOrderInput) (*orders.OrderDTO, error) {
	s.patchedID, s.patch = orderID, input
	if s.err != nil {
		return nil, s.err
	}
	return &orders.OrderDTO{OrderID: orderID, Status: *input.Status}, nil
}

func TestOrderCreateSuccess(t *testing.T) {
	svc := &stubOrderService{}
	body := `{"order_id":"O1","store_id":"S001","total":25.5,"items":[{"sku_id":"SKU001","qty":2,"price":12.75,"tax_rate":0.13}]}`
	rec := serve(http.MethodPost, "/orders", "/orders", body, OrderCreate(svc, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var got orders.OrderDTO
	decodeData(t, rec, &got)
	if len(got.Items) != 1 || got.Items[0].Qty != 2 {
		t.Fatalf("unexpected items %+v", got.Items)
	}
	if !got.Total.Equal(decimal.RequireFromString("25.5")) {
		t.Fatalf("unexpected total %s", got.Total)
	}
}

func TestOrderCreateRejectsBadItems(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"no items":  {`{"order_id":"O1","store_id":"S001","total":1,"items":[]}`, "items"},
		"zero qty":  {`{"order_id":"O1","store_id":"S001","total":1,"items":[{"sku_id":"A","qty":0}]}`, "items[0].qty"},
		"no total":  {`{"order_id":"O1","store_id":"S001","items":[{"sku_id":"A","qty":1}]}`, "total"},
		"no sku id": {`{"order_id":"O1","store_id":"S001","total":1,"items":[{"qty":1}]}`, "items[0].sku_id"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubOrderService{}
			rec := serve(http.MethodPost, "/orders", "/orders", tc.body, OrderCreate(svc, nil))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422 got %d", rec.Code)
			}
			_, details := errorCode(t, rec)
			if _, ok := details[tc.field]; !ok {
				t.Fatalf("expected detail for %s, got %v", tc.field, details)
			}
			if svc.created != nil {
				t.Fatal("service must not be called")
			}
		})
	}
}

func TestOrderCreateUnknownSKU(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "SKU X not found")}
	body := `{"order_id":"O1","store_id":"S001","total":1,"items":[{"sku_id":"X","qty":1}]}`
	rec := serve(http.MethodPost, "/orders", "/orders", body, OrderCreate(svc, nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestOrderListFilters(t *testing.T) {
	svc := &stubOrderService{}
	rec := serve(http.MethodGet, "/orders", "/orders?store_id=S001&status_filter=PAID&limit=10", "", OrderList(svc, pagination.DefaultBounds, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.filter.StoreID != "S001" || svc.filter.Status != "PAID" || svc.filter.Page.Limit != 10 {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
}

func TestOrderUpdateForwardsPatch(t *testing.T) {
	svc := &stubOrderService{}
	rec := serve(http.MethodPatch, "/orders/{orderID}", "/orders/O1", `{"status":"PAID","member_id":null}`, OrderUpdate(svc, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.patchedID != "O1" || !svc.patch.MemberID.Valid || svc.patch.MemberID.Value != nil {
		t.Fatalf("unexpected patch %s %+v", svc.patchedID, svc.patch)
	}
	if svc.patch.Total != nil {
		t.Fatal("total should be untouched")
	}
}

func TestOrderGetNotFound(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	rec := serve(http.MethodGet, "/orders/{orderID}", "/orders/missing", "", OrderGet(svc, nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
