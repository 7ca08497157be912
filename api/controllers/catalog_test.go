package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/angelmondragon/retail-admin-backend/internal/catalog"
	"github.com/angelmondragon/retail-admin-backend/internal/members"
	"github.com/angelmondragon/retail-admin-backend/internal/promotions"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type stubCatalogService struct {
	catalog.Service
	created *catalog.CreateSKUInput
	patch   catalog.UpdateSKUInput
	err     error
}

func (s *stubCatalogService) Create(ctx context.Context, input catalog.CreateSKUInput) (*catalog.SKUDTO, error) {
	s.created = &input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.SKUDTO{SKUID: input.SKUID, Name: input.Name}, nil
}

func (s *stubCatalogService) Update(ctx context.Context, skuID string, input catalog.UpdateSKUInput) (*catalog.SKUDTO, error) {
	s.patch = input
	return &catalog.SKUDTO{SKUID: skuID}, s.err
}

func TestSKUCreateWithChildren(t *testing.T) {
	svc := &stubCatalogService{}
	body := `{"sku_id":"SKU001","name":"Milk","tax_rate":0.13,
		"barcodes":[{"code":"690000000001","package_size":"1L"}],
		"prices":[{"store_id":"S001","price":9.9,"member_price":8.8}]}`
	rec := serve(http.MethodPost, "/catalog/skus", "/catalog/skus", body, SKUCreate(svc, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.created.Barcodes) != 1 || len(svc.created.Prices) != 1 || !svc.created.Prices[0].MemberPrice.Valid {
		t.Fatalf("children not decoded: %+v", svc.created)
	}
}

func TestSKUCreateBarcodeRequiresCode(t *testing.T) {
	svc := &stubCatalogService{}
	rec := serve(http.MethodPost, "/catalog/skus", "/catalog/skus", `{"sku_id":"SKU001","name":"Milk","barcodes":[{}]}`, SKUCreate(svc, nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	_, details := errorCode(t, rec)
	if _, ok := details["barcodes[0].code"]; !ok {
		t.Fatalf("expected nested detail, got %v", details)
	}
}

func TestSKUCreateDuplicateBarcode(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeConflict, "barcode already exists")}
	rec := serve(http.MethodPost, "/catalog/skus", "/catalog/skus", `{"sku_id":"SKU001","name":"Milk"}`, SKUCreate(svc, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSKUUpdateEmptyBarcodesClearsSet(t *testing.T) {
	svc := &stubCatalogService{}
	rec := serve(http.MethodPatch, "/catalog/skus/{skuID}", "/catalog/skus/SKU001", `{"barcodes":[]}`, SKUUpdate(svc, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.patch.Barcodes == nil || len(*svc.patch.Barcodes) != 0 {
		t.Fatalf("expected empty replacement set, got %+v", svc.patch.Barcodes)
	}
	if svc.patch.Prices != nil {
		t.Fatal("prices should be untouched")
	}
}

type stubMemberService struct {
	members.Service
	created *members.CreateMemberInput
	page    pagination.Params
}

func (s *stubMemberService) Create(ctx context.Context, input members.CreateMemberInput) (*members.MemberDTO, error) {
	s.created = &input
	return &members.MemberDTO{MemberID: input.MemberID, Tier: "standard", Tags: "{}"}, nil
}

func (s *stubMemberService) List(ctx context.Context, p pagination.Params) ([]members.MemberDTO, error) {
	s.page = p
	return []members.MemberDTO{}, nil
}

func TestMemberCreateAndList(t *testing.T) {
	svc := &stubMemberService{}
	rec := serve(http.MethodPost, "/members", "/members", `{"member_id":"M001","phone":"13800000000"}`, MemberCreate(svc, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var got members.MemberDTO
	decodeData(t, rec, &got)
	if got.Tier != "standard" || got.Tags != "{}" {
		t.Fatalf("unexpected member %+v", got)
	}

	rec = serve(http.MethodGet, "/members", "/members", "", MemberList(svc, pagination.Bounds{Default: 25, Max: 100}, nil))
	if rec.Code != http.StatusOK || svc.page.Limit != 25 {
		t.Fatalf("expected default limit 25, got %d (%d)", svc.page.Limit, rec.Code)
	}
}

type stubPromotionService struct {
	promotions.Service
	patch promotions.UpdatePromotionInput
	err   error
}

func (s *stubPromotionService) Get(ctx context.Context, promotionID string) (*promotions.PromotionDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &promotions.PromotionDTO{PromotionID: promotionID}, nil
}

func (s *stubPromotionService) Update(ctx context.Context, promotionID string, input promotions.UpdatePromotionInput) (*promotions.PromotionDTO, error) {
	s.patch = input
	return &promotions.PromotionDTO{PromotionID: promotionID}, s.err
}

func TestPromotionUpdateNullClears(t *testing.T) {
	svc := &stubPromotionService{}
	rec := serve(http.MethodPatch, "/promotions/{promotionID}", "/promotions/P1", `{"name":"Spring","ends_at":null,"store_scope":null}`, PromotionUpdate(svc, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.patch.EndsAt.Valid || svc.patch.EndsAt.Value != nil {
		t.Fatalf("expected explicit null ends_at, got %+v", svc.patch.EndsAt)
	}
	if !svc.patch.StoreScope.Valid || svc.patch.MemberTierScope.Valid {
		t.Fatalf("unexpected scopes %+v / %+v", svc.patch.StoreScope, svc.patch.MemberTierScope)
	}
}

func TestPromotionGetNotFound(t *testing.T) {
	svc := &stubPromotionService{err: pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")}
	rec := serve(http.MethodGet, "/promotions/{promotionID}", "/promotions/P404", "", PromotionGet(svc, nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
