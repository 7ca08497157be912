package inventory

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retail-admin-backend/internal/catalog"
	"github.com/angelmondragon/retail-admin-backend/internal/testdb"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type fixture struct {
	svc   Service
	repo  Repository
	clock time.Time
}

func newFixture(t *testing.T, skuIDs ...string) *fixture {
	t.Helper()
	client := testdb.Open(t)
	for _, id := range skuIDs {
		require.NoError(t, client.DB().Create(&models.SKU{SKUID: id, Name: id}).Error)
	}
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, catalog.NewRepository(client.DB()))
	require.NoError(t, err)

	f := &fixture{svc: svc, repo: repo, clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.(*service).now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func qty(v int) *int { return &v }

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}

func TestRecordMoveRequiresKnownSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordMove(ctx, RecordMoveInput{StoreID: "S001", SKUID: "GHOST", QtyDelta: qty(5)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)

	entries, err := f.svc.ListLedger(ctx, LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordMoveDoesNotCheckStore(t *testing.T) {
	f := newFixture(t, "SKU001")

	entry, err := f.svc.RecordMove(context.Background(), RecordMoveInput{StoreID: "NO-SUCH-STORE", SKUID: "SKU001", QtyDelta: qty(3)})
	require.NoError(t, err)
	assert.Equal(t, "NO-SUCH-STORE", entry.StoreID)
	assert.Equal(t, "adjustment", entry.Reason)
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestRecordMoveRequiresQty(t *testing.T) {
	f := newFixture(t, "SKU001")
	_, err := f.svc.RecordMove(context.Background(), RecordMoveInput{StoreID: "S001", SKUID: "SKU001"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestListLedgerNewestFirstWithFilters(t *testing.T) {
	f := newFixture(t, "A", "B")
	ctx := context.Background()

	moves := []RecordMoveInput{
		{StoreID: "S1", SKUID: "A", QtyDelta: qty(10), Reason: "receive"},
		{StoreID: "S1", SKUID: "B", QtyDelta: qty(4)},
		{StoreID: "S2", SKUID: "A", QtyDelta: qty(-1), Reason: "damage"},
		{StoreID: "S1", SKUID: "A", QtyDelta: qty(-2)},
	}
	for _, m := range moves {
		_, err := f.svc.RecordMove(ctx, m)
		require.NoError(t, err)
	}

	all, err := f.svc.ListLedger(ctx, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, -2, all[0].QtyDelta)
	assert.Equal(t, 10, all[3].QtyDelta)

	s1a, err := f.svc.ListLedger(ctx, LedgerFilter{StoreID: "S1", SKUID: "A"})
	require.NoError(t, err)
	require.Len(t, s1a, 2)
	assert.Equal(t, "adjustment", s1a[0].Reason)
	assert.Equal(t, "receive", s1a[1].Reason)

	page, err := f.svc.ListLedger(ctx, LedgerFilter{Page: pagination.Params{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, -1, page[0].QtyDelta)
}

func TestBalancesSumDeltas(t *testing.T) {
	f := newFixture(t, "A", "B")
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	want := map[[2]string]int64{}
	var lastAt time.Time
	for i := 0; i < 40; i++ {
		store := []string{"S1", "S2"}[rng.Intn(2)]
		sku := []string{"A", "B"}[rng.Intn(2)]
		delta := rng.Intn(21) - 10
		entry, err := f.svc.RecordMove(ctx, RecordMoveInput{StoreID: store, SKUID: sku, QtyDelta: qty(delta)})
		require.NoError(t, err)
		want[[2]string{store, sku}] += int64(delta)
		lastAt = entry.CreatedAt
	}
	// sale rows written by order placement count the same way
	sale := SaleEntry("S1", "A", "ORD-1", 3, f.clock.Add(time.Minute))
	require.NoError(t, f.repo.Append(ctx, &sale))
	want[[2]string{"S1", "A"}] -= 3

	balances, err := f.svc.ListBalances(ctx, BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, balances, len(want))
	for _, b := range balances {
		assert.Equal(t, want[[2]string{b.StoreID, b.SKUID}], b.OnHand, "pair %s/%s", b.StoreID, b.SKUID)
		assert.False(t, b.UpdatedAt.IsZero())
	}
	assert.Equal(t, "S1", balances[0].StoreID)

	one, err := f.svc.ListBalances(ctx, BalanceFilter{StoreID: "S1", SKUID: "A"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.True(t, one[0].UpdatedAt.Equal(sale.CreatedAt), "updated_at is the newest entry: %v", one[0].UpdatedAt)
	assert.False(t, one[0].UpdatedAt.Before(lastAt))
}

func TestBalancesOmitPairsWithoutEntries(t *testing.T) {
	f := newFixture(t, "A")
	balances, err := f.svc.ListBalances(context.Background(), BalanceFilter{StoreID: "S9"})
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestSaleEntryIsNegative(t *testing.T) {
	at := time.Now()
	e := SaleEntry("S1", "A", "ORD-9", 2, at)
	assert.Equal(t, -2, e.QtyDelta)
	assert.Equal(t, "sale", e.Reason.String())
	require.NotNil(t, e.Reference)
	assert.Equal(t, "ORD-9", *e.Reference)

	e = SaleEntry("S1", "A", "ORD-9", -5, at)
	assert.Equal(t, -5, e.QtyDelta)
}
