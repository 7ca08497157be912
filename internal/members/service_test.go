package members

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retail-admin-backend/internal/testdb"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
	"github.com/angelmondragon/retail-admin-backend/pkg/types"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client := testdb.Open(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	member, err := svc.Create(context.Background(), CreateMemberInput{MemberID: "M001"})
	require.NoError(t, err)
	assert.Equal(t, "standard", member.Tier)
	assert.Equal(t, "{}", member.Tags)
	assert.False(t, member.IsBlacklisted)
	assert.Nil(t, member.Phone)
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateMemberInput{MemberID: "M001", Tier: "gold"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateMemberInput{MemberID: "M001"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	all, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "gold", all[0].Tier)
}

func TestUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	phone := "13800000000"
	_, err := svc.Create(ctx, CreateMemberInput{MemberID: "M002", Phone: &phone, Tier: "silver", Tags: `{"vip":true}`})
	require.NoError(t, err)

	blacklisted := true
	updated, err := svc.Update(ctx, "M002", UpdateMemberInput{IsBlacklisted: &blacklisted})
	require.NoError(t, err)
	assert.True(t, updated.IsBlacklisted)
	assert.Equal(t, "silver", updated.Tier)
	assert.Equal(t, `{"vip":true}`, updated.Tags)
	require.NotNil(t, updated.Phone)

	notBlacklisted := false
	updated, err = svc.Update(ctx, "M002", UpdateMemberInput{Phone: types.Null[string](), IsBlacklisted: &notBlacklisted})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)

	got, err := svc.Get(ctx, "M002")
	require.NoError(t, err)
	assert.False(t, got.IsBlacklisted)
	assert.Nil(t, got.Phone)
	assert.Equal(t, "silver", got.Tier)
}

func TestMissingMemberIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "nobody")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)

	tier := "gold"
	_, err = svc.Update(context.Background(), "nobody", UpdateMemberInput{Tier: &tier})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}
