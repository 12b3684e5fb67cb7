package service

import (
	"context"
	"net/http"
	"testing"

	infraRepo "github.com/shopbill/shopbill-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newShopService(db *gorm.DB) *ShopService {
	return NewShopService(infraRepo.NewShopRepository(db), infraRepo.NewUserRepository(db))
}

func TestCreateShopEnrollsCreator(t *testing.T) {
	db := setupTestDB(t)
	svc := newShopService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", false)

	shop, err := svc.CreateShop(ctx, user, "Main", "1 High St")
	require.NoError(t, err)
	require.NotZero(t, shop.ID)

	shops, err := svc.ListShops(ctx, user)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, shop.ID, shops[0].ID)
}

func TestGetShopAccess(t *testing.T) {
	db := setupTestDB(t)
	svc := newShopService(db)
	ctx := context.Background()

	member := seedUser(t, db, "alice", false)
	outsider := seedUser(t, db, "bob", false)
	admin := seedUser(t, db, "root", true)
	shop := seedShop(t, db, "Main")
	enroll(t, db, member.ID, shop.ID)

	_, err := svc.GetShop(ctx, member, 999)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = svc.GetShop(ctx, outsider, shop.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	got, err := svc.GetShop(ctx, member, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)

	// superusers see every shop without a membership row
	_, err = svc.GetShop(ctx, admin, shop.ID)
	assert.NoError(t, err)
}

func TestMembershipManagementIsSuperuserOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newShopService(db)
	ctx := context.Background()

	member := seedUser(t, db, "alice", false)
	admin := seedUser(t, db, "root", true)
	newcomer := seedUser(t, db, "carol", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, member.ID, shop.ID)

	err := svc.AddMember(ctx, member, shop.ID, newcomer.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	assert.Equal(t, http.StatusNotFound, statusOf(t, svc.AddMember(ctx, admin, 999, newcomer.ID)))
	assert.Equal(t, http.StatusNotFound, statusOf(t, svc.AddMember(ctx, admin, shop.ID, 999)))

	require.NoError(t, svc.AddMember(ctx, admin, shop.ID, newcomer.ID))
	// adding twice is idempotent
	require.NoError(t, svc.AddMember(ctx, admin, shop.ID, newcomer.ID))

	shops, err := svc.ListShops(ctx, newcomer)
	require.NoError(t, err)
	require.Len(t, shops, 1)

	err = svc.RemoveMember(ctx, member, shop.ID, newcomer.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	require.NoError(t, svc.RemoveMember(ctx, admin, shop.ID, newcomer.ID))
	shops, err = svc.ListShops(ctx, newcomer)
	require.NoError(t, err)
	assert.Empty(t, shops)
}
