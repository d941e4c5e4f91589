package repository_test

import (
	"context"
	"testing"

	"cravecart-api/models"
	"cravecart-api/repository"
	"cravecart-api/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_GetOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "c@test.io", models.RoleCustomer)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.True(t, first.TotalAmount.IsZero())

	second, err := repo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCartRepository_FindByUserMissing(t *testing.T) {
	db := testutil.NewDB(t)
	cart, err := repository.NewCartRepository(db).FindByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestCartRepository_SaveKeepsLineOrder(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "c@test.io", models.RoleCustomer)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	cart, err := repo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	cart.Items = []models.CartItem{{FoodID: 9, Quantity: 1}, {FoodID: 3, Quantity: 2}, {FoodID: 5, Quantity: 4}}
	cart.TotalAmount = decimal.NewFromInt(70)
	require.NoError(t, repo.Save(ctx, cart))
	assert.Equal(t, 1, cart.Version)

	reloaded, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 3)
	assert.Equal(t, uint(9), reloaded.Items[0].FoodID)
	assert.Equal(t, uint(3), reloaded.Items[1].FoodID)
	assert.Equal(t, uint(5), reloaded.Items[2].FoodID)
	assert.True(t, decimal.NewFromInt(70).Equal(reloaded.TotalAmount))
	assert.Equal(t, 1, reloaded.Version)
}

func TestCartRepository_SaveRejectsStaleVersion(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "c@test.io", models.RoleCustomer)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	created, err := repo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)

	a, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	b, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, created.Version, b.Version)

	a.Items = []models.CartItem{{FoodID: 1, Quantity: 1}}
	require.NoError(t, repo.Save(ctx, a))

	b.Items = []models.CartItem{{FoodID: 2, Quantity: 5}}
	err = repo.Save(ctx, b)
	assert.ErrorIs(t, err, repository.ErrStaleWrite)

	stored, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, uint(1), stored.Items[0].FoodID)
}
