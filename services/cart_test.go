package services

import (
	"context"
	"math"
	"testing"

	"cravecart-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_GetCreatesEmptyCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cart, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assertMoney(t, "0", cart.TotalAmount)

	again, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddMergesQuantities(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dosa := e.food(t, "Masala Dosa", "80")

	_, err := e.cart.AddItem(ctx, e.customer.ID, dosa.ID, intp(2))
	require.NoError(t, err)
	cart, err := e.cart.AddItem(ctx, e.customer.ID, dosa.ID, intp(3))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "Masala Dosa", cart.Items[0].Food.Name)
	assertMoney(t, "400", cart.TotalAmount)
}

func TestCartService_AddDefaultsToOne(t *testing.T) {
	e := newEnv(t)
	vada := e.food(t, "Vada Pav", "25.50")

	cart, err := e.cart.AddItem(context.Background(), e.customer.ID, vada.ID, nil)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assertMoney(t, "25.5", cart.TotalAmount)
}

func TestCartService_AddRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dosa := e.food(t, "Masala Dosa", "80")
	hidden := e.food(t, "Seasonal Thali", "300")
	require.NoError(t, e.db.Model(&models.FoodItem{}).Where("id = ?", hidden.ID).Update("is_available", false).Error)

	tests := map[string]struct {
		foodID   uint
		quantity *int
		kind     Kind
	}{
		"zero quantity":     {dosa.ID, intp(0), KindInvalidInput},
		"negative quantity": {dosa.ID, intp(-2), KindInvalidInput},
		"above line limit":  {dosa.ID, intp(MaxLineQuantity + 1), KindInvalidInput},
		"max int quantity":  {dosa.ID, intp(math.MaxInt), KindInvalidInput},
		"unknown food":      {9999, intp(1), KindNotFound},
		"unavailable food":  {hidden.ID, intp(1), KindInvalidState},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := e.cart.AddItem(ctx, e.customer.ID, tc.foodID, tc.quantity)
			assertKind(t, err, tc.kind)
		})
	}

	cart, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_MergeCannotPassLineLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dosa := e.food(t, "Masala Dosa", "80")

	_, err := e.cart.AddItem(ctx, e.customer.ID, dosa.ID, intp(MaxLineQuantity))
	require.NoError(t, err)

	_, err = e.cart.AddItem(ctx, e.customer.ID, dosa.ID, intp(1))
	assertKind(t, err, KindInvalidInput)
	assert.Equal(t, "Quantity cannot exceed 10000 per item", err.Error())

	cart, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, MaxLineQuantity, cart.Items[0].Quantity)
	assertMoney(t, "800000", cart.TotalAmount)
}

func TestCartService_TotalFollowsPriceAtMutation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.food(t, "Butter Chicken", "100")
	b := e.food(t, "Naan", "20")

	_, err := e.cart.AddItem(ctx, e.customer.ID, a.ID, intp(2))
	require.NoError(t, err)

	e.setPrice(t, a, "120")

	// reads do not reprice
	cart, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	assertMoney(t, "200", cart.TotalAmount)

	cart, err = e.cart.AddItem(ctx, e.customer.ID, b.ID, intp(3))
	require.NoError(t, err)
	assertMoney(t, "300", cart.TotalAmount)

	cart, err = e.cart.RemoveItem(ctx, e.customer.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assertMoney(t, "60", cart.TotalAmount)
}

func TestCartService_RemoveAbsentItemIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.food(t, "Idli", "40")

	_, err := e.cart.AddItem(ctx, e.customer.ID, a.ID, intp(2))
	require.NoError(t, err)

	cart, err := e.cart.RemoveItem(ctx, e.customer.ID, 12345)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assertMoney(t, "80", cart.TotalAmount)
}

func TestCartService_RemoveAndClearWithoutCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.cart.RemoveItem(ctx, e.customer.ID, 1)
	assertKind(t, err, KindNotFound)
	assert.Equal(t, "Cart not found", err.Error())

	assertKind(t, e.cart.Clear(ctx, e.customer.ID), KindNotFound)
}

func TestCartService_Clear(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.food(t, "Idli", "40")

	_, err := e.cart.AddItem(ctx, e.customer.ID, a.ID, intp(2))
	require.NoError(t, err)
	require.NoError(t, e.cart.Clear(ctx, e.customer.ID))

	cart, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assertMoney(t, "0", cart.TotalAmount)
}

func TestCartService_DeletedFoodDroppedOnRecompute(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.food(t, "Pav Bhaji", "90")
	b := e.food(t, "Lassi", "30")

	_, err := e.cart.AddItem(ctx, e.customer.ID, a.ID, intp(1))
	require.NoError(t, err)
	_, err = e.cart.AddItem(ctx, e.customer.ID, b.ID, intp(1))
	require.NoError(t, err)

	require.NoError(t, e.catalog.Delete(ctx, a.ID))

	cart, err := e.cart.RemoveItem(ctx, e.customer.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].Food.ID)
	assertMoney(t, "30", cart.TotalAmount)
}

func TestCartService_GetShowsDeletedFoodAsUnavailable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.food(t, "Pav Bhaji", "90")
	b := e.food(t, "Lassi", "30")

	_, err := e.cart.AddItem(ctx, e.customer.ID, a.ID, intp(1))
	require.NoError(t, err)
	_, err = e.cart.AddItem(ctx, e.customer.ID, b.ID, intp(1))
	require.NoError(t, err)
	require.NoError(t, e.catalog.Delete(ctx, a.ID))

	cart, err := e.cart.Get(ctx, e.customer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, a.ID, cart.Items[0].Food.ID)
	assert.True(t, cart.Items[0].Unavailable)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.False(t, cart.Items[1].Unavailable)
	assert.Equal(t, "Lassi", cart.Items[1].Food.Name)
	assertMoney(t, "120", cart.TotalAmount)
}

func TestCartService_InterleavedOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.food(t, "Samosa", "15")
	b := e.food(t, "Chai", "10.25")
	c := e.food(t, "Jalebi", "35")

	steps := []struct {
		add      bool
		foodID   uint
		qty      int
		expected string
	}{
		{true, a.ID, 2, "30"},
		{true, b.ID, 4, "71"},
		{true, c.ID, 1, "106"},
		{false, b.ID, 0, "65"},
		{true, a.ID, 1, "80"},
		{false, c.ID, 0, "45"},
		{false, a.ID, 0, "0"},
	}
	for i, s := range steps {
		var (
			cart *CartView
			err  error
		)
		if s.add {
			cart, err = e.cart.AddItem(ctx, e.customer.ID, s.foodID, intp(s.qty))
		} else {
			cart, err = e.cart.RemoveItem(ctx, e.customer.ID, s.foodID)
		}
		require.NoError(t, err, "step %d", i)
		assertMoney(t, s.expected, cart.TotalAmount)
	}
}
