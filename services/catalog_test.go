package services

import (
	"context"
	"testing"

	"cravecart-api/imagefetch"
	"cravecart-api/models"
	"cravecart-api/repository"
	"cravecart-api/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImages struct {
	path string
	err  error
}

func (s stubImages) Save(context.Context, string, string) (string, error) { return s.path, s.err }

func strp(v string) *string { return &v }

// countingImages records how many images were fetched and stored
type countingImages struct {
	saved int
}

func (c *countingImages) Save(_ context.Context, _ string, folder string) (string, error) {
	c.saved++
	return "/uploads/" + folder + "/stored.jpg", nil
}

func newCatalogService(t *testing.T, images ImageStore) (*CatalogService, *env) {
	e := newEnv(t)
	svc := NewCatalogService(repository.NewRestaurantRepository(e.db), repository.NewFoodRepository(e.db), images, testutil.DiscardLogger())
	return svc, e
}

func validRestaurant() RestaurantInput {
	return RestaurantInput{
		Name:        strp("Mumbai Street Eats"),
		Description: strp("Chaat and more"),
		Address:     strp("Juhu Beach"),
		Image:       strp("https://cdn.example.com/mse.jpg"),
	}
}

func TestCatalogService_CreateRestaurant(t *testing.T) {
	svc, e := newCatalogService(t, stubImages{path: "/uploads/restaurants/x.jpg"})
	ctx := context.Background()
	owner := Caller{ID: e.owner.ID, Role: models.RoleOwner}

	r, err := svc.CreateRestaurant(ctx, owner, validRestaurant())
	require.NoError(t, err)
	assert.Equal(t, e.owner.ID, r.OwnerID)
	assert.True(t, r.IsActive)
	assert.Equal(t, "https://cdn.example.com/mse.jpg", r.Image)

	in := validRestaurant()
	in.Image = nil
	in.ImageURL = strp("https://blog.example.com/mse")
	r, err = svc.CreateRestaurant(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/restaurants/x.jpg", r.Image)

	in = validRestaurant()
	in.Image = nil
	_, err = svc.CreateRestaurant(ctx, owner, in)
	assertKind(t, err, KindInvalidInput)
	assert.Equal(t, "All fields including image are required", err.Error())
}

func TestCatalogService_ImageSourceErrorIsInvalidInput(t *testing.T) {
	svc, e := newCatalogService(t, stubImages{err: &imagefetch.SourceError{Message: "Could not find a valid image on the provided webpage link"}})

	in := validRestaurant()
	in.ImageURL = strp("https://blog.example.com/nothing")
	_, err := svc.CreateRestaurant(context.Background(), Caller{ID: e.owner.ID, Role: models.RoleOwner}, in)
	assertKind(t, err, KindInvalidInput)
	assert.Equal(t, "Could not find a valid image on the provided webpage link", err.Error())
}

func TestCatalogService_MissingFieldsSkipImageFetch(t *testing.T) {
	images := &countingImages{}
	svc, e := newCatalogService(t, images)
	ctx := context.Background()
	owner := Caller{ID: e.owner.ID, Role: models.RoleOwner}

	in := validRestaurant()
	in.Name = strp("  ")
	in.Image = nil
	in.ImageURL = strp("https://blog.example.com/mse")
	_, err := svc.CreateRestaurant(ctx, owner, in)
	assertKind(t, err, KindInvalidInput)
	assert.Equal(t, "All fields including image are required", err.Error())

	price := decimal.RequireFromString("99")
	_, err = svc.CreateFood(ctx, owner, FoodInput{
		RestaurantID: e.place.ID, Name: strp("Kulfi"), Price: &price, ImageURL: strp("https://blog.example.com/kulfi"),
	})
	assertKind(t, err, KindInvalidInput)
	assert.Equal(t, 0, images.saved)

	food, err := svc.CreateFood(ctx, owner, FoodInput{
		RestaurantID: e.place.ID, Name: strp("Kulfi"), Price: &price, Category: strp("Dessert"),
		ImageURL: strp("https://blog.example.com/kulfi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/foods/stored.jpg", food.Image)
	assert.Equal(t, 1, images.saved)
}

func TestCatalogService_OwnershipRules(t *testing.T) {
	svc, e := newCatalogService(t, stubImages{})
	ctx := context.Background()
	rival := testutil.CreateUser(t, e.db, "rival@test.io", models.RoleOwner)
	admin := testutil.CreateUser(t, e.db, "admin@test.io", models.RoleAdmin)

	_, err := svc.UpdateRestaurant(ctx, Caller{ID: rival.ID, Role: models.RoleOwner}, e.place.ID, RestaurantInput{Name: strp("Stolen")})
	assertKind(t, err, KindForbidden)

	updated, err := svc.UpdateRestaurant(ctx, Caller{ID: admin.ID, Role: models.RoleAdmin}, e.place.ID, RestaurantInput{Name: strp("Renamed"), IsActive: new(bool)})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsActive)

	price := decimal.NewFromInt(120)
	_, err = svc.CreateFood(ctx, Caller{ID: rival.ID, Role: models.RoleOwner}, FoodInput{
		RestaurantID: e.place.ID, Name: strp("Kulfi"), Price: &price, Category: strp("Dessert"), Image: strp("https://cdn.example.com/k.jpg"),
	})
	assertKind(t, err, KindForbidden)

	_, err = svc.CreateFood(ctx, Caller{ID: e.owner.ID, Role: models.RoleOwner}, FoodInput{
		RestaurantID: 9999, Name: strp("Kulfi"), Price: &price,
	})
	assertKind(t, err, KindNotFound)
}

func TestCatalogService_FoodLifecycle(t *testing.T) {
	svc, e := newCatalogService(t, stubImages{})
	ctx := context.Background()
	owner := Caller{ID: e.owner.ID, Role: models.RoleOwner}

	zero := decimal.Zero
	_, err := svc.CreateFood(ctx, owner, FoodInput{RestaurantID: e.place.ID, Name: strp("Free Lunch"), Price: &zero})
	assertKind(t, err, KindInvalidInput)
	assert.Equal(t, "Invalid price", err.Error())

	price := decimal.RequireFromString("149.50")
	food, err := svc.CreateFood(ctx, owner, FoodInput{
		RestaurantID: e.place.ID, Name: strp("Rasmalai"), Price: &price, Category: strp("Dessert"), Image: strp("https://cdn.example.com/r.jpg"),
	})
	require.NoError(t, err)
	assert.True(t, food.IsAvailable)

	menu, err := svc.ListFoods(ctx, e.place.ID)
	require.NoError(t, err)
	require.Len(t, menu, 1)

	off := false
	_, err = svc.UpdateFood(ctx, owner, food.ID, FoodInput{IsAvailable: &off})
	require.NoError(t, err)
	menu, err = svc.ListFoods(ctx, e.place.ID)
	require.NoError(t, err)
	assert.Empty(t, menu)

	require.NoError(t, svc.DeleteFood(ctx, owner, food.ID))
	assertKind(t, svc.DeleteFood(ctx, owner, food.ID), KindNotFound)
}

func TestCatalogService_DeleteRestaurantRemovesMenu(t *testing.T) {
	svc, e := newCatalogService(t, stubImages{})
	ctx := context.Background()
	food := e.food(t, "Dal Makhani", "160")

	require.NoError(t, svc.DeleteRestaurant(ctx, Caller{ID: e.owner.ID, Role: models.RoleOwner}, e.place.ID))

	_, err := svc.GetRestaurant(ctx, e.place.ID)
	assertKind(t, err, KindNotFound)
	gone, err := e.catalog.FindByID(ctx, food.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCatalogService_ListRestaurantsByCaller(t *testing.T) {
	svc, e := newCatalogService(t, stubImages{})
	ctx := context.Background()
	other := testutil.CreateUser(t, e.db, "other-owner@test.io", models.RoleOwner)
	closed := testutil.CreateRestaurant(t, e.db, other.ID, "Closed Kitchen")
	require.NoError(t, e.db.Model(&models.Restaurant{}).Where("id = ?", closed.ID).Update("is_active", false).Error)

	public, err := svc.ListRestaurants(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	own, err := svc.ListRestaurants(ctx, &Caller{ID: other.ID, Role: models.RoleOwner})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, closed.ID, own[0].ID)

	all, err := svc.ListRestaurants(ctx, &Caller{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
