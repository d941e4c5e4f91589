package services

import (
	"context"
	"sync"
	"testing"

	"cravecart-api/events"
	"cravecart-api/models"
	"cravecart-api/repository"
	"cravecart-api/telemetry"
	"cravecart-api/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type env struct {
	db        *gorm.DB
	cart      *CartService
	orders    *OrderService
	catalog   *repository.FoodRepository
	published *recordingPublisher
	customer  *models.User
	owner     *models.User
	place     *models.Restaurant
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	logger := testutil.DiscardLogger()
	metrics := telemetry.NopMetrics()

	foods := repository.NewFoodRepository(db)
	carts := repository.NewCartRepository(db)
	pub := &recordingPublisher{}

	owner := testutil.CreateUser(t, db, "owner@test.io", models.RoleOwner)
	return &env{
		db:        db,
		cart:      NewCartService(carts, foods, metrics, logger),
		orders:    NewOrderService(db, repository.NewOrderRepository(db), carts, repository.NewUserRepository(db), foods, pub, metrics, logger),
		catalog:   foods,
		published: pub,
		customer:  testutil.CreateUser(t, db, "customer@test.io", models.RoleCustomer),
		owner:     owner,
		place:     testutil.CreateRestaurant(t, db, owner.ID, "Delhi Spice Hub"),
	}
}

func (e *env) food(t *testing.T, name, price string) *models.FoodItem {
	return testutil.CreateFood(t, e.db, e.place.ID, name, price)
}

func (e *env) setPrice(t *testing.T, food *models.FoodItem, price string) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.FoodItem{}).Where("id = ?", food.ID).Update("price", decimal.RequireFromString(price)).Error)
}

func intp(v int) *int { return &v }

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "error: %v", err)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
