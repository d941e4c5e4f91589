package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cravecart-api/events"
	"cravecart-api/models"
	"cravecart-api/repository"
	"cravecart-api/statemachine"
	"cravecart-api/telemetry"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

type CreateOrderInput struct {
	DeliveryAddress string
	PaymentMethod   models.PaymentMethod
}

type UpdateStatusInput struct {
	Status models.OrderStatus
	Note   string
}

type OrderService struct {
	db        *gorm.DB
	orders    *repository.OrderRepository
	carts     *repository.CartRepository
	users     *repository.UserRepository
	catalog   Catalog
	publisher events.Publisher
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

func NewOrderService(
	db *gorm.DB,
	orders *repository.OrderRepository,
	carts *repository.CartRepository,
	users *repository.UserRepository,
	catalog Catalog,
	publisher events.Publisher,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		orders:    orders,
		carts:     carts,
		users:     users,
		catalog:   catalog,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create checks out the caller's cart. The order, its first history row and
// the emptied cart are written in one transaction.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Create")
	defer span.End()

	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return nil, invalidInput("Delivery address is required")
	}
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCOD
	}
	if !method.Valid() {
		return nil, invalidInput("Invalid payment method")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("find cart", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, invalidState("Cart is empty")
	}

	foods, err := s.catalog.FindByIDs(ctx, distinctFoodIDs(cart.Items))
	if err != nil {
		return nil, internal("resolve cart items", err)
	}
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		food, ok := foods[it.FoodID]
		if !ok {
			return nil, invalidState(fmt.Sprintf("Food item %d is no longer on the menu, remove it from your cart", it.FoodID))
		}
		items = append(items, models.OrderItem{
			FoodID:   food.ID,
			Name:     food.Name,
			Price:    food.Price,
			Quantity: it.Quantity,
		})
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     cart.TotalAmount,
		DeliveryAddress: address,
		PaymentMethod:   method,
		Status:          models.StatusPending,
		StatusHistory: []models.OrderStatusHistory{
			{ToStatus: models.StatusPending, ChangedBy: userID, Note: "Order placed"},
		},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		cart.Items = []models.CartItem{}
		cart.TotalAmount = decimal.Zero
		return s.carts.WithTx(tx).Save(ctx, cart)
	})
	if errors.Is(err, repository.ErrStaleWrite) {
		return nil, conflict("Cart was modified by another request, please retry")
	}
	if err != nil {
		return nil, internal("create order", err)
	}

	s.metrics.OrdersCreated.Add(ctx, 1,
		metric.WithAttributes(attribute.String("payment_method", string(method))))
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID, "user_id", userID, "total", order.TotalAmount.String())
	s.publish(ctx, events.NewOrderEvent(events.OrderCreated, order, ""))
	return order, nil
}

// ListMine returns the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return orders, nil
}

// ListAll returns every order with its owner's name and email attached. An
// empty status means no filter.
func (s *OrderService) ListAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, invalidInput("Invalid status filter")
	}
	orders, err := s.orders.ListAll(ctx, status)
	if err != nil {
		return nil, internal("list orders", err)
	}
	if err := s.attachUsers(ctx, orders); err != nil {
		return nil, internal("load order owners", err)
	}
	return orders, nil
}

// Get returns one order with its history. Customers can only see their own.
func (s *OrderService) Get(ctx context.Context, id, userID uint, role models.UserRole) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find order", err)
	}
	if order == nil {
		return nil, notFound("Order not found")
	}
	if !role.IsStaff() && order.UserID != userID {
		return nil, forbidden("Not authorized to view this order")
	}
	if role.IsStaff() {
		one := []models.Order{*order}
		if err := s.attachUsers(ctx, one); err != nil {
			return nil, internal("load order owner", err)
		}
		order = &one[0]
	}
	return order, nil
}

// UpdateStatus applies a staff transition
func (s *OrderService) UpdateStatus(ctx context.Context, id, actorID uint, in UpdateStatusInput) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !in.Status.Valid() {
		return nil, invalidInput("Invalid status")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find order", err)
	}
	if order == nil {
		return nil, notFound("Order not found")
	}
	return s.transition(ctx, order, in.Status, statemachine.ActorStaff, actorID, in.Note)
}

// Cancel withdraws the caller's own order while it is still pending
func (s *OrderService) Cancel(ctx context.Context, id, userID uint) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Cancel")
	defer span.End()

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find order", err)
	}
	if order == nil {
		return nil, notFound("Order not found")
	}
	if order.UserID != userID {
		return nil, forbidden("Not authorized to cancel this order")
	}
	return s.transition(ctx, order, models.StatusCancelled, statemachine.ActorCustomer, userID, "Cancelled by customer")
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus, actor statemachine.Actor, actorID uint, note string) (*models.Order, error) {
	from := order.Status
	if err := statemachine.CanTransition(from, to, actor); err != nil {
		return nil, &Error{Kind: KindInvalidState, Message: "Invalid status transition: " + err.Error(), Err: err}
	}

	err := s.orders.UpdateStatus(ctx, order.ID, from, to, actorID, note)
	if errors.Is(err, repository.ErrStaleWrite) {
		return nil, conflict("Order status was changed by another request, please retry")
	}
	if err != nil {
		return nil, internal("update order status", err)
	}

	updated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, internal("reload order", err)
	}
	if updated == nil {
		return nil, notFound("Order not found")
	}

	s.metrics.StatusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
	s.logger.InfoContext(ctx, "order status changed",
		"order_id", order.ID, "from", from, "to", to, "actor", actor, "actor_id", actorID)
	s.publish(ctx, events.NewOrderEvent(events.OrderStatusChanged, updated, from))
	return updated, nil
}

func (s *OrderService) attachUsers(ctx context.Context, orders []models.Order) error {
	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool, len(orders))
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}
	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		if u, ok := summaries[orders[i].UserID]; ok {
			orders[i].User = &u
		}
	}
	return nil
}

// publish is best effort: the change is already committed
func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "publish order event failed",
			"type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}
