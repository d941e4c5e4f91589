package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cravecart-api/models"
	"cravecart-api/repository"
	"cravecart-api/telemetry"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MaxLineQuantity caps the quantity of a single cart line
const MaxLineQuantity = 10000

// CartLine is a cart item resolved to the full food record. The food is
// serialized under "foodId" for the SPA. A line whose food was deleted from
// the catalog is Unavailable and carries only the food id.
type CartLine struct {
	Food        models.FoodItem `json:"foodId"`
	Quantity    int             `json:"quantity"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

type CartView struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"userId"`
	Items       []CartLine      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Version     int             `json:"version"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CartService struct {
	carts   *repository.CartRepository
	catalog Catalog
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

func NewCartService(carts *repository.CartRepository, catalog Catalog, metrics *telemetry.Metrics, logger *slog.Logger) *CartService {
	return &CartService{carts: carts, catalog: catalog, metrics: metrics, logger: logger}
}

// Get returns the caller's cart, creating an empty one on first access. The
// stored total is returned as is; it is only recomputed on mutation. Lines
// whose food has been deleted stay visible as unavailable until removed.
func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.Get")
	defer span.End()

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, internal("get cart", err)
	}
	priced, err := priceCart(ctx, s.catalog, cart.Items)
	if err != nil {
		return nil, internal("resolve cart items", err)
	}
	return newCartView(cart, priced.view), nil
}

// AddItem merges quantity of foodID into the cart. A nil quantity means 1.
func (s *CartService) AddItem(ctx context.Context, userID, foodID uint, quantity *int) (*CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.AddItem")
	defer span.End()

	qty := 1
	if quantity != nil {
		if *quantity <= 0 {
			return nil, invalidInput("Quantity must be a positive integer")
		}
		qty = *quantity
	}
	if qty > MaxLineQuantity {
		return nil, invalidInput(quantityLimitMessage)
	}

	food, err := s.catalog.FindByID(ctx, foodID)
	if err != nil {
		return nil, internal("find food", err)
	}
	if food == nil {
		return nil, notFound("Food item not found")
	}
	if !food.IsAvailable {
		return nil, invalidState("Food item is not available")
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, internal("get cart", err)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].FoodID == foodID {
			if cart.Items[i].Quantity > MaxLineQuantity-qty {
				return nil, invalidInput(quantityLimitMessage)
			}
			cart.Items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{FoodID: foodID, Quantity: qty})
	}

	view, err := s.reprice(ctx, cart, "add")
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "cart item added", "user_id", userID, "food_id", foodID, "quantity", qty)
	return view, nil
}

// RemoveItem drops the line for foodID. Removing an absent item is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, foodID uint) (*CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.RemoveItem")
	defer span.End()

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("find cart", err)
	}
	if cart == nil {
		return nil, notFound("Cart not found")
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.FoodID != foodID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept

	return s.reprice(ctx, cart, "remove")
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	ctx, span := tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return internal("find cart", err)
	}
	if cart == nil {
		return notFound("Cart not found")
	}

	cart.Items = []models.CartItem{}
	cart.TotalAmount = decimal.Zero
	if err := s.save(ctx, cart); err != nil {
		return err
	}
	s.metrics.CartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "clear")))
	return nil
}

// reprice recomputes the total from live prices and persists the cart
func (s *CartService) reprice(ctx context.Context, cart *models.Cart, op string) (*CartView, error) {
	priced, err := priceCart(ctx, s.catalog, cart.Items)
	if err != nil {
		return nil, internal("price cart", err)
	}
	cart.Items = priced.items
	cart.TotalAmount = priced.total

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.CartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	return newCartView(cart, priced.lines), nil
}

var quantityLimitMessage = fmt.Sprintf("Quantity cannot exceed %d per item", MaxLineQuantity)

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	err := s.carts.Save(ctx, cart)
	if errors.Is(err, repository.ErrStaleWrite) {
		return conflict("Cart was modified by another request, please retry")
	}
	if err != nil {
		return internal("save cart", err)
	}
	return nil
}

func newCartView(cart *models.Cart, lines []CartLine) *CartView {
	return &CartView{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Items:       lines,
		TotalAmount: cart.TotalAmount,
		Version:     cart.Version,
		UpdatedAt:   cart.UpdatedAt,
	}
}
