// Package services implements the cart, order, catalog and auth workflows on
// top of the repositories. Every error returned is a *Error.
package services

import (
	"context"

	"cravecart-api/models"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cravecart/services")

// Catalog resolves food items to their current name, price and availability
type Catalog interface {
	FindByID(ctx context.Context, id uint) (*models.FoodItem, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.FoodItem, error)
}
