package services

import (
	"context"

	"cravecart-api/models"

	"github.com/shopspring/decimal"
)

// pricedCart is the result of resolving cart lines against the catalog
type pricedCart struct {
	lines []CartLine
	items []models.CartItem // lines whose food still exists, in order
	total decimal.Decimal
	// every stored line in order, deleted foods flagged unavailable
	view []CartLine
}

func distinctFoodIDs(items []models.CartItem) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.FoodID]; ok {
			continue
		}
		seen[it.FoodID] = struct{}{}
		ids = append(ids, it.FoodID)
	}
	return ids
}

// priceCart resolves every line with one batch lookup and sums
// price × quantity. Lines whose food item no longer exists are left out of
// lines, items and total, and kept in view as unavailable.
func priceCart(ctx context.Context, catalog Catalog, items []models.CartItem) (pricedCart, error) {
	foods, err := catalog.FindByIDs(ctx, distinctFoodIDs(items))
	if err != nil {
		return pricedCart{}, err
	}

	out := pricedCart{
		lines: make([]CartLine, 0, len(items)),
		items: make([]models.CartItem, 0, len(items)),
		total: decimal.Zero,
		view:  make([]CartLine, 0, len(items)),
	}
	for _, it := range items {
		food, ok := foods[it.FoodID]
		if !ok {
			out.view = append(out.view, CartLine{
				Food:        models.FoodItem{ID: it.FoodID},
				Quantity:    it.Quantity,
				Unavailable: true,
			})
			continue
		}
		line := CartLine{Food: food, Quantity: it.Quantity}
		out.items = append(out.items, it)
		out.lines = append(out.lines, line)
		out.view = append(out.view, line)
		out.total = out.total.Add(food.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return out, nil
}
