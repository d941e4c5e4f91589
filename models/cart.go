package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The SPA reads money as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Cart is the per-user staging area. TotalAmount is a cached value written on
// every mutation; Version guards writes against concurrent modification.
type Cart struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"userId" gorm:"uniqueIndex;not null"`
	Items       []CartItem      `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:numeric;not null"`
	Version     int             `json:"version" gorm:"not null"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CartItem struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	CartID   uint `json:"-" gorm:"not null;index"`
	FoodID   uint `json:"foodId" gorm:"not null"`
	Quantity int  `json:"quantity" gorm:"not null"`
	Position int  `json:"-" gorm:"not null"`
}
