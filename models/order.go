package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMethod is how the customer settles the order
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "Card"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCOD || p == PaymentCard
}

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	UserID          uint                 `json:"userId" gorm:"not null;index"`
	User            *UserSummary         `json:"user,omitempty" gorm:"-"`
	Items           []OrderItem          `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     decimal.Decimal      `json:"totalAmount" gorm:"type:numeric;not null"`
	DeliveryAddress string               `json:"deliveryAddress" gorm:"not null"`
	PaymentMethod   PaymentMethod        `json:"paymentMethod" gorm:"not null"`
	Status          OrderStatus          `json:"status" gorm:"not null;index"`
	StatusHistory   []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// OrderItem is a frozen copy of a cart line taken at checkout. It never
// references the live catalog entry again.
type OrderItem struct {
	ID       uint            `json:"-" gorm:"primaryKey"`
	OrderID  uint            `json:"-" gorm:"not null;index"`
	FoodID   uint            `json:"foodId" gorm:"not null"`
	Name     string          `json:"name" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric;not null"`
	Quantity int             `json:"quantity" gorm:"not null"`
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"orderId" gorm:"not null;index"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  uint        `json:"changedBy"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}
