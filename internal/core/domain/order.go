package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks the lifecycle of an order after checkout.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDone      OrderStatus = "done"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var ErrInvalidType = errors.New("invalid item type")
var ErrInvalidQuantity = errors.New("invalid quantity")
var ErrEmptyOrder = errors.New("order has no items")
var ErrOrderNotFound = errors.New("order not found")

// moneyPlaces is the scale every monetary amount is quantized to.
const moneyPlaces = 2

// RoundMoney quantizes d to two decimal places, rounding half away from
// zero. All line totals and order totals go through this single point.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// OrderItem is one priced line of an order. UnitPrice and Total are
// snapshots taken at order creation; later catalog price changes do not
// affect existing orders.
type OrderItem struct {
	Kind      ItemKind        `json:"type"`
	ItemID    string          `json:"id"`
	Quantity  decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Order is the checkout aggregate. Items are embedded so the whole order
// persists atomically. Invariant: Total == DeliveryPrice + sum of item
// totals, every amount rounded half away from zero to two places.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Status         OrderStatus     `json:"status"`
	Items          []OrderItem     `json:"items"`
	DeliveryPrice  decimal.Decimal `json:"delivery_price"`
	Total          decimal.Decimal `json:"total"`
	PaymentStatus  string          `json:"payment_status"`
	Comment        string          `json:"comment,omitempty"`
	IdempotencyKey string          `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
}
