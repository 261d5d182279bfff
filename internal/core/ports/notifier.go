package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// OrderNotification is the payload queued for admin notification after a
// successful checkout.
type OrderNotification struct {
	OrderID   string
	UserID    string
	Username  string
	Total     decimal.Decimal
	ItemCount int
}

// Notifier delivers a notification to its destination (Telegram chat).
type Notifier interface {
	NotifyOrderCreated(ctx context.Context, n OrderNotification) error
}
