package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes the two sellable catalog entities.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindService ItemKind = "service"
)

var ErrUnknownReference = errors.New("unknown catalog reference")

// IsValid reports whether k names a sellable kind.
func (k ItemKind) IsValid() bool {
	return k == KindProduct || k == KindService
}

// Product is a physical catalog item. Price is the current selling price;
// orders snapshot it at creation time.
type Product struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Service is a priced offering without stock.
type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
}
