package ports

import (
	"context"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// CatalogRepository exposes the sellable entities. Find* return
// domain.ErrUnknownReference for ids that are missing or inactive, so
// callers never price an entity that cannot be sold.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListServices(ctx context.Context) ([]*domain.Service, error)
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	FindService(ctx context.Context, id string) (*domain.Service, error)
}
