package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// OrderService materializes orders from cart lines. Unit prices come
// from the catalog at creation time, never from client input, and every
// monetary amount is quantized through domain.RoundMoney.
type OrderService struct {
	orders  ports.OrderRepository
	catalog ports.CatalogRepository
	log     zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, catalog ports.CatalogRepository, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, log: log}
}

// Create validates and prices every line, then persists the order in one
// atomic write. If an idempotency key is provided and already seen for
// this user, the previously created order is returned without side effects.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error) {
	if in.IdempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(ctx, in.UserID, in.IdempotencyKey)
		if err == nil && existing != nil {
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_id", existing.ID).Msg("idempotent replay")
			return &ports.OrderResult{OrderID: existing.ID, Total: existing.Total, AlreadyExisted: true}, nil
		}
		if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
	}

	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if in.DeliveryPrice.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	// Validate and price all lines before committing anything.
	items := make([]domain.OrderItem, 0, len(in.Items))
	total := domain.RoundMoney(in.DeliveryPrice)
	for _, line := range in.Items {
		item, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		total = total.Add(item.Total)
	}
	total = domain.RoundMoney(total)

	order, err := s.orders.Create(ctx, &domain.Order{
		UserID:         in.UserID,
		Status:         domain.OrderStatusNew,
		Items:          items,
		DeliveryPrice:  domain.RoundMoney(in.DeliveryPrice),
		Total:          total,
		PaymentStatus:  "unpaid",
		Comment:        in.Comment,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("failed to create order")
		return nil, err
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("user_id", in.UserID).
		Str("total", total.String()).
		Int("items", len(items)).
		Msg("order created")

	return &ports.OrderResult{OrderID: order.ID, Total: order.Total}, nil
}

// priceLine validates one cart line and computes its total:
// quantized(price) × qty, quantized again to two places.
func (s *OrderService) priceLine(ctx context.Context, line ports.OrderLineInput) (*domain.OrderItem, error) {
	kind := domain.ItemKind(line.Kind)
	if !kind.IsValid() {
		return nil, domain.ErrInvalidType
	}
	if line.Quantity.Sign() <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	unitPrice, err := s.lookupPrice(ctx, kind, line.ItemID)
	if err != nil {
		return nil, err
	}

	unitPrice = domain.RoundMoney(unitPrice)
	return &domain.OrderItem{
		Kind:      kind,
		ItemID:    line.ItemID,
		Quantity:  line.Quantity,
		UnitPrice: unitPrice,
		Total:     domain.RoundMoney(unitPrice.Mul(line.Quantity)),
	}, nil
}

func (s *OrderService) lookupPrice(ctx context.Context, kind domain.ItemKind, id string) (decimal.Decimal, error) {
	switch kind {
	case domain.KindProduct:
		p, err := s.catalog.FindProduct(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		return p.Price, nil
	default:
		sv, err := s.catalog.FindService(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		return sv.BasePrice, nil
	}
}

// ListByUser returns the caller's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListRecent returns the newest orders across all users. Capped at 100.
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.orders.ListRecent(ctx, limit)
}
