package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

const ordersCollection = "orders"

type MongoOrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{coll: db.Collection(ordersCollection)}
}

// Items are embedded in the order document, so the header and all lines
// commit in one InsertOne — no partial persistence is possible.
type mongoOrder struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	Status         string             `bson:"status"`
	Items          []mongoOrderItem   `bson:"items"`
	DeliveryPrice  string             `bson:"delivery_price"`
	Total          string             `bson:"total"`
	PaymentStatus  string             `bson:"payment_status"`
	Comment        string             `bson:"comment,omitempty"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
	CreatedAt      int64              `bson:"created_at"`
}

type mongoOrderItem struct {
	Kind      string `bson:"item_type"`
	ItemID    string `bson:"item_id"`
	Quantity  string `bson:"qty"`
	UnitPrice string `bson:"unit_price"`
	Total     string `bson:"total"`
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items := make([]mongoOrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, mongoOrderItem{
			Kind:      string(it.Kind),
			ItemID:    it.ItemID,
			Quantity:  it.Quantity.String(),
			UnitPrice: it.UnitPrice.String(),
			Total:     it.Total.String(),
		})
	}

	doc := mongoOrder{
		UserID:         order.UserID,
		Status:         string(order.Status),
		Items:          items,
		DeliveryPrice:  order.DeliveryPrice.String(),
		Total:          order.Total.String(),
		PaymentStatus:  order.PaymentStatus,
		Comment:        order.Comment,
		IdempotencyKey: order.IdempotencyKey,
		CreatedAt:      order.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// The unique (user_id, idempotency_key) index catches a
		// concurrent duplicate submission.
		if mongo.IsDuplicateKeyError(err) && order.IdempotencyKey != "" {
			return r.FindByIdempotencyKey(ctx, order.UserID, order.IdempotencyKey)
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoOrderRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error) {
	var mo mongoOrder
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "idempotency_key": key}).Decode(&mo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain()
}

func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID}, 0)
}

func (r *MongoOrderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{}, int64(limit))
}

func (r *MongoOrderRepository) list(ctx context.Context, filter bson.M, limit int64) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Order
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		o, err := mo.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, cur.Err()
}

func (mo mongoOrder) toDomain() (*domain.Order, error) {
	deliveryPrice, err := parseMoney(mo.DeliveryPrice)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", mo.ID.Hex(), err)
	}
	total, err := parseMoney(mo.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", mo.ID.Hex(), err)
	}

	items := make([]domain.OrderItem, 0, len(mo.Items))
	for _, it := range mo.Items {
		qty, err := parseMoney(it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("order %s item: %w", mo.ID.Hex(), err)
		}
		unitPrice, err := parseMoney(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item: %w", mo.ID.Hex(), err)
		}
		itemTotal, err := parseMoney(it.Total)
		if err != nil {
			return nil, fmt.Errorf("order %s item: %w", mo.ID.Hex(), err)
		}
		items = append(items, domain.OrderItem{
			Kind:      domain.ItemKind(it.Kind),
			ItemID:    it.ItemID,
			Quantity:  qty,
			UnitPrice: unitPrice,
			Total:     itemTotal,
		})
	}

	return &domain.Order{
		ID:             mo.ID.Hex(),
		UserID:         mo.UserID,
		Status:         domain.OrderStatus(mo.Status),
		Items:          items,
		DeliveryPrice:  deliveryPrice,
		Total:          total,
		PaymentStatus:  mo.PaymentStatus,
		Comment:        mo.Comment,
		IdempotencyKey: mo.IdempotencyKey,
		CreatedAt:      unixToTime(mo.CreatedAt),
	}, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return d, nil
}
