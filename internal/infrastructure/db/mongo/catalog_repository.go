package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

const (
	productsCollection = "products"
	servicesCollection = "services"
)

// Monetary amounts are stored as decimal strings; parsing failures mean
// corrupt data and surface as errors rather than zero prices.

type MongoCatalogRepository struct {
	products *mongo.Collection
	services *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		products: db.Collection(productsCollection),
		services: db.Collection(servicesCollection),
	}
}

type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CategoryID  string             `bson:"category_id,omitempty"`
	Name        string             `bson:"name"`
	SKU         string             `bson:"sku,omitempty"`
	Unit        string             `bson:"unit,omitempty"`
	Description string             `bson:"description,omitempty"`
	Price       string             `bson:"price"`
	IsActive    bool               `bson:"is_active"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

type mongoService struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	BasePrice   string             `bson:"base_price"`
	IsActive    bool               `bson:"is_active"`
}

func (r *MongoCatalogRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	cur, err := r.products.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Product
	for cur.Next(ctx) {
		var mp mongoProduct
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		p, err := mp.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

func (r *MongoCatalogRepository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	cur, err := r.services.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Service
	for cur.Next(ctx) {
		var ms mongoService
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}
		s, err := ms.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cur.Err()
}

// FindProduct returns an active product or domain.ErrUnknownReference.
func (r *MongoCatalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUnknownReference
	}

	var mp mongoProduct
	if err := r.products.FindOne(ctx, bson.M{"_id": oid, "is_active": true}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUnknownReference
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain()
}

// FindService returns an active service or domain.ErrUnknownReference.
func (r *MongoCatalogRepository) FindService(ctx context.Context, id string) (*domain.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUnknownReference
	}

	var ms mongoService
	if err := r.services.FindOne(ctx, bson.M{"_id": oid, "is_active": true}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUnknownReference
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return ms.toDomain()
}

func (mp mongoProduct) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(mp.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad price %q: %w", mp.ID.Hex(), mp.Price, err)
	}
	return &domain.Product{
		ID:          mp.ID.Hex(),
		CategoryID:  mp.CategoryID,
		Name:        mp.Name,
		SKU:         mp.SKU,
		Unit:        mp.Unit,
		Description: mp.Description,
		Price:       price,
		IsActive:    mp.IsActive,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}, nil
}

func (ms mongoService) toDomain() (*domain.Service, error) {
	price, err := decimal.NewFromString(ms.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("service %s: bad price %q: %w", ms.ID.Hex(), ms.BasePrice, err)
	}
	return &domain.Service{
		ID:          ms.ID.Hex(),
		Name:        ms.Name,
		Description: ms.Description,
		BasePrice:   price,
		IsActive:    ms.IsActive,
	}, nil
}
