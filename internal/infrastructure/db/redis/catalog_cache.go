package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

const catalogTTL = 5 * time.Minute

// CachedCatalogRepository is a read-through cache in front of the mongo
// catalog. Negative results (unknown or inactive references) are never
// cached, so a deactivated item disappears within catalogTTL at worst.
// Cache failures degrade to the underlying repository.
type CachedCatalogRepository struct {
	inner  ports.CatalogRepository
	client *redis.Client
	log    zerolog.Logger
}

func NewCachedCatalogRepository(inner ports.CatalogRepository, client *redis.Client, log zerolog.Logger) *CachedCatalogRepository {
	return &CachedCatalogRepository{inner: inner, client: client, log: log}
}

func (r *CachedCatalogRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	if r.getCached(ctx, "catalog:products", &out) {
		return out, nil
	}

	out, err := r.inner.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	r.setCached(ctx, "catalog:products", out)
	return out, nil
}

func (r *CachedCatalogRepository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	var out []*domain.Service
	if r.getCached(ctx, "catalog:services", &out) {
		return out, nil
	}

	out, err := r.inner.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	r.setCached(ctx, "catalog:services", out)
	return out, nil
}

func (r *CachedCatalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if r.getCached(ctx, "catalog:product:"+id, &p) {
		return &p, nil
	}

	found, err := r.inner.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	r.setCached(ctx, "catalog:product:"+id, found)
	return found, nil
}

func (r *CachedCatalogRepository) FindService(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	if r.getCached(ctx, "catalog:service:"+id, &s) {
		return &s, nil
	}

	found, err := r.inner.FindService(ctx, id)
	if err != nil {
		return nil, err
	}
	r.setCached(ctx, "catalog:service:"+id, found)
	return found, nil
}

func (r *CachedCatalogRepository) getCached(ctx context.Context, key string, dst any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("catalog cache entry corrupt")
		return false
	}
	return true
}

func (r *CachedCatalogRepository) setCached(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, catalogTTL).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}
