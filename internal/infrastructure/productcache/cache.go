// Package productcache decorates the product repository with a Redis
// read-through cache on FindByID. Cache trouble never fails a request: a
// miss, a marshal error or a dead Redis all degrade to the inner repository.
package productcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/pkg/logging"
)

const defaultTTL = 30 * time.Second

type Repository struct {
	inner  domain.Repository
	client *redis.Client
	ttl    time.Duration
}

// New wraps inner with a Redis cache. A zero ttl gets the default. The TTL
// is kept short because cached stock values serve only advisory reads; the
// authoritative stock check is the conditional update, which always goes to
// the inner repository.
func New(inner domain.Repository, client *redis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Repository{inner: inner, client: client, ttl: ttl}
}

type cachedProduct struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Stock     int32      `json:"stock"`
	Status    string     `json:"status"`
	Desc      string     `json:"description,omitempty"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags,omitempty"`
	SKU       string     `json:"sku"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func cacheKey(id domain.ID) string {
	return "product:" + id.String()
}

func (r *Repository) FindByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	raw, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var cached cachedProduct
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached.toDomain(), nil
		}
	case !errors.Is(err, redis.Nil):
		// A miss is routine; anything else is an outage worth surfacing.
		logging.FromContext(ctx).Warn("product_cache_get_failed",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
	}

	p, err := r.inner.FindByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	if raw, err := json.Marshal(fromDomain(p)); err == nil {
		if err := r.client.Set(ctx, cacheKey(id), raw, r.ttl).Err(); err != nil {
			logging.FromContext(ctx).Warn("product_cache_set_failed",
				zap.String("product_id", id.String()),
				zap.Error(err),
			)
		}
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, p *domain.Product) (domain.ID, error) {
	return r.inner.Create(ctx, p)
}

func (r *Repository) FindAll(ctx context.Context, pg core.Pagination) ([]*domain.Product, error) {
	return r.inner.FindAll(ctx, pg)
}

func (r *Repository) UpdateMetadata(ctx context.Context, id domain.ID, meta domain.Metadata) (bool, error) {
	matched, err := r.inner.UpdateMetadata(ctx, id, meta)
	if matched {
		r.invalidate(ctx, id)
	}
	return matched, err
}

func (r *Repository) UpdateStock(ctx context.Context, id domain.ID, delta int32) (bool, error) {
	matched, err := r.inner.UpdateStock(ctx, id, delta)
	if matched {
		r.invalidate(ctx, id)
	}
	return matched, err
}

func (r *Repository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	deleted, err := r.inner.Delete(ctx, id)
	if deleted {
		r.invalidate(ctx, id)
	}
	return deleted, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.inner.Count(ctx)
}

func (r *Repository) invalidate(ctx context.Context, id domain.ID) {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		logging.FromContext(ctx).Warn("product_cache_invalidate_failed",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
	}
}

func fromDomain(p *domain.Product) cachedProduct {
	return cachedProduct{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Status:    string(p.Status),
		Desc:      p.Metadata.Description,
		Category:  p.Metadata.Category,
		Tags:      p.Metadata.Tags,
		SKU:       p.Metadata.SKU,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
}

func (c cachedProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:     domain.ID(c.ID),
		Name:   c.Name,
		Price:  c.Price,
		Stock:  c.Stock,
		Status: domain.Status(c.Status),
		Metadata: domain.Metadata{
			Description: c.Desc,
			Category:    c.Category,
			Tags:        c.Tags,
			SKU:         c.SKU,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: c.DeletedAt,
	}
}
