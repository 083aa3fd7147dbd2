package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/id"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[domain.ID]*domain.Product
	ids      id.Generator
}

func NewProductRepository(ids id.Generator) *ProductRepository {
	return &ProductRepository{
		products: make(map[domain.ID]*domain.Product),
		ids:      ids,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (domain.ID, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if sku := p.Metadata.SKU; sku != "" {
		for _, existing := range r.products {
			if existing.DeletedAt == nil && existing.Metadata.SKU == sku {
				return "", core.AlreadyExists("Product", "sku "+sku)
			}
		}
	}

	pid := domain.ID(r.ids.NewID())
	clone := p.Clone()
	clone.ID = pid
	r.products[pid] = clone
	return pid, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, pid domain.ID) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[pid]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context, pg core.Pagination) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.DeletedAt == nil {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	return clonePage(active, pg), nil
}

func (r *ProductRepository) UpdateMetadata(ctx context.Context, pid domain.ID, meta domain.Metadata) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[pid]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	p.Metadata = meta
	if p.Metadata.Tags != nil {
		p.Metadata.Tags = append([]string(nil), meta.Tags...)
	}
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

// UpdateStock mirrors the Mongo adapter's conditional update: the delta is
// applied only when the product is active and the resulting stock stays
// non-negative, all under one critical section. Callers get the same
// matched/no-match signal they would from the document store.
func (r *ProductRepository) UpdateStock(ctx context.Context, pid domain.ID, delta int32) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[pid]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	if p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *ProductRepository) Delete(ctx context.Context, pid domain.ID) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[pid]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	p.UpdatedAt = now
	return true, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if p.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}
