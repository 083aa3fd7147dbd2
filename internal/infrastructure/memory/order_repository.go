package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/order"
	domuser "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/id"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[domain.ID]*domain.Order
	ids    id.Generator
}

func NewOrderRepository(ids id.Generator) *OrderRepository {
	return &OrderRepository{
		orders: make(map[domain.ID]*domain.Order),
		ids:    ids,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (domain.ID, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	oid := domain.ID(r.ids.NewID())
	clone := o.Clone()
	clone.ID = oid
	r.orders[oid] = clone
	return oid, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, oid domain.ID) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[oid]
	if !ok || o.DeletedAt != nil {
		return nil, nil
	}
	return o.Clone(), nil
}

func (r *OrderRepository) FindAll(ctx context.Context, p core.Pagination) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	return clonePage(r.activeLocked(nil), p), nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID domuser.ID, p core.Pagination) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	return clonePage(r.activeLocked(&userID), p), nil
}

// activeLocked returns active orders newest first, optionally filtered by
// user. Callers must hold at least the read lock.
func (r *OrderRepository) activeLocked(userID *domuser.ID) []*domain.Order {
	active := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if o.DeletedAt != nil {
			continue
		}
		if userID != nil && o.UserID != *userID {
			continue
		}
		active = append(active, o)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active
}

func (r *OrderRepository) Delete(ctx context.Context, oid domain.ID) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[oid]
	if !ok || o.DeletedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	o.DeletedAt = &now
	o.UpdatedAt = now
	return true, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, o := range r.orders {
		if o.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}
