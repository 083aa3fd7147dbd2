package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/id"
)

// UserRepository is a map-backed adapter used by tests and as the storage
// fallback when no Mongo URI is configured. Reads and updates apply the
// soft-delete filter the same way the Mongo adapter does.
type UserRepository struct {
	mu    sync.RWMutex
	users map[domain.ID]*domain.User
	ids   id.Generator
}

func NewUserRepository(ids id.Generator) *UserRepository {
	return &UserRepository{
		users: make(map[domain.ID]*domain.User),
		ids:   ids,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (domain.ID, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.DeletedAt == nil && strings.EqualFold(existing.Email, u.Email) {
			return "", core.AlreadyExists("User", "email "+u.Email)
		}
	}

	uid := domain.ID(r.ids.NewID())
	clone := u.Clone()
	clone.ID = uid
	r.users[uid] = clone
	return uid, nil
}

func (r *UserRepository) FindByID(ctx context.Context, uid domain.ID) (*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[uid]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return u.Clone(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindAll(ctx context.Context, p core.Pagination) ([]*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.DeletedAt == nil {
			active = append(active, u)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	return clonePage(active, p), nil
}

func (r *UserRepository) Update(ctx context.Context, uid domain.ID, u *domain.User) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[uid]
	if !ok || current.DeletedAt != nil {
		return false, nil
	}
	clone := u.Clone()
	clone.ID = uid
	r.users[uid] = clone
	return true, nil
}

func (r *UserRepository) Delete(ctx context.Context, uid domain.ID) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[uid]
	if !ok || u.DeletedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	u.UpdatedAt = now
	return true, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.users {
		if u.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}
