package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
	"github.com/Zhima-Mochi/orderdesk/internal/pkg/logging"
)

// Service implements the user lifecycle. Email uniqueness is pre-checked
// here; the storage layer's unique index is the backstop under races.
type Service struct {
	users domain.Repository
}

func NewService(users domain.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Create(ctx context.Context, name, email string) (*domain.User, error) {
	entity, err := domain.New(name, email)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, entity.Email)
	if err != nil {
		return nil, core.Database(err)
	}
	if existing != nil {
		return nil, core.AlreadyExists("User", "email "+entity.Email)
	}

	id, err := s.users.Create(ctx, entity)
	if err != nil {
		return nil, core.Database(err)
	}
	entity.ID = id

	logging.FromContext(ctx).Info("user_created", zap.String("user_id", id.String()))
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, core.Database(err)
	}
	if u == nil {
		return nil, core.NotFound("User", id.String())
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, p core.Pagination) ([]*domain.User, error) {
	users, err := s.users.FindAll(ctx, p)
	if err != nil {
		return nil, core.Database(err)
	}
	return users, nil
}

// Update replaces name and email. A change to an email already held by
// another active user is a conflict.
func (s *Service) Update(ctx context.Context, id domain.ID, name, email string) (*domain.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name != "" {
		current.Name = name
	}
	if email != "" && email != current.Email {
		other, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, core.Database(err)
		}
		if other != nil && other.ID != id {
			return nil, core.AlreadyExists("User", "email "+email)
		}
		current.Email = email
	}
	current.Touch()

	matched, err := s.users.Update(ctx, id, current)
	if err != nil {
		return nil, core.Database(err)
	}
	if !matched {
		return nil, core.NotFound("User", id.String())
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id domain.ID) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return core.Database(err)
	}
	if !deleted {
		return core.NotFound("User", id.String())
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, core.Database(err)
	}
	return n, nil
}
