package user

import (
	"context"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
)

// Repository is the persistence port for users. Lookups return (nil, nil)
// when no active record matches; the caller decides which error kind that
// maps to. All reads and updates exclude soft-deleted records.
type Repository interface {
	Create(ctx context.Context, u *User) (ID, error)
	FindByID(ctx context.Context, id ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, p core.Pagination) ([]*User, error)
	Update(ctx context.Context, id ID, u *User) (bool, error)
	Delete(ctx context.Context, id ID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
