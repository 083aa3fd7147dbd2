package order

import (
	"context"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	"github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

// Repository is the persistence port for orders. Lists are filtered of
// soft-deleted records and ordered by recency.
type Repository interface {
	Create(ctx context.Context, o *Order) (ID, error)
	FindByID(ctx context.Context, id ID) (*Order, error)
	FindAll(ctx context.Context, p core.Pagination) ([]*Order, error)
	FindByUserID(ctx context.Context, userID user.ID, p core.Pagination) ([]*Order, error)
	Delete(ctx context.Context, id ID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
