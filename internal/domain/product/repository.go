package product

import (
	"context"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
)

// Repository is the persistence port for products.
//
// UpdateStock is the single concurrency guard of the order workflow: it must
// apply the delta as one atomic conditional update (no read-then-write) that
// matches only when the resulting stock stays non-negative and the product is
// not soft-deleted. It reports whether a record matched; false means the
// product is gone or a concurrent reservation already moved the baseline.
type Repository interface {
	Create(ctx context.Context, p *Product) (ID, error)
	FindByID(ctx context.Context, id ID) (*Product, error)
	FindAll(ctx context.Context, pg core.Pagination) ([]*Product, error)
	UpdateMetadata(ctx context.Context, id ID, meta Metadata) (bool, error)
	UpdateStock(ctx context.Context, id ID, delta int32) (bool, error)
	Delete(ctx context.Context, id ID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
