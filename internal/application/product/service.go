package product

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/pkg/logging"
)

// Service implements the product lifecycle. Stock adjustments go through the
// repository's atomic conditional update; the service never reads stock to
// write it back.
type Service struct {
	products domain.Repository
}

func NewService(products domain.Repository) *Service {
	return &Service{products: products}
}

func (s *Service) Create(ctx context.Context, name string, price float64, stock int32, status domain.Status, meta domain.Metadata) (*domain.Product, error) {
	entity, err := domain.New(name, price, stock, status, meta)
	if err != nil {
		return nil, err
	}

	id, err := s.products.Create(ctx, entity)
	if err != nil {
		if core.IsKind(err, core.KindAlreadyExists) {
			return nil, err
		}
		return nil, core.Database(err)
	}
	entity.ID = id

	logging.FromContext(ctx).Info("product_created",
		zap.String("product_id", id.String()),
		zap.String("sku", meta.SKU),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, core.Database(err)
	}
	if p == nil {
		return nil, core.NotFound("Product", id.String())
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, pg core.Pagination) ([]*domain.Product, error) {
	products, err := s.products.FindAll(ctx, pg)
	if err != nil {
		return nil, core.Database(err)
	}
	return products, nil
}

func (s *Service) UpdateMetadata(ctx context.Context, id domain.ID, meta domain.Metadata) error {
	matched, err := s.products.UpdateMetadata(ctx, id, meta)
	if err != nil {
		return core.Database(err)
	}
	if !matched {
		return core.NotFound("Product", id.String())
	}
	return nil
}

// AdjustStock applies a signed delta through the atomic conditional update.
// A no-match means either the product is gone or the decrement would drive
// stock negative; a follow-up read disambiguates so the generic update path
// reports NotFound like every other update, and only a genuine shortfall
// becomes a business-rule rejection.
func (s *Service) AdjustStock(ctx context.Context, id domain.ID, delta int32) error {
	if delta == 0 {
		return core.Invalid("delta", "must not be zero")
	}
	matched, err := s.products.UpdateStock(ctx, id, delta)
	if err != nil {
		return core.Database(err)
	}
	if !matched {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return core.Database(err)
		}
		if p == nil {
			return core.NotFound("Product", id.String())
		}
		return core.BusinessRule(fmt.Sprintf("Insufficient stock: requested %d, available %d", -delta, p.Stock)).
			WithData("requested", -delta).
			WithData("available", p.Stock)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id domain.ID) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return core.Database(err)
	}
	if !deleted {
		return core.NotFound("Product", id.String())
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.products.Count(ctx)
	if err != nil {
		return 0, core.Database(err)
	}
	return n, nil
}
