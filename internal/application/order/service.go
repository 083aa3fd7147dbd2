package order

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/order"
	domproduct "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	domuser "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
	"github.com/Zhima-Mochi/orderdesk/internal/pkg/logging"
)

const tracerName = "orderdesk/application/order"

// Service orchestrates the order-creation workflow: validate the two foreign
// aggregates, price the order from the product snapshot, reserve stock with a
// single atomic conditional decrement, and persist the order. No multi-record
// transaction spans the three aggregates; correctness under concurrent
// creation for the same product rests entirely on the reservation update.
type Service struct {
	orders   domain.Repository
	users    domuser.Repository
	products domproduct.Repository
}

func NewService(orders domain.Repository, users domuser.Repository, products domproduct.Repository) *Service {
	return &Service{
		orders:   orders,
		users:    users,
		products: products,
	}
}

// CreateOrder runs the workflow sequentially. The advisory stock check exists
// only to fail fast with a precise message before the reservation round-trip;
// its numbers may already be stale when the reservation runs.
func (s *Service) CreateOrder(ctx context.Context, userID domuser.ID, productID domproduct.ID, quantity int32) (_ *domain.Order, err error) {
	logger := logging.FromContext(ctx).With(
		zap.String("component", "order_service"),
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int32("quantity", quantity),
	)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "OrderService.CreateOrder")
	span.SetAttributes(
		attribute.String("order.user_id", userID.String()),
		attribute.String("order.product_id", productID.String()),
		attribute.Int("order.quantity", int(quantity)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, core.KindOf(err).String())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	// The boundary validates quantity before this point; a non-positive
	// value here is a latent bug upstream, still rejected.
	if quantity <= 0 {
		return nil, core.Invalid("quantity", "must be greater than zero")
	}

	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, core.Database(err)
	}
	if usr == nil {
		return nil, core.NotFound("User", userID.String())
	}

	prod, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, core.Database(err)
	}
	if prod == nil {
		return nil, core.NotFound("Product", productID.String())
	}

	if quantity > prod.Stock {
		logger.Info("insufficient_stock",
			zap.Int32("requested", quantity),
			zap.Int32("available", prod.Stock),
		)
		return nil, core.BusinessRule(fmt.Sprintf(
			"Insufficient stock: requested %d, available %d", quantity, prod.Stock,
		)).WithData("requested", quantity).WithData("available", prod.Stock)
	}

	entity, err := domain.New(userID, productID, quantity, prod.Price)
	if err != nil {
		return nil, err
	}

	reserved, err := s.products.UpdateStock(ctx, productID, -quantity)
	if err != nil {
		return nil, core.Database(err)
	}
	if !reserved {
		logger.Info("stock_reservation_lost_race")
		return nil, core.BusinessRule(
			"Failed to reserve stock — product may have been modified concurrently",
		)
	}

	id, err := s.orders.Create(ctx, entity)
	if err != nil {
		logger.Error("order_create_failed", zap.Error(err))
		return nil, core.Database(err)
	}
	entity.ID = id

	span.SetAttributes(attribute.String("order.id", id.String()))
	logger.Info("order_created",
		zap.String("order_id", id.String()),
		zap.Float64("total_price", entity.TotalPrice),
	)
	return entity, nil
}

func (s *Service) GetOrder(ctx context.Context, id domain.ID) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, core.Database(err)
	}
	if o == nil {
		return nil, core.NotFound("Order", id.String())
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, p core.Pagination) ([]*domain.Order, error) {
	orders, err := s.orders.FindAll(ctx, p)
	if err != nil {
		return nil, core.Database(err)
	}
	return orders, nil
}

// ListOrdersByUser re-validates the user before listing, mirroring the first
// step of creation.
func (s *Service) ListOrdersByUser(ctx context.Context, userID domuser.ID, p core.Pagination) ([]*domain.Order, error) {
	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, core.Database(err)
	}
	if usr == nil {
		return nil, core.NotFound("User", userID.String())
	}

	orders, err := s.orders.FindByUserID(ctx, userID, p)
	if err != nil {
		return nil, core.Database(err)
	}
	return orders, nil
}

// DeleteOrder soft-deletes. A second delete of the same order reports
// NotFound so callers can tell "deleted now" from "was already gone".
func (s *Service) DeleteOrder(ctx context.Context, id domain.ID) error {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return core.Database(err)
	}
	if !deleted {
		return core.NotFound("Order", id.String())
	}
	return nil
}

func (s *Service) CountOrders(ctx context.Context) (int64, error) {
	n, err := s.orders.Count(ctx)
	if err != nil {
		return 0, core.Database(err)
	}
	return n, nil
}
