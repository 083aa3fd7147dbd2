package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/id"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/memory"
)

func newService() *Service {
	return NewService(memory.NewProductRepository(id.NewUUIDGenerator()))
}

func create(t *testing.T, s *Service, name, sku string, price float64, stock int32) *domain.Product {
	t.Helper()
	p, err := s.Create(context.Background(), name, price, stock, domain.StatusActive, domain.Metadata{
		Category: "tools",
		SKU:      sku,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProduct(t *testing.T) {
	s := newService()

	p := create(t, s, "hammer", "HAM-1", 12.5, 7)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, domain.StatusActive, p.Status)

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(7), got.Stock)
}

func TestCreateProductValidation(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, err := s.Create(ctx, "", 1, 1, domain.StatusDraft, domain.Metadata{})
	assert.True(t, core.IsKind(err, core.KindRequired))

	_, err = s.Create(ctx, "x", -1, 1, domain.StatusDraft, domain.Metadata{})
	assert.True(t, core.IsKind(err, core.KindInvalid))

	_, err = s.Create(ctx, "x", 1, -1, domain.StatusDraft, domain.Metadata{})
	assert.True(t, core.IsKind(err, core.KindInvalid))

	_, err = s.Create(ctx, "x", 1, 1, domain.Status("bogus"), domain.Metadata{})
	assert.True(t, core.IsKind(err, core.KindInvalid))
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	s := newService()

	create(t, s, "hammer", "HAM-1", 12.5, 7)
	_, err := s.Create(context.Background(), "other hammer", 9.0, 3, domain.StatusActive, domain.Metadata{SKU: "HAM-1"})
	assert.True(t, core.IsKind(err, core.KindAlreadyExists))
}

func TestAdjustStock(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := create(t, s, "hammer", "HAM-1", 12.5, 7)

	require.NoError(t, s.AdjustStock(ctx, p.ID, -5))
	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.Stock)

	require.NoError(t, s.AdjustStock(ctx, p.ID, 10))
	got, err = s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(12), got.Stock)
}

func TestAdjustStockGuards(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := create(t, s, "hammer", "HAM-1", 12.5, 2)

	err := s.AdjustStock(ctx, p.ID, 0)
	assert.True(t, core.IsKind(err, core.KindInvalid))

	// Would drive stock negative: the product exists, so the no-match is a
	// business-rule rejection with the shortfall attached.
	err = s.AdjustStock(ctx, p.ID, -3)
	assert.True(t, core.IsKind(err, core.KindBusinessRule))
	assert.EqualError(t, err, "business_rule: Insufficient stock: requested 3, available 2")

	var de *core.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int32(3), de.Data["requested"])
	assert.Equal(t, int32(2), de.Data["available"])

	got, errGet := s.Get(ctx, p.ID)
	require.NoError(t, errGet)
	assert.Equal(t, int32(2), got.Stock)

	// Any adjustment to a missing product is a plain not-found, decrements
	// included.
	err = s.AdjustStock(ctx, "missing", 5)
	assert.True(t, core.IsKind(err, core.KindNotFound))

	err = s.AdjustStock(ctx, "missing", -5)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestAdjustStockDeletedProductIsNotFound(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := create(t, s, "hammer", "HAM-1", 12.5, 2)

	require.NoError(t, s.Delete(ctx, p.ID))

	err := s.AdjustStock(ctx, p.ID, -1)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestUpdateMetadata(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := create(t, s, "hammer", "HAM-1", 12.5, 7)

	err := s.UpdateMetadata(ctx, p.ID, domain.Metadata{
		Description: "claw hammer",
		Category:    "hand-tools",
		Tags:        []string{"steel"},
		SKU:         "HAM-1",
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hand-tools", got.Metadata.Category)
	assert.Equal(t, []string{"steel"}, got.Metadata.Tags)

	err = s.UpdateMetadata(ctx, "missing", domain.Metadata{})
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestDeleteProductTwice(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := create(t, s, "hammer", "HAM-1", 12.5, 7)

	require.NoError(t, s.Delete(ctx, p.ID))

	_, err := s.Get(ctx, p.ID)
	assert.True(t, core.IsKind(err, core.KindNotFound))

	err = s.Delete(ctx, p.ID)
	assert.True(t, core.IsKind(err, core.KindNotFound))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
