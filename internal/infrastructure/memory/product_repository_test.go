package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/id"
)

func seedProduct(t *testing.T, r *ProductRepository, stock int32) domain.ID {
	t.Helper()
	p, err := domain.New("widget", 5.0, stock, domain.StatusActive, domain.Metadata{SKU: "W-1"})
	require.NoError(t, err)
	pid, err := r.Create(context.Background(), p)
	require.NoError(t, err)
	return pid
}

func TestUpdateStockConditional(t *testing.T) {
	r := NewProductRepository(id.NewUUIDGenerator())
	ctx := context.Background()
	pid := seedProduct(t, r, 5)

	matched, err := r.UpdateStock(ctx, pid, -5)
	require.NoError(t, err)
	assert.True(t, matched)

	// Stock is now 0; any further decrement matches nothing.
	matched, err = r.UpdateStock(ctx, pid, -1)
	require.NoError(t, err)
	assert.False(t, matched)

	p, err := r.FindByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int32(0), p.Stock)
}

func TestUpdateStockConcurrent(t *testing.T) {
	r := NewProductRepository(id.NewUUIDGenerator())
	ctx := context.Background()
	pid := seedProduct(t, r, 10)

	const callers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	matchedCount := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matched, err := r.UpdateStock(ctx, pid, -3)
			assert.NoError(t, err)
			if matched {
				mu.Lock()
				matchedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 10 / 3 → exactly three reservations fit.
	assert.Equal(t, 3, matchedCount)
	p, err := r.FindByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.Stock)
}

func TestUpdateStockOnDeletedProduct(t *testing.T) {
	r := NewProductRepository(id.NewUUIDGenerator())
	ctx := context.Background()
	pid := seedProduct(t, r, 5)

	deleted, err := r.Delete(ctx, pid)
	require.NoError(t, err)
	require.True(t, deleted)

	matched, err := r.UpdateStock(ctx, pid, -1)
	require.NoError(t, err)
	assert.False(t, matched)

	// Restocks don't resurrect deleted products either.
	matched, err = r.UpdateStock(ctx, pid, 5)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestCreateEnforcesSKUUniqueness(t *testing.T) {
	r := NewProductRepository(id.NewUUIDGenerator())
	ctx := context.Background()
	seedProduct(t, r, 5)

	dup, err := domain.New("other", 1.0, 1, domain.StatusActive, domain.Metadata{SKU: "W-1"})
	require.NoError(t, err)
	_, err = r.Create(ctx, dup)
	assert.True(t, core.IsKind(err, core.KindAlreadyExists))
}

func TestFindAllFiltersAndPaginates(t *testing.T) {
	r := NewProductRepository(id.NewUUIDGenerator())
	ctx := context.Background()

	var pids []domain.ID
	for _, sku := range []string{"A", "B", "C"} {
		p, err := domain.New("p-"+sku, 1.0, 1, domain.StatusActive, domain.Metadata{SKU: sku})
		require.NoError(t, err)
		pid, err := r.Create(ctx, p)
		require.NoError(t, err)
		pids = append(pids, pid)
	}

	deleted, err := r.Delete(ctx, pids[0])
	require.NoError(t, err)
	require.True(t, deleted)

	all, err := r.FindAll(ctx, core.DefaultPagination())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, p := range all {
		assert.NotEqual(t, pids[0], p.ID)
	}

	page, err := r.FindAll(ctx, core.NewPagination(1, 1))
	require.NoError(t, err)
	assert.Len(t, page, 1)

	beyond, err := r.FindAll(ctx, core.NewPagination(5, 10))
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestRepositoryReturnsClones(t *testing.T) {
	r := NewProductRepository(id.NewUUIDGenerator())
	ctx := context.Background()
	pid := seedProduct(t, r, 5)

	p, err := r.FindByID(ctx, pid)
	require.NoError(t, err)
	p.Stock = 999

	again, err := r.FindByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int32(5), again.Stock)
}
