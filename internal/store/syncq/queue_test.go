package syncq

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/store/mirror"
)

type fakePusher struct {
	server  map[string]*catalog.Product
	offline bool
	creates int
	updates int
	deletes int
}

func newFakePusher() *fakePusher {
	return &fakePusher{server: make(map[string]*catalog.Product)}
}

func (f *fakePusher) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if f.offline {
		return shared.ErrUnavailable
	}
	f.creates++
	cp := *p
	f.server[p.ID] = &cp
	return nil
}

func (f *fakePusher) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	if f.offline {
		return shared.ErrUnavailable
	}
	f.updates++
	if _, ok := f.server[p.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := *p
	f.server[p.ID] = &cp
	return nil
}

func (f *fakePusher) DeleteProduct(ctx context.Context, id string) error {
	if f.offline {
		return shared.ErrUnavailable
	}
	f.deletes++
	delete(f.server, id)
	return nil
}

func newTestQueue(t *testing.T) (*Queue, *mirror.Mirror, *fakePusher) {
	t.Helper()
	m, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"), 500)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	pusher := newFakePusher()
	return New(m, pusher, 15*time.Second, zap.NewNop()), m, pusher
}

func testProduct(id string) *catalog.Product {
	return &catalog.Product{
		ID:       id,
		Name:     "منتج تجريبي",
		Category: catalog.CategoryWater,
		PriceUSD: decimal.NewFromInt(10),
	}
}

func TestQueue_DrainCreatesUnknownProducts(t *testing.T) {
	q, _, pusher := newTestQueue(t)

	require.NoError(t, q.EnqueueUpsert(testProduct("n1")))
	synced, err := q.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	// update tried first, then create fallback
	assert.Equal(t, 1, pusher.updates)
	assert.Equal(t, 1, pusher.creates)
	assert.Contains(t, pusher.server, "n1")
}

func TestQueue_DrainUpdatesKnownProducts(t *testing.T) {
	q, _, pusher := newTestQueue(t)
	pusher.server["n1"] = testProduct("n1")

	p := testProduct("n1")
	p.Stock = 7
	require.NoError(t, q.EnqueueUpsert(p))

	synced, err := q.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, 0, pusher.creates)
	assert.Equal(t, 7, pusher.server["n1"].Stock)
}

func TestQueue_DrainDelete(t *testing.T) {
	q, _, pusher := newTestQueue(t)
	pusher.server["n1"] = testProduct("n1")

	require.NoError(t, q.EnqueueDelete("n1"))
	synced, err := q.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.NotContains(t, pusher.server, "n1")
}

func TestQueue_OfflineKeepsMutations(t *testing.T) {
	q, _, pusher := newTestQueue(t)
	pusher.offline = true

	require.NoError(t, q.EnqueueUpsert(testProduct("n1")))
	require.NoError(t, q.EnqueueDelete("n2"))

	synced, err := q.Drain(context.Background())
	assert.Error(t, err)
	assert.Zero(t, synced)

	pending, err := q.Pending()
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	// back online, next pass flushes everything
	pusher.offline = false
	synced, err = q.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	pending, err = q.Pending()
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestQueue_PartialDrainStopsAtFailure(t *testing.T) {
	q, _, pusher := newTestQueue(t)

	require.NoError(t, q.EnqueueUpsert(testProduct("a1")))
	require.NoError(t, q.EnqueueUpsert(testProduct("a2")))

	// first push succeeds, then the server goes away
	pusher.server["a1"] = testProduct("a1")
	synced, err := q.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, synced)

	require.NoError(t, q.EnqueueUpsert(testProduct("a3")))
	pusher.offline = true
	synced, err = q.Drain(context.Background())
	assert.Error(t, err)
	assert.Zero(t, synced)

	pending, err := q.Pending()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}
