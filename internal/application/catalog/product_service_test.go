package catalog

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/shared"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*catalog.Product)}
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func newTestService() (*ProductService, *fakeProductRepo) {
	repo := newFakeProductRepo()
	return NewProductService(repo, zap.NewNop()), repo
}

func TestProductService_Create(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("assigns id when absent", func(t *testing.T) {
		p, err := svc.Create(ctx, CreateProductRequest{
			Name:     "مضخة ماء",
			Category: string(catalog.CategoryWater),
			PriceUSD: decimal.NewFromInt(40),
			Stock:    5,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		p, err := svc.Create(ctx, CreateProductRequest{
			ID:       "w9",
			Name:     "خزان",
			Category: string(catalog.CategoryWater),
			PriceUSD: decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		assert.Equal(t, "w9", p.ID)
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:     "شيء",
			Category: "furniture",
			PriceUSD: decimal.NewFromInt(10),
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:     "كبل",
			Category: string(catalog.CategoryElectricity),
			PriceUSD: decimal.NewFromInt(10),
			Stock:    -1,
		})
		assert.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductRequest{
		ID:       "e1",
		Name:     "كبل نحاس",
		Category: string(catalog.CategoryElectricity),
		PriceUSD: decimal.NewFromInt(65),
		Stock:    10,
	})
	require.NoError(t, err)

	t.Run("partial update leaves other fields", func(t *testing.T) {
		stock := 3
		updated, err := svc.Update(ctx, p.ID, UpdateProductRequest{Stock: &stock})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Stock)
		assert.Equal(t, "كبل نحاس", updated.Name)
		assert.True(t, decimal.NewFromInt(65).Equal(updated.PriceUSD))
	})

	t.Run("missing product", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(ctx, "no-such-id", UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects invalid update", func(t *testing.T) {
		rating := 9.0
		_, err := svc.Update(ctx, p.ID, UpdateProductRequest{Rating: &rating})
		assert.Error(t, err)
	})
}

func TestProductService_Upsert(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	req := CreateProductRequest{
		ID:       "p1",
		Name:     "دهان أبيض",
		Category: string(catalog.CategoryPaint),
		PriceUSD: decimal.NewFromInt(25),
		Stock:    8,
	}

	first, err := svc.Upsert(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "p1", first.ID)

	req.Stock = 2
	second, err := svc.Upsert(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Stock)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductService_Delete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{
		ID:       "c1",
		Name:     "اسمنت",
		Category: string(catalog.CategoryConstruction),
		PriceUSD: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "c1"))
	_, err = svc.Get(ctx, "c1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// deleting again is a no-op
	assert.NoError(t, svc.Delete(ctx, "c1"))
}

func TestProductService_EnsureSeeded(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureSeeded(ctx))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)

	// second call must not duplicate
	require.NoError(t, svc.EnsureSeeded(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}
