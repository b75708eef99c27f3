package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGormProductRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	product, err := catalog.NewProduct("e1", "مثقاب بوش", catalog.CategoryElectricity, decimal.NewFromInt(65))
	require.NoError(t, err)
	product.Brand = "Bosch"
	product.Stock = 20

	t.Run("save and find", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByID(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, "مثقاب بوش", found.Name)
		assert.Equal(t, "Bosch", found.Brand)
		assert.True(t, found.PriceUSD.Equal(decimal.NewFromInt(65)))
	})

	t.Run("find missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		product.Stock = 18
		product.PriceSYP = 975000
		require.NoError(t, repo.Update(ctx, product))

		found, err := repo.FindByID(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, 18, found.Stock)
		assert.Equal(t, int64(975000), found.PriceSYP)
	})

	t.Run("update missing id", func(t *testing.T) {
		ghost := *product
		ghost.ID = "ghost"
		assert.ErrorIs(t, repo.Update(ctx, &ghost), shared.ErrNotFound)
	})

	t.Run("count and find all", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "e1"))
		require.NoError(t, repo.Delete(ctx, "e1"))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestGormUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db.DB)
	ctx := context.Background()

	user, err := identity.NewUser("أبو أحمد", "0991112233")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByPhone(ctx, "0991112233")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "أبو أحمد", found.Name)

	_, err = repo.FindByPhone(ctx, "0000000000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
