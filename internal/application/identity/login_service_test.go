package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/infrastructure/auth"
	"github.com/mamo-store/backend/internal/infrastructure/config"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*identity.User)}
}

func (r *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[phone]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, u *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.Phone] = &cp
	return nil
}

func newTestLoginService() (*LoginService, *fakeUserRepo, *auth.SessionService) {
	repo := newFakeUserRepo()
	sessions := auth.NewSessionService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough",
		Expiration: time.Hour,
		Issuer:     "mamo-store-test",
	})
	return NewLoginService(repo, sessions, "24402", zap.NewNop()), repo, sessions
}

func TestLoginService_Login(t *testing.T) {
	svc, _, sessions := newTestLoginService()
	ctx := context.Background()

	t.Run("first login creates the user", func(t *testing.T) {
		res, err := svc.Login(ctx, "أبو محمد", "0947123456")
		require.NoError(t, err)
		assert.Equal(t, "0947123456", res.User.ID)
		assert.Equal(t, "أبو محمد", res.User.Name)
		assert.NotEmpty(t, res.User.JoinDate)

		claims, err := sessions.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "0947123456", claims.UserID)
		assert.False(t, claims.Admin)
	})

	t.Run("returning user keeps stored name", func(t *testing.T) {
		res, err := svc.Login(ctx, "اسم آخر", "0947123456")
		require.NoError(t, err)
		assert.Equal(t, "أبو محمد", res.User.Name)
	})

	t.Run("empty phone rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "فلان", "")
		assert.Error(t, err)
	})
}

func TestLoginService_ElevateAdmin(t *testing.T) {
	svc, _, sessions := newTestLoginService()
	ctx := context.Background()

	_, err := svc.Login(ctx, "أبو محمد", "0947123456")
	require.NoError(t, err)

	t.Run("correct pin", func(t *testing.T) {
		res, err := svc.ElevateAdmin(ctx, "0947123456", "24402")
		require.NoError(t, err)
		claims, err := sessions.Verify(res.Token)
		require.NoError(t, err)
		assert.True(t, claims.Admin)
	})

	t.Run("wrong pin", func(t *testing.T) {
		_, err := svc.ElevateAdmin(ctx, "0947123456", "11111")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ElevateAdmin(ctx, "0999999999", "24402")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
