package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("keys the user by phone", func(t *testing.T) {
		user, err := NewUser("أبو محمد", "0941234567")
		require.NoError(t, err)
		assert.Equal(t, "0941234567", user.ID)
		assert.Equal(t, "0941234567", user.Phone)
		assert.Equal(t, "أبو محمد", user.Name)
		assert.False(t, user.JoinDate.IsZero())
	})

	t.Run("fails with empty phone", func(t *testing.T) {
		_, err := NewUser("أبو محمد", "")
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewUser("", "0941234567")
		require.Error(t, err)
	})
}
