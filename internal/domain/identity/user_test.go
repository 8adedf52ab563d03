package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active member user", func(t *testing.T) {
		user, err := NewUser("Maya Iyer", "maya@egma.test", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "Maya Iyer", user.Name)
		assert.Equal(t, "maya@egma.test", user.Email)
		assert.Equal(t, UserRoleMember, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Nil(t, user.LastLoginAt)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "Password123", user.PasswordHash)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		user, err := NewUser("Maya", "  Maya@EGMA.Test ", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "maya@egma.test", user.Email)
	})

	t.Run("trims name", func(t *testing.T) {
		user, err := NewUser("  Maya  ", "maya@egma.test", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "Maya", user.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("   ", "maya@egma.test", "Password123")
		assert.Error(t, err)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewUser("Maya", "", "Password123")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser("Maya", "not-an-email", "Password123")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("Maya", "maya@egma.test", "short")
		assert.Error(t, err)
	})

	t.Run("rejects over-long password", func(t *testing.T) {
		long := make([]byte, 80)
		for i := range long {
			long[i] = 'a'
		}
		_, err := NewUser("Maya", "maya@egma.test", string(long))
		assert.Error(t, err)
	})
}

func TestUser_CheckPassword(t *testing.T) {
	user, err := NewUser("Maya", "maya@egma.test", "Password123")
	require.NoError(t, err)

	assert.True(t, user.CheckPassword("Password123"))
	assert.False(t, user.CheckPassword("Password124"))
	assert.False(t, user.CheckPassword(""))
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("Maya", "maya@egma.test", "Password123")
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("NewPassword456"))

	assert.False(t, user.CheckPassword("Password123"))
	assert.True(t, user.CheckPassword("NewPassword456"))
}

func TestUser_ChangePassword_Invalid(t *testing.T) {
	user, err := NewUser("Maya", "maya@egma.test", "Password123")
	require.NoError(t, err)

	assert.Error(t, user.ChangePassword("short"))
	// Original password still works
	assert.True(t, user.CheckPassword("Password123"))
}

func TestUser_SetRole(t *testing.T) {
	user, err := NewUser("Maya", "maya@egma.test", "Password123")
	require.NoError(t, err)

	require.NoError(t, user.SetRole(UserRoleAdmin))
	assert.Equal(t, UserRoleAdmin, user.Role)

	assert.Error(t, user.SetRole(UserRole("superuser")))
	assert.Equal(t, UserRoleAdmin, user.Role)
}

func TestUser_RecordLogin(t *testing.T) {
	user, err := NewUser("Maya", "maya@egma.test", "Password123")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user.RecordLogin(now)

	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, now, *user.LastLoginAt)
	assert.Equal(t, now, user.UpdatedAt)
}

func TestUser_Deactivate(t *testing.T) {
	user, err := NewUser("Maya", "maya@egma.test", "Password123")
	require.NoError(t, err)

	assert.True(t, user.IsActive())
	user.Deactivate()
	assert.False(t, user.IsActive())
	assert.Equal(t, UserStatusDeactivated, user.Status)
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, UserRoleAdmin.IsValid())
	assert.True(t, UserRoleMember.IsValid())
	assert.False(t, UserRole("").IsValid())
	assert.False(t, UserRole("root").IsValid())
}
