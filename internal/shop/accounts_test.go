package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique_backend/models"
)

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db := newTestDB(t)

	_, err := Register(db, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	_, err = Register(db, "alice", "other@example.com", "secret")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// Exactly one account remains.
	var count int64
	db.Model(&models.User{}).Where("username = ?", "alice").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	_, err := Register(db, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	_, err = Register(db, "bob", "alice@example.com", "secret")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	db := newTestDB(t)

	user, err := Register(db, "alice", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.Password)
	assert.False(t, user.IsAdmin)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)

	_, err := Register(db, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	user, err := Authenticate(db, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = Authenticate(db, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(db, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
