package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstAuthenticationGetsHighestRole(t *testing.T) {
	roster := NewRosterStore(newTestStore(t))

	role, err := roster.Authenticate(100)
	require.NoError(t, err)
	assert.Equal(t, RoleHighest, role)

	// A second distinct user gets the default, lowest role.
	role, err = roster.Authenticate(200)
	require.NoError(t, err)
	assert.Equal(t, RoleBasic, role)

	// Only the first user was persisted.
	members, err := roster.Members()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, int64(100), members[0].ChatID)
}

func TestAuthenticateKeepsStoredRole(t *testing.T) {
	roster := NewRosterStore(newTestStore(t))

	_, err := roster.Authenticate(100)
	require.NoError(t, err)
	require.NoError(t, roster.Add(200, RoleElevated))

	role, err := roster.Authenticate(200)
	require.NoError(t, err)
	assert.Equal(t, RoleElevated, role)
}

func TestRemoveRules(t *testing.T) {
	roster := NewRosterStore(newTestStore(t))
	_, err := roster.Authenticate(100)
	require.NoError(t, err)
	require.NoError(t, roster.Add(200, RoleBasic))

	assert.ErrorIs(t, roster.Remove(100, 100), ErrSelfRemoval)
	assert.ErrorIs(t, roster.Remove(100, 999), ErrUnknownMember)

	require.NoError(t, roster.Remove(100, 200))
	members, err := roster.Members()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestCapabilityTable(t *testing.T) {
	assert.True(t, RoleBasic.Can(CapViewRoster))
	assert.True(t, RoleBasic.Can(CapBroadcast))
	assert.False(t, RoleBasic.Can(CapRemoveMember))
	assert.False(t, RoleElevated.Can(CapRemoveMember))
	assert.True(t, RoleHighest.Can(CapRemoveMember))
}
