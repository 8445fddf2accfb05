package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doneflow/doneflow/pkg/adapters/memory"
	"github.com/doneflow/doneflow/pkg/auth"
	"github.com/doneflow/doneflow/pkg/core"
)

func newManager(t *testing.T) *auth.Manager {
	t.Helper()
	store := core.NewStore(memory.New(0), core.Config{})
	return auth.NewManager(store, nil)
}

func TestLogin(t *testing.T) {
	m := newManager(t)

	session, err := m.Login("ana@agency.com", "whatever")
	require.NoError(t, err)

	assert.NotEmpty(t, session.UID)
	assert.Equal(t, "ana@agency.com", session.Email)
	assert.Equal(t, "ana", session.DisplayName, "display name defaults to the email local part")
	assert.Contains(t, session.PhotoURL, "ui-avatars.com")

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, session.UID, current.UID)
	assert.Equal(t, session.UID, m.CurrentUserID())
}

func TestLogin_RejectsMalformedEmail(t *testing.T) {
	m := newManager(t)

	_, err := m.Login("not-an-email", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, ok := m.Current()
	assert.False(t, ok, "failed login must not create a session")
}

func TestSignup_ThenLoginReusesProfile(t *testing.T) {
	m := newManager(t)

	created, err := m.Signup("ana@agency.com", "pw", "Ana Souza")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", created.DisplayName)

	require.NoError(t, m.Logout())
	_, ok := m.Current()
	require.False(t, ok)

	// Logging back in finds the stored profile by email
	again, err := m.Login("ana@agency.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, created.UID, again.UID)
	assert.Equal(t, "Ana Souza", again.DisplayName)
	assert.Equal(t, created.PhotoURL, again.PhotoURL)
}

func TestObserve(t *testing.T) {
	m := newManager(t)

	var seen []*auth.Session
	unsub := m.Observe(func(s *auth.Session) {
		seen = append(seen, s)
	})
	defer unsub()

	// Initial delivery is synchronous: logged out
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	session, err := m.Login("ana@agency.com", "pw")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	require.NotNil(t, seen[1])
	assert.Equal(t, session.UID, seen[1].UID)

	require.NoError(t, m.Logout())
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])
}

func TestObserve_UnsubscribeStopsDelivery(t *testing.T) {
	m := newManager(t)

	calls := 0
	unsub := m.Observe(func(*auth.Session) { calls++ })
	unsub()

	_, err := m.Login("ana@agency.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "only the initial delivery should have arrived")
}
