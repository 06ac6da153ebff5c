package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/auth"
)

func newSession(t *testing.T) *auth.Session {
	t.Helper()
	dir, err := auth.NewDirectory(auth.DefaultCredentials)
	require.NoError(t, err)
	return auth.NewSession(dir)
}

func TestLogin_Admin(t *testing.T) {
	s := newSession(t)

	id, err := s.Login("admin", "admin123")

	require.NoError(t, err)
	assert.Equal(t, auth.Identity{ID: 1, Username: "admin", Role: auth.RoleAdmin}, id)
	assert.True(t, s.IsAdmin())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, id, cur)
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	s := newSession(t)
	_, err := s.Login("user1", "user123")
	require.NoError(t, err)

	for _, c := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"Admin", "admin123"},
		{"nobody", "admin123"},
		{"admin", " admin123"},
	} {
		_, err := s.Login(c.user, c.pass)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, "invalid username or password", err.Error())
	}

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "user1", cur.Username)
	assert.False(t, s.IsAdmin())
}

func TestLogout(t *testing.T) {
	s := newSession(t)
	_, err := s.Login("admin", "admin123")
	require.NoError(t, err)

	s.Logout()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.IsAdmin())
}

func TestRestore(t *testing.T) {
	s := newSession(t)

	s.Restore(auth.Identity{ID: 1, Username: "admin", Role: auth.RoleAdmin})

	assert.True(t, s.IsAdmin())
}

func TestNewDirectory_RejectsDuplicates(t *testing.T) {
	_, err := auth.NewDirectory([]auth.Credential{
		{ID: 1, Username: "a", Password: "x", Role: auth.RoleUser},
		{ID: 2, Username: "a", Password: "y", Role: auth.RoleUser},
	})
	assert.Error(t, err)
}
