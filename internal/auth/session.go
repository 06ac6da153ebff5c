// Package auth holds the single login session of the storefront.
package auth

type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Session is at most one logged-in identity. It is not safe for concurrent
// use; callers serialise access.
type Session struct {
	dir     *Directory
	current *Identity
}

func NewSession(dir *Directory) *Session {
	return &Session{dir: dir}
}

// Login replaces the session on success. On failure the session is left as
// it was and ErrInvalidCredentials is returned.
func (s *Session) Login(username, password string) (Identity, error) {
	id, err := s.dir.Verify(username, password)
	if err != nil {
		return Identity{}, err
	}
	s.current = &id
	return id, nil
}

func (s *Session) Logout() {
	s.current = nil
}

func (s *Session) Current() (Identity, bool) {
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

func (s *Session) IsAdmin() bool {
	return s.current != nil && s.current.IsAdmin()
}

// Restore installs a previously persisted identity without checking
// credentials.
func (s *Session) Restore(id Identity) {
	s.current = &id
}
