package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential is one row of the static login table.
type Credential struct {
	ID       int
	Username string
	Password string
	Role     string
}

// DefaultCredentials is the demo login table. It is not a security boundary.
var DefaultCredentials = []Credential{
	{ID: 1, Username: "admin", Password: "admin123", Role: RoleAdmin},
	{ID: 2, Username: "user1", Password: "user123", Role: RoleUser},
}

type account struct {
	identity Identity
	hash     []byte
}

// Directory holds the login table with passwords hashed at construction.
type Directory struct {
	byUsername map[string]account
}

func NewDirectory(creds []Credential) (*Directory, error) {
	d := &Directory{byUsername: make(map[string]account, len(creds))}

	for _, c := range creds {
		if _, dup := d.byUsername[c.Username]; dup {
			return nil, fmt.Errorf("duplicate username %q", c.Username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", c.Username, err)
		}

		d.byUsername[c.Username] = account{
			identity: Identity{ID: c.ID, Username: c.Username, Role: c.Role},
			hash:     hash,
		}
	}
	return d, nil
}

// Verify matches username and password exactly.
func (d *Directory) Verify(username, password string) (Identity, error) {
	a, ok := d.byUsername[username]
	if !ok {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return a.identity, nil
}
