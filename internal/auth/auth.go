// Package auth implements the allow-list gate in front of commands that
// change the ledger.
package auth

import (
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/logging"

	"golang.org/x/crypto/bcrypt"
)

// Role is the permission level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account is one allow-list entry. PasswordHash, when set, is a bcrypt hash
// and takes precedence over Password.
type Account struct {
	Username     string
	Password     string
	PasswordHash string
	Role         Role
}

// User is an authenticated identity.
type User struct {
	Name string
	Role Role
}

// IsAdmin reports whether u has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Authenticator checks credentials against the allow-list.
type Authenticator struct {
	accounts map[string]Account
	log      logging.Logger
}

// NewAuthenticator builds an Authenticator over accounts.
func NewAuthenticator(accounts []Account, log logging.Logger) *Authenticator {
	if log == nil {
		log = logging.Nop()
	}
	a := &Authenticator{accounts: make(map[string]Account, len(accounts)), log: log}
	for _, acc := range accounts {
		a.accounts[strings.TrimSpace(acc.Username)] = acc
	}
	return a
}

// Authenticate returns the user for valid credentials. Every failure wraps
// ledgererror.ErrUnauthorized.
func (a *Authenticator) Authenticate(username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, fmt.Errorf("%w: no user given", ledgererror.ErrUnauthorized)
	}
	acc, ok := a.accounts[username]
	if !ok || !acc.matches(password) {
		a.log.Warn("login refused", logging.F(logging.FieldUser, username))
		return User{}, fmt.Errorf("%w: invalid username or password", ledgererror.ErrUnauthorized)
	}
	a.log.Debug("login accepted", logging.F(logging.FieldUser, username))
	return User{Name: username, Role: acc.Role}, nil
}

func (acc Account) matches(password string) bool {
	if acc.PasswordHash != "" {
		return CheckPasswordHash(password, acc.PasswordHash)
	}
	return subtle.ConstantTimeCompare([]byte(acc.Password), []byte(password)) == 1
}

// Users lists the allow-list, sorted by name, without credentials.
func (a *Authenticator) Users() []User {
	users := make([]User, 0, len(a.accounts))
	for name, acc := range a.accounts {
		users = append(users, User{Name: name, Role: acc.Role})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
