// Package auth is the site's identity layer: a local identity provider that
// issues signed ID tokens, the admin policy, and Echo route guards.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrWeakPassword       = errors.New("auth: password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("auth: invalid email address")
)

// User is the signed-in identity. The zero value is never handed out;
// signed-out requests carry a nil *User.
type User struct {
	UID   string
	Email string
}

// Provider signs users in and verifies the tokens it issued.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (string, User, error)
	SignUp(ctx context.Context, email, password string) (User, error)
	Verify(token string) (User, error)
}

// Policy decides who may use the admin panel.
//
// A user is admin when their email equals AdminEmail or contains "admin".
// Unless Strict is set, any signed-in user also passes; that legacy rule is
// kept so existing editor accounts keep working.
type Policy struct {
	AdminEmail string
	Strict     bool
}

// IsAdmin applies the policy to u. A nil user is never admin.
func (p Policy) IsAdmin(u *User) bool {
	if u == nil {
		return false
	}
	email := strings.ToLower(u.Email)
	if p.AdminEmail != "" && email == strings.ToLower(p.AdminEmail) {
		return true
	}
	if strings.Contains(email, "admin") {
		return true
	}
	return !p.Strict
}

type ctxKey struct{}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user stored by WithUser, or nil.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
