// Package session holds the ephemeral, request-scoped authentication value.
// Sessions are never persisted: the backend builds one per authenticated
// request, the login flow builds one to mint a token.
package session

import (
	"time"

	"github.com/tableforge/tableforge/internal/credentials"
	"github.com/tableforge/tableforge/internal/users"
)

// DefaultTTL applies when no expiry is supplied at construction.
const DefaultTTL = 24 * time.Hour

// Session asserts "this credential, for this user, is valid until this time".
type Session struct {
	Credential        *credentials.Credential
	AuthenticatedUser *users.User
	AuthorizedUser    *users.User
	ExpiresAt         time.Time
}

// Option customizes session construction.
type Option func(*options)

type options struct {
	expiresAt      time.Time
	authorizedUser *users.User
	now            func() time.Time
}

// WithExpiresAt supplies an explicit expiry instead of the 24h default.
// It is still clamped down to the credential's remaining life; clamping is
// deliberately one-directional.
func WithExpiresAt(t time.Time) Option {
	return func(o *options) { o.expiresAt = t }
}

// WithAuthorizedUser overrides the acting user, e.g. for delegated access.
func WithAuthorizedUser(u *users.User) Option {
	return func(o *options) { o.authorizedUser = u }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a session for the credential and its owning user. The effective
// expiry is the earlier of the credential's expiry and the supplied (or
// defaulted) one.
func New(cred *credentials.Credential, owner *users.User, opts ...Option) *Session {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	expiresAt := o.expiresAt
	if expiresAt.IsZero() {
		expiresAt = o.now().Add(DefaultTTL)
	}
	if cred != nil && cred.ExpiresAt.Before(expiresAt) {
		expiresAt = cred.ExpiresAt
	}
	authorized := o.authorizedUser
	if authorized == nil {
		authorized = owner
	}
	return &Session{
		Credential:        cred,
		AuthenticatedUser: owner,
		AuthorizedUser:    authorized,
		ExpiresAt:         expiresAt,
	}
}

// Expired reports whether the session's effective expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CredentialID returns the underlying credential identifier, empty when the
// session carries no credential.
func (s *Session) CredentialID() string {
	if s.Credential == nil {
		return ""
	}
	return s.Credential.ID
}
