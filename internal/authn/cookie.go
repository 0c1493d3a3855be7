package authn

import (
	"context"
	"errors"
	"net/http"

	"github.com/tableforge/tableforge/internal/session"
	"github.com/tableforge/tableforge/internal/shared"
)

// CookieTokenSource identifies the cookie carrying the session ID. The cookie
// session itself arrives through the request context, loaded by the app
// middleware before authentication runs.
type CookieTokenSource interface {
	CookieName() string
}

// CookieStrategy authenticates browser requests whose redis-backed cookie
// session stores an auth token. Last in the chain.
type CookieStrategy struct {
	*resolver
	store CookieTokenSource
}

// Matches reports whether the request presents the session cookie.
func (s *CookieStrategy) Matches(r *http.Request) bool {
	if s.store == nil {
		return false
	}
	_, err := r.Cookie(s.store.CookieName())
	return !errors.Is(err, http.ErrNoCookie)
}

// Authenticate verifies the token held in the cookie session.
func (s *CookieStrategy) Authenticate(ctx context.Context, r *http.Request) (*session.Session, error) {
	cookieSess := shared.CookieSessionFromContext(ctx)
	if cookieSess == nil {
		return nil, shared.ErrMissingToken
	}
	return s.resolve(ctx, cookieSess.AuthToken())
}
