package authn

import (
	"context"
	"net/http"
	"strings"

	"github.com/tableforge/tableforge/internal/session"
)

const bearerPrefix = "Bearer "

// BearerStrategy authenticates `Authorization: Bearer <token>` requests.
// It is first in the chain.
type BearerStrategy struct {
	*resolver
}

// Matches reports whether the request carries a bearer-shaped header.
func (s *BearerStrategy) Matches(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), bearerPrefix)
}

// Authenticate verifies the header token.
func (s *BearerStrategy) Authenticate(ctx context.Context, r *http.Request) (*session.Session, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), bearerPrefix))
	return s.resolve(ctx, raw)
}
