package authn

import (
	"context"
	"net/http"

	"github.com/tableforge/tableforge/internal/session"
)

const queryTokenParam = "token"

// QueryStrategy authenticates `?token=<token>` requests, used where headers
// are impractical (download links, embeds).
type QueryStrategy struct {
	*resolver
}

// Matches reports whether the token query parameter is present.
func (s *QueryStrategy) Matches(r *http.Request) bool {
	return r.URL.Query().Has(queryTokenParam)
}

// Authenticate verifies the query-parameter token.
func (s *QueryStrategy) Authenticate(ctx context.Context, r *http.Request) (*session.Session, error) {
	return s.resolve(ctx, r.URL.Query().Get(queryTokenParam))
}
