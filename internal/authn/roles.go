package authn

import (
	"net/http"

	"github.com/tableforge/tableforge/internal/platform/httpx"
	"github.com/tableforge/tableforge/internal/session"
	"github.com/tableforge/tableforge/internal/users"
)

// RequireRole gates handlers on the authorized user's stored role. It assumes
// Require has already run; requests without a session are refused.
func RequireRole(min users.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil || sess.AuthorizedUser == nil || !sess.AuthorizedUser.Role.AtLeast(min) {
				httpx.Failure(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
