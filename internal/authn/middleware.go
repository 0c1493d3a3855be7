package authn

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tableforge/tableforge/internal/platform/httpx"
	"github.com/tableforge/tableforge/internal/session"
	"github.com/tableforge/tableforge/internal/shared"
)

// ResourceConfig is the per-resource authentication allow-list. Resources
// either skip authentication entirely or skip it for named actions.
type ResourceConfig struct {
	SkipAll     bool
	SkipActions []string
}

// Skips reports whether the named action bypasses authentication.
func (c ResourceConfig) Skips(action string) bool {
	if c.SkipAll {
		return true
	}
	for _, a := range c.SkipActions {
		if a == action {
			return true
		}
	}
	return false
}

// ActionName derives the resourceful action name for a request: index/show
// for reads depending on route parameters, create/update/destroy for writes.
func ActionName(r *http.Request) string {
	switch r.Method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "destroy"
	default:
		if rctx := chi.RouteContext(r.Context()); rctx != nil && len(rctx.URLParams.Keys) > 0 {
			return "show"
		}
		return "index"
	}
}

// Metrics records authentication outcomes; nil disables recording.
type Metrics interface {
	ObserveAuth(outcome string)
}

// Authenticator wires the strategy chain into the HTTP pipeline.
type Authenticator struct {
	Chain   *Chain
	Logger  *slog.Logger
	Metrics Metrics
}

// Require wraps handlers with request authentication. Skipped actions invoke
// the next handler with the untouched request and never consult the chain.
// Failures short-circuit fail-closed: the wrapped handler is not invoked and
// the first error becomes the response. Cookie-session state still reaches
// the response on failure paths because the session commit wrapper sits
// outside this middleware.
func (a *Authenticator) Require(cfg ResourceConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skips(ActionName(r)) {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := a.Chain.Resolve(r.Context(), r)
			if err != nil {
				a.observe("failure")
				if !shared.IsAuthFailure(err) && a.Logger != nil {
					a.Logger.Error("authenticate request", slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			a.observe("success")
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

func (a *Authenticator) observe(outcome string) {
	if a.Metrics != nil {
		a.Metrics.ObserveAuth(outcome)
	}
}
