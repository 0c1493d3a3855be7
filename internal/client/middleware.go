package client

import (
	"context"
	"net/http"
	"net/url"
)

// Request is the transport-agnostic outbound request description.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// Performer executes a request and resolves its response.
type Performer func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a Performer with pre/post behavior.
type Middleware func(next Performer) Performer

// WrapPerformer composes middleware around a performer in caller order: the
// first middleware is outermost, so it sees the request first and the
// response last. Each middleware fully processes before control returns to
// its wrapper.
func WrapPerformer(perform Performer, middlewares ...Middleware) Performer {
	for i := len(middlewares) - 1; i >= 0; i-- {
		perform = middlewares[i](perform)
	}
	return perform
}

// TokenSource yields the current auth token, empty when logged out.
type TokenSource func() string

// WithAuthHeader injects the bearer authorization header on every request.
// It composes before response-inspecting middleware so headers are set prior
// to the network call.
func WithAuthHeader(token TokenSource) Middleware {
	return func(next Performer) Performer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if tok := token(); tok != "" {
				if req.Header == nil {
					req.Header = make(http.Header)
				}
				req.Header.Set("Authorization", "Bearer "+tok)
			}
			return next(ctx, req)
		}
	}
}

// WithAlerts applies a compiled alert effect to every resolved response,
// unless an earlier layer already alerted for it.
func WithAlerts(effect Effect, opts Options) Middleware {
	return func(next Performer) Performer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if resp != nil && !resp.AlertHandled {
				effect(resp, opts)
			}
			return resp, err
		}
	}
}
