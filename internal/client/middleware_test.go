package client

import (
	"context"
	"net/http"
	"testing"
)

func TestWrapPerformerOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Performer) Performer {
			return func(ctx context.Context, req *Request) (*Response, error) {
				order = append(order, name+":before")
				resp, err := next(ctx, req)
				order = append(order, name+":after")
				return resp, err
			}
		}
	}
	base := func(ctx context.Context, req *Request) (*Response, error) {
		order = append(order, "base")
		return &Response{Status: StatusSuccess}, nil
	}

	perform := WrapPerformer(base, tag("first"), tag("second"))
	if _, err := perform(context.Background(), &Request{}); err != nil {
		t.Fatalf("perform: %v", err)
	}

	want := []string{"first:before", "second:before", "base", "second:after", "first:after"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestWithAuthHeader(t *testing.T) {
	var seen string
	base := func(ctx context.Context, req *Request) (*Response, error) {
		seen = req.Header.Get("Authorization")
		return &Response{Status: StatusSuccess}, nil
	}

	perform := WrapPerformer(base, WithAuthHeader(func() string { return "tok-123" }))
	if _, err := perform(context.Background(), &Request{}); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if seen != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", seen)
	}
}

func TestWithAuthHeaderSkipsWhenLoggedOut(t *testing.T) {
	var header http.Header
	base := func(ctx context.Context, req *Request) (*Response, error) {
		header = req.Header
		return &Response{Status: StatusSuccess}, nil
	}

	perform := WrapPerformer(base, WithAuthHeader(func() string { return "" }))
	if _, err := perform(context.Background(), &Request{}); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if header.Get("Authorization") != "" {
		t.Fatalf("expected no authorization header, got %q", header.Get("Authorization"))
	}
}

func TestWithAlertsSkipsHandledResponses(t *testing.T) {
	var effectRuns int
	effect := Effect(func(resp *Response, opts Options) { effectRuns++ })

	handled := func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{Status: StatusFailure, AlertHandled: true}, nil
	}
	perform := WrapPerformer(handled, WithAlerts(effect, Options{}))
	if _, err := perform(context.Background(), &Request{}); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if effectRuns != 0 {
		t.Fatalf("effect must not run for already-handled responses")
	}

	fresh := func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{Status: StatusFailure}, nil
	}
	perform = WrapPerformer(fresh, WithAlerts(effect, Options{}))
	if _, err := perform(context.Background(), &Request{}); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if effectRuns != 1 {
		t.Fatalf("effect should run once for unhandled responses, ran %d times", effectRuns)
	}
}
