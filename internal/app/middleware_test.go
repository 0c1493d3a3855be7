package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tableforge/tableforge/internal/app"
	"github.com/tableforge/tableforge/internal/shared"
	_ "github.com/tableforge/tableforge/testing"
)

func newSessionStore(t *testing.T) *shared.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionStore(client, "test_session", "secret", time.Hour, false)
}

func TestSessionMiddlewareCommitsBeforeFirstWrite(t *testing.T) {
	store := newSessionStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := app.SessionMiddleware(store, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.CookieSessionFromContext(r.Context())
		if sess == nil {
			t.Fatal("expected cookie session in context")
		}
		sess.SetAuthToken("fresh-token")
		// Writing the body is the first write; the commit wrapper must have
		// flushed the cookie by now.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	cookies := res.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie on the response")
	}

	// The token written during the handler must be readable on the next request.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	sess, err := store.Load(context.Background(), next)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.AuthToken() != "fresh-token" {
		t.Fatalf("expected persisted auth token, got %q", sess.AuthToken())
	}
}

func TestSessionMiddlewareCommitsOnFailureResponses(t *testing.T) {
	store := newSessionStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := app.SessionMiddleware(store, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.CookieSessionFromContext(r.Context())
		sess.ClearAuthToken()
		w.WriteHeader(http.StatusUnauthorized)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if len(res.Result().Cookies()) == 0 {
		t.Fatalf("session cookie must be committed on failure responses too")
	}
}
