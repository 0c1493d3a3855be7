package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tableforge/tableforge/internal/shared"
	_ "github.com/tableforge/tableforge/testing"
)

func newStore(t *testing.T) (*shared.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionStore(client, "test_session", "secret", time.Hour, false), mr
}

func commitCookie(t *testing.T, store *shared.SessionStore, sess *shared.CookieSession) *http.Cookie {
	t.Helper()
	res := httptest.NewRecorder()
	if err := store.Commit(context.Background(), res, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookies := res.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected a session cookie to be set")
	}
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := store.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetAuthToken("signed-token")
	cookie := commitCookie(t, store, sess)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := store.Load(context.Background(), next)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.AuthToken() != "signed-token" {
		t.Fatalf("expected auth token to survive the round trip, got %q", loaded.AuthToken())
	}
}

func TestClearAuthToken(t *testing.T) {
	store, _ := newStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := store.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetAuthToken("signed-token")
	cookie := commitCookie(t, store, sess)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := store.Load(context.Background(), next)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	loaded.ClearAuthToken()
	commitCookie(t, store, loaded)

	final := httptest.NewRequest(http.MethodGet, "/", nil)
	final.AddCookie(cookie)
	refreshed, err := store.Load(context.Background(), final)
	if err != nil {
		t.Fatalf("final load: %v", err)
	}
	if refreshed.AuthToken() != "" {
		t.Fatalf("expected cleared auth token, got %q", refreshed.AuthToken())
	}
}

func TestDestroyRemovesSession(t *testing.T) {
	store, mr := newStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := store.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.Set("key", "value")
	commitCookie(t, store, sess)

	if !mr.Exists("session:" + sess.ID) {
		t.Fatalf("expected session key in redis before destroy")
	}

	store.Destroy(sess)
	res := httptest.NewRecorder()
	if err := store.Commit(context.Background(), res, sess); err != nil {
		t.Fatalf("destroy commit: %v", err)
	}

	if mr.Exists("session:" + sess.ID) {
		t.Fatalf("expected session key removed from redis")
	}
	cookies := res.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestLoadUnknownCookieStartsFresh(t *testing.T) {
	store, _ := newStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: store.CookieName(), Value: "stale-id"})
	sess, err := store.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.AuthToken() != "" {
		t.Fatalf("fresh session must carry no auth token")
	}
	if sess.ID != "stale-id" {
		t.Fatalf("expected cookie id to be reused, got %q", sess.ID)
	}
}

func TestErrorTypeTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{shared.ErrMissingToken, "missing_token"},
		{shared.ErrMalformedToken, "malformed_token"},
		{shared.ErrInvalidToken, "invalid_token"},
		{shared.ErrExpiredToken, "expired_session"},
		{&shared.MissingCredentialError{ID: "c1"}, "missing_credential"},
		{&shared.ExpiredCredentialError{ID: "c1"}, "expired_credential"},
		{&shared.MissingPasswordError{UserID: 1}, "missing_password"},
		{shared.ErrInvalidPassword, "invalid_password"},
		{shared.ErrInvalidLogin, "invalid_login"},
		{&shared.ValidationError{Fields: map[string]string{"f": "bad"}}, "validation"},
		{shared.ErrNotFound, "not_found"},
		{context.DeadlineExceeded, "internal"},
	}
	for _, tc := range cases {
		if got := shared.ErrorType(tc.err); got != tc.want {
			t.Fatalf("ErrorType(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsAuthFailure(t *testing.T) {
	for _, err := range []error{
		shared.ErrMissingToken,
		shared.ErrMalformedToken,
		shared.ErrInvalidToken,
		shared.ErrExpiredToken,
		shared.ErrInvalidLogin,
		shared.ErrInvalidPassword,
		&shared.MissingCredentialError{ID: "c1"},
		&shared.ExpiredCredentialError{ID: "c1"},
	} {
		if !shared.IsAuthFailure(err) {
			t.Fatalf("expected %v to be an auth failure", err)
		}
	}
	for _, err := range []error{
		shared.ErrNotFound,
		&shared.ValidationError{},
		context.DeadlineExceeded,
	} {
		if shared.IsAuthFailure(err) {
			t.Fatalf("expected %v not to be an auth failure", err)
		}
	}
}
