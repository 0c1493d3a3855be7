package shared

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AuthTokenKey is the cookie-session key carrying the signed auth token.
const AuthTokenKey = "auth_token"

// SessionStore orchestrates cookie based sessions backed by Redis. The web
// layer uses it to persist the auth token between browser requests; API
// clients using bearer or query tokens never touch it.
type SessionStore struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	secret     []byte
}

// CookieSession holds per-request cookie session data.
type CookieSession struct {
	ID        string
	values    map[string]string
	isNew     bool
	dirty     bool
	destroyed bool
}

type cookiePayload struct {
	Values map[string]string `json:"values"`
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, cookieName string, secret string, ttl time.Duration, secure bool) *SessionStore {
	return &SessionStore{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		secret:     []byte(secret),
	}
}

// Load loads or creates a cookie session for the request.
func (ss *SessionStore) Load(ctx context.Context, r *http.Request) (*CookieSession, error) {
	cookie, err := r.Cookie(ss.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return ss.newSession(), nil
		}
		return nil, err
	}

	payload, err := ss.client.Get(ctx, ss.redisKey(cookie.Value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sess := ss.newSession()
			sess.ID = cookie.Value
			return sess, nil
		}
		return nil, err
	}

	var stored cookiePayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	sess := ss.newSession()
	sess.ID = cookie.Value
	sess.values = stored.Values
	sess.isNew = false
	return sess, nil
}

// Commit persists the session and writes cookie headers as needed. It runs on
// failure responses too, so clients observe and clear auth state uniformly.
func (ss *SessionStore) Commit(ctx context.Context, w http.ResponseWriter, sess *CookieSession) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if err := ss.client.Del(ctx, ss.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     ss.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   ss.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if sess.isNew && sess.ID == "" {
		sess.ID = ss.generateSessionID()
	}

	if sess.dirty || sess.isNew {
		data, err := json.Marshal(cookiePayload{Values: sess.values})
		if err != nil {
			return err
		}
		if err := ss.client.Set(ctx, ss.redisKey(sess.ID), data, ss.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
	}

	if sess.ID != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     ss.cookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   ss.secure,
			SameSite: http.SameSiteStrictMode,
			Expires:  time.Now().Add(ss.ttl),
		})
	}

	return nil
}

// Destroy marks the session for deletion on the next Commit.
func (ss *SessionStore) Destroy(sess *CookieSession) {
	if sess == nil {
		return
	}
	sess.destroyed = true
}

// TTL exposes the configured session lifetime.
func (ss *SessionStore) TTL() time.Duration {
	return ss.ttl
}

// CookieName returns the cookie identifier used for sessions.
func (ss *SessionStore) CookieName() string {
	return ss.cookieName
}

// Set stores a key-value pair.
func (s *CookieSession) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.dirty = true
}

// Get retrieves a value.
func (s *CookieSession) Get(key string) string {
	if s.values == nil {
		return ""
	}
	return s.values[key]
}

// Delete removes a value.
func (s *CookieSession) Delete(key string) {
	if s.values == nil {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// SetAuthToken stores the signed auth token for the cookie flow.
func (s *CookieSession) SetAuthToken(token string) {
	s.Set(AuthTokenKey, token)
}

// AuthToken returns the stored auth token, empty when logged out.
func (s *CookieSession) AuthToken() string {
	return s.Get(AuthTokenKey)
}

// ClearAuthToken removes the stored auth token.
func (s *CookieSession) ClearAuthToken() {
	s.Delete(AuthTokenKey)
}

func (ss *SessionStore) newSession() *CookieSession {
	return &CookieSession{
		ID:     ss.generateSessionID(),
		values: make(map[string]string),
		isNew:  true,
		dirty:  true,
	}
}

func (ss *SessionStore) redisKey(id string) string {
	return "session:" + id
}

func (ss *SessionStore) generateSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	if len(ss.secret) > 0 {
		for i := range b {
			b[i] ^= ss.secret[i%len(ss.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
