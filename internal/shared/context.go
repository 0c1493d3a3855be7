package shared

import "context"

type cookieSessionContextKey struct{}

// ContextWithCookieSession stores the cookie session in context.
func ContextWithCookieSession(ctx context.Context, sess *CookieSession) context.Context {
	return context.WithValue(ctx, cookieSessionContextKey{}, sess)
}

// CookieSessionFromContext extracts the cookie session from context.
func CookieSessionFromContext(ctx context.Context) *CookieSession {
	sess, _ := ctx.Value(cookieSessionContextKey{}).(*CookieSession)
	return sess
}
