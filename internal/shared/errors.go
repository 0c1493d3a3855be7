package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrMissingToken occurs when no strategy could extract a token from the request.
	ErrMissingToken = errors.New("missing token")
	// ErrMalformedToken occurs when the token string is not parseable as a JWT.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidToken occurs when the signature, algorithm or required claims are invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken occurs when a correctly signed token has an exp claim in the past.
	ErrExpiredToken = errors.New("expired token")
	// ErrInvalidPassword indicates a password hash mismatch.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidLogin is the deliberately generic login failure. It covers both
	// "user not found" and "wrong password" so callers cannot enumerate accounts.
	ErrInvalidLogin = errors.New("invalid login")
)

// MissingCredentialError reports a decoded token referencing a credential
// that no longer exists in the store.
type MissingCredentialError struct {
	ID string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential %s", e.ID)
}

// ExpiredCredentialError reports a credential whose own expiry has passed,
// independent of the token's exp claim.
type ExpiredCredentialError struct {
	ID string
}

func (e *ExpiredCredentialError) Error() string {
	return fmt.Sprintf("expired credential %s", e.ID)
}

// MissingPasswordError reports a user without an active password credential.
type MissingPasswordError struct {
	UserID int64
}

func (e *MissingPasswordError) Error() string {
	return fmt.Sprintf("user %d has no active password credential", e.UserID)
}

// ValidationError carries per-field problems for a malformed request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ErrorType returns the wire-level error code for an authentication failure.
// The client matcher pipeline dispatches on these values.
func ErrorType(err error) string {
	var missingCred *MissingCredentialError
	var expiredCred *ExpiredCredentialError
	var missingPass *MissingPasswordError
	var validation *ValidationError
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrExpiredToken):
		return "expired_session"
	case errors.As(err, &missingCred):
		return "missing_credential"
	case errors.As(err, &expiredCred):
		return "expired_credential"
	case errors.As(err, &missingPass):
		return "missing_password"
	case errors.Is(err, ErrInvalidPassword):
		return "invalid_password"
	case errors.Is(err, ErrInvalidLogin):
		return "invalid_login"
	case errors.As(err, &validation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// IsAuthFailure reports whether err belongs to the authentication taxonomy
// that must surface as a 401 to the client.
func IsAuthFailure(err error) bool {
	var missingCred *MissingCredentialError
	var expiredCred *ExpiredCredentialError
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidLogin) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.As(err, &missingCred) ||
		errors.As(err, &expiredCred)
}
