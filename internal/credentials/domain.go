package credentials

import (
	"fmt"
	"time"
)

// Kind discriminates credential variants sharing one table.
type Kind string

const (
	// KindPassword is a bcrypt password credential; Data carries the hash.
	KindPassword Kind = "password"
	// KindGeneric is an API-style token credential; Data carries free-form metadata.
	KindGeneric Kind = "generic"
)

// ParseKind validates a stored kind value.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindPassword, KindGeneric:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("credentials: unknown kind %q", value)
	}
}

// Credential is a persisted authentication factor. Superseded credentials are
// deactivated, never deleted; expiry applies regardless of the active flag.
type Credential struct {
	ID        string
	Kind      Kind
	Active    bool
	Data      map[string]string
	ExpiresAt time.Time
	UserID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PasswordHash returns the stored hash for a password credential.
func (c *Credential) PasswordHash() string {
	if c.Kind != KindPassword || c.Data == nil {
		return ""
	}
	return c.Data["password_hash"]
}

// Expired reports whether the credential's own expiry has passed.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// NewPasswordData builds the Data payload for a password credential.
func NewPasswordData(hash string) map[string]string {
	return map[string]string{"password_hash": hash}
}
