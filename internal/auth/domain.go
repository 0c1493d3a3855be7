package auth

import "time"

// LoginRecord is the audit row persisted for every cookie login. It exists
// for operators; authentication decisions never read it.
type LoginRecord struct {
	SessionID string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	IP        string
	UserAgent string
}
