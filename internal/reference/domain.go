// Package reference exposes the read-mostly tabletop reference resources.
// Persistence and validation of the full catalog live outside this core; the
// resource here exists so the authentication allow-list has real consumers:
// reads are public, writes require a session.
package reference

import "time"

// Source is a published tabletop sourcebook.
type Source struct {
	ID         int64
	Title      string
	Publisher  string
	GameSystem string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
