package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tableforge/tableforge/internal/platform/db"
	"github.com/tableforge/tableforge/internal/shared"
)

// ErrDuplicateActive signals a second active password credential for the same
// user. The partial unique index is the correctness backstop against races
// between concurrent password changes.
var ErrDuplicateActive = errors.New("credentials: duplicate active password credential")

const activePasswordConstraint = "uq_credentials_active_password"

// RepositoryPort defines persistence operations for credentials.
type RepositoryPort interface {
	FindByID(ctx context.Context, id string) (*Credential, error)
	FindActivePassword(ctx context.Context, userID int64) (*Credential, error)
	Create(ctx context.Context, cred *Credential) error
	Deactivate(ctx context.Context, id string) error
	Rotate(ctx context.Context, oldID string, replacement *Credential) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const credentialColumns = `id, kind, active, data, expires_at, user_id, created_at, updated_at`

// FindByID fetches a credential by identifier.
func (r *Repository) FindByID(ctx context.Context, id string) (*Credential, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+credentialColumns+` FROM credentials WHERE id = $1`, id)
	return scanCredential(row.Scan)
}

// FindActivePassword fetches the single active password credential of a user.
func (r *Repository) FindActivePassword(ctx context.Context, userID int64) (*Credential, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE user_id = $1 AND kind = 'password' AND active`, userID)
	return scanCredential(row.Scan)
}

// Create persists a new credential. A missing ID is generated.
func (r *Repository) Create(ctx context.Context, cred *Credential) error {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	data, err := json.Marshal(cred.Data)
	if err != nil {
		return fmt.Errorf("credentials: marshal data: %w", err)
	}
	now := time.Now().UTC()
	_, err = r.pool.Exec(ctx,
		`INSERT INTO credentials (id, kind, active, data, expires_at, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		cred.ID, string(cred.Kind), cred.Active, data, cred.ExpiresAt.UTC(), cred.UserID, now)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == activePasswordConstraint {
			return ErrDuplicateActive
		}
		return err
	}
	cred.CreatedAt = now
	cred.UpdatedAt = now
	return nil
}

// Deactivate flips the active flag off; the record is retained.
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE credentials SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Rotate deactivates the superseded credential and persists its replacement
// in one transaction, so no observer sees a user with zero or two active
// password credentials.
func (r *Repository) Rotate(ctx context.Context, oldID string, replacement *Credential) error {
	if replacement.ID == "" {
		replacement.ID = uuid.NewString()
	}
	data, err := json.Marshal(replacement.Data)
	if err != nil {
		return fmt.Errorf("credentials: marshal data: %w", err)
	}
	now := time.Now().UTC()
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE credentials SET active = FALSE, updated_at = $2 WHERE id = $1 AND active`, oldID, now)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO credentials (id, kind, active, data, expires_at, user_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			replacement.ID, string(replacement.Kind), replacement.Active, data,
			replacement.ExpiresAt.UTC(), replacement.UserID, now)
		return err
	})
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == activePasswordConstraint {
			return ErrDuplicateActive
		}
		return err
	}
	replacement.CreatedAt = now
	replacement.UpdatedAt = now
	return nil
}

// DeactivateExpired flips the active flag off for credentials past their
// expiry. Expired credentials never authenticate regardless; the sweep keeps
// the store tidy for reporting.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE credentials SET active = FALSE, updated_at = NOW() WHERE active AND expires_at < $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanCredential(scan func(dest ...any) error) (*Credential, error) {
	var cred Credential
	var kind string
	var data []byte
	if err := scan(&cred.ID, &kind, &cred.Active, &data, &cred.ExpiresAt, &cred.UserID, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	parsed, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	cred.Kind = parsed
	if len(data) > 0 {
		if err := json.Unmarshal(data, &cred.Data); err != nil {
			return nil, fmt.Errorf("credentials: unmarshal data: %w", err)
		}
	}
	return &cred, nil
}

var _ RepositoryPort = (*Repository)(nil)
