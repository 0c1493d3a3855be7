package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the auth module's audit trail.
type Repository interface {
	CreateLoginRecord(ctx context.Context, rec LoginRecord) error
	DeleteLoginRecord(ctx context.Context, sessionID string) error
	PurgeExpiredLoginRecords(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateLoginRecord persists a new login audit row.
func (r *PGRepository) CreateLoginRecord(ctx context.Context, rec LoginRecord) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO login_records (session_id, user_id, created_at, expires_at, ip, ua)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.SessionID, rec.UserID,
		pgtype.Timestamptz{Time: now, Valid: true},
		pgtype.Timestamptz{Time: rec.ExpiresAt.UTC(), Valid: true},
		pgtype.Text{String: rec.IP, Valid: rec.IP != ""},
		pgtype.Text{String: rec.UserAgent, Valid: rec.UserAgent != ""},
	)
	return err
}

// DeleteLoginRecord removes the audit row on logout.
func (r *PGRepository) DeleteLoginRecord(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM login_records WHERE session_id = $1`, sessionID)
	return err
}

// PurgeExpiredLoginRecords removes rows past their expiry; run by the worker.
func (r *PGRepository) PurgeExpiredLoginRecords(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM login_records WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
