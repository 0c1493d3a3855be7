package reference

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tableforge/tableforge/internal/shared"
)

// RepositoryPort defines data access methods for sources.
type RepositoryPort interface {
	ListSources(ctx context.Context) ([]Source, error)
	FindSource(ctx context.Context, id int64) (*Source, error)
	CreateSource(ctx context.Context, src *Source) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sourceColumns = `id, title, publisher, game_system, created_at, updated_at`

// ListSources returns all sources.
func (r *Repository) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Title, &src.Publisher, &src.GameSystem, &src.CreatedAt, &src.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, src)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// FindSource fetches a source by primary key.
func (r *Repository) FindSource(ctx context.Context, id int64) (*Source, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sourceColumns+` FROM sources WHERE id = $1`, id)
	var src Source
	if err := row.Scan(&src.ID, &src.Title, &src.Publisher, &src.GameSystem, &src.CreatedAt, &src.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &src, nil
}

// CreateSource persists a new source.
func (r *Repository) CreateSource(ctx context.Context, src *Source) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO sources (title, publisher, game_system, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		src.Title, src.Publisher, src.GameSystem,
	).Scan(&src.ID, &src.CreatedAt, &src.UpdatedAt)
}

var _ RepositoryPort = (*Repository)(nil)
