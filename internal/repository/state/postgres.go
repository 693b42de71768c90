package state

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantfoods-storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT value
FROM storefront_state
WHERE key = $1
`
	var value []byte
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *postgresRepo) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO storefront_state (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `SELECT pg_notify($1, 'set:' || $2)`, NotifyChannel, key)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, key string) error {
	const q = `
DELETE FROM storefront_state
WHERE key = $1
`
	cmd, err := r.pool.Exec(ctx, q, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = r.pool.Exec(ctx, `SELECT pg_notify($1, 'del:' || $2)`, NotifyChannel, key)
	return err
}
