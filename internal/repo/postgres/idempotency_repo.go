package postgres

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/hotel-frontdesk/pkg/cache"
)

// IdempotencyRepo stores replayable booking replies when Redis is not
// configured. It satisfies the idempotency middleware's store.
type IdempotencyRepo struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepo(pool *pgxpool.Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

func hashKey(key string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// Get returns cache.ErrMiss for unknown or expired keys.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const q = `SELECT reply FROM idempotency_replies WHERE key_hash = $1 AND expires_at > now()`

	var reply string
	err := r.pool.QueryRow(ctx, q, hashKey(key)).Scan(&reply)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", cache.ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return reply, nil
}

// Set keeps the first reply stored for a key until it expires.
func (r *IdempotencyRepo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const q = `
		INSERT INTO idempotency_replies (key_hash, reply, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key_hash) DO UPDATE SET
			reply = EXCLUDED.reply,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_replies.expires_at <= now()`

	if _, err := r.pool.Exec(ctx, q, hashKey(key), value, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("idempotency store: %w", err)
	}
	return nil
}

func (r *IdempotencyRepo) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, `DELETE FROM idempotency_replies WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
