package postgres

import (
	"context"
	"database/sql"
	"teamplan/internal/repository"
	"time"
)

type rateLimitRepository struct {
	repository.BaseRepository
}

// NewRateLimitRepository creates a new PostgreSQL rate limit repository
func NewRateLimitRepository(db *sql.DB) repository.RateLimitRepository {
	return &rateLimitRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

// Increment is a single atomic upsert: concurrent requests serialize on
// the bucket row, so every caller observes its own post-increment count.
func (r *rateLimitRepository) Increment(ctx context.Context, class, key string, windowStart time.Time) (int, error) {
	query := `
		INSERT INTO rate_limit_buckets (class, key, window_start, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (class, key, window_start)
		DO UPDATE SET count = rate_limit_buckets.count + 1
		RETURNING count`

	var count int
	err := r.DB().QueryRowContext(ctx, query, class, key, windowStart).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *rateLimitRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.DB().ExecContext(ctx,
		`DELETE FROM rate_limit_buckets WHERE window_start < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
