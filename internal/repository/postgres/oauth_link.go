package postgres

import (
	"context"
	"database/sql"
	"errors"
	"teamplan/internal/models"
	"teamplan/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type oauthLinkRepository struct {
	repository.BaseRepository
}

// NewOAuthLinkRepository creates a new PostgreSQL OAuth link repository
func NewOAuthLinkRepository(db *sql.DB) repository.OAuthLinkRepository {
	return &oauthLinkRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *oauthLinkRepository) Create(ctx context.Context, link *models.OAuthLink) error {
	query := `
		INSERT INTO oauth_links (
			id, user_id, provider, provider_identifier, linked_at
		) VALUES (
			$1, $2, $3, $4, CURRENT_TIMESTAMP
		)
		RETURNING linked_at`

	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}

	err := r.DB().QueryRowContext(ctx, query,
		link.ID,
		link.UserID,
		link.Provider,
		link.ProviderIdentifier,
	).Scan(&link.LinkedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrLinkExists
	}

	return err
}

func (r *oauthLinkRepository) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*models.OAuthLink, error) {
	query := `
		SELECT id, user_id, provider, provider_identifier, linked_at
		FROM oauth_links
		WHERE user_id = $1 AND provider = $2`

	var link models.OAuthLink
	err := r.DB().QueryRowContext(ctx, query, userID, provider).Scan(
		&link.ID,
		&link.UserID,
		&link.Provider,
		&link.ProviderIdentifier,
		&link.LinkedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}

	return &link, nil
}

func (r *oauthLinkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.OAuthLink, error) {
	query := `
		SELECT id, user_id, provider, provider_identifier, linked_at
		FROM oauth_links
		WHERE user_id = $1
		ORDER BY linked_at`

	rows, err := r.DB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.OAuthLink
	for rows.Next() {
		var link models.OAuthLink
		if err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.Provider,
			&link.ProviderIdentifier,
			&link.LinkedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

func (r *oauthLinkRepository) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	result, err := r.DB().ExecContext(ctx,
		`DELETE FROM oauth_links WHERE user_id = $1 AND provider = $2`,
		userID, provider)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrLinkNotFound
	}

	return nil
}
