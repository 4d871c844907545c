package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// UserRepository implements repository.User for PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

// UpsertByTwitterID creates the user on first login or refreshes the existing
// row's profile fields, credentials and last_login.
func (r *UserRepository) UpsertByTwitterID(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO "user" (twitter_id, username, display_name, profile_image, access_token, access_token_secret, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (twitter_id) DO UPDATE SET
			username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			profile_image = EXCLUDED.profile_image,
			access_token = EXCLUDED.access_token,
			access_token_secret = EXCLUDED.access_token_secret,
			last_login = NOW()
		RETURNING id, created_at, last_login
	`
	err := r.db.QueryRow(ctx, query,
		user.TwitterID, user.Username, user.DisplayName, user.ProfileImage,
		user.AccessToken, user.AccessTokenSecret).
		Scan(&user.ID, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

const userColumns = `id, twitter_id, username, display_name, profile_image, access_token, access_token_secret, created_at, last_login`

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE `+where, arg).
		Scan(&user.ID, &user.TwitterID, &user.Username, &user.DisplayName,
			&user.ProfileImage, &user.AccessToken, &user.AccessTokenSecret,
			&user.CreatedAt, &user.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByTwitterID finds a user by the platform's id.
func (r *UserRepository) GetByTwitterID(ctx context.Context, twitterID string) (*domain.User, error) {
	return r.getBy(ctx, "twitter_id = $1", twitterID)
}

// GetByID finds a user by local id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, "id = $1", id)
}
