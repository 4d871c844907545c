package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// UserRepository implements repository.User for sqlite.
type UserRepository struct {
	store *Store
}

// UpsertByTwitterID creates the user on first login; on later logins it
// refreshes profile fields, credentials and last_login. twitter_id is unique,
// so a returning user never produces a second row.
func (r *UserRepository) UpsertByTwitterID(ctx context.Context, user *domain.User) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	now := time.Now().UTC()
	query := `
        INSERT INTO user (twitter_id, username, display_name, profile_image, access_token, access_token_secret, created_at, last_login)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(twitter_id) DO UPDATE SET
            username = excluded.username,
            display_name = excluded.display_name,
            profile_image = excluded.profile_image,
            access_token = excluded.access_token,
            access_token_secret = excluded.access_token_secret,
            last_login = excluded.last_login
    `
	_, err := r.store.db.ExecContext(ctx, query,
		user.TwitterID, user.Username, user.DisplayName, user.ProfileImage,
		user.AccessToken, user.AccessTokenSecret, now, now)
	if err != nil {
		return fmt.Errorf("error upserting user: %w", err)
	}

	// Read back the row to fill the id and the original created_at.
	err = r.store.db.QueryRowContext(ctx,
		"SELECT id, created_at, last_login FROM user WHERE twitter_id = ?", user.TwitterID).
		Scan(&user.ID, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return fmt.Errorf("error reading back user: %w", err)
	}
	return nil
}

const userColumns = "id, twitter_id, username, display_name, profile_image, access_token, access_token_secret, created_at, last_login"

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.TwitterID, &user.Username, &user.DisplayName,
		&user.ProfileImage, &user.AccessToken, &user.AccessTokenSecret,
		&user.CreatedAt, &user.LastLogin)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return user, nil
}

// GetByTwitterID finds a user by the platform's id.
func (r *UserRepository) GetByTwitterID(ctx context.Context, twitterID string) (*domain.User, error) {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()
	return scanUser(r.store.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE twitter_id = ?", twitterID))
}

// GetByID finds a user by local id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()
	return scanUser(r.store.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE id = ?", id))
}
