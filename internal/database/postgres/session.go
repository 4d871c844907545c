package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// SessionRepository implements repository.Session for PostgreSQL. Flashes are
// kept as a JSONB column.
type SessionRepository struct {
	db *pgxpool.Pool
}

func flashesJSON(flashes []domain.Flash) ([]byte, error) {
	if len(flashes) == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(flashes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode flashes: %w", err)
	}
	return b, nil
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, sess *domain.Session) error {
	flashes, err := flashesJSON(sess.Flashes)
	if err != nil {
		return err
	}

	userID := sql.NullInt64{Int64: sess.UserID, Valid: sess.UserID != 0}
	_, err = r.db.Exec(ctx, `
		INSERT INTO session (id, user_id, request_token, request_secret, oldest_seen_id, flashes, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sess.ID, userID, sess.RequestToken, sess.RequestSecret,
		sess.OldestSeenID, flashes, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get fetches a session row by id.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	sess := &domain.Session{}
	var userID sql.NullInt64
	var flashes []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, request_token, request_secret, oldest_seen_id, flashes, created_at, expires_at
		FROM session WHERE id = $1`, id).
		Scan(&sess.ID, &userID, &sess.RequestToken, &sess.RequestSecret,
			&sess.OldestSeenID, &flashes, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess.UserID = userID.Int64
	if len(flashes) > 0 {
		if err := json.Unmarshal(flashes, &sess.Flashes); err != nil {
			return nil, fmt.Errorf("failed to decode flashes: %w", err)
		}
	}
	if len(sess.Flashes) == 0 {
		sess.Flashes = nil
	}
	return sess, nil
}

// Update persists session mutations.
func (r *SessionRepository) Update(ctx context.Context, sess *domain.Session) error {
	flashes, err := flashesJSON(sess.Flashes)
	if err != nil {
		return err
	}

	userID := sql.NullInt64{Int64: sess.UserID, Valid: sess.UserID != 0}
	tag, err := r.db.Exec(ctx, `
		UPDATE session
		SET user_id = $1, request_token = $2, request_secret = $3, oldest_seen_id = $4, flashes = $5, expires_at = $6
		WHERE id = $7`,
		userID, sess.RequestToken, sess.RequestSecret,
		sess.OldestSeenID, flashes, sess.ExpiresAt, sess.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM session WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
