package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// SessionRepository implements repository.Session for sqlite.
type SessionRepository struct {
	store *Store
}

func marshalFlashes(flashes []domain.Flash) (string, error) {
	if len(flashes) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(flashes)
	if err != nil {
		return "", fmt.Errorf("error encoding flashes: %w", err)
	}
	return string(b), nil
}

func unmarshalFlashes(raw string) ([]domain.Flash, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var flashes []domain.Flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil, fmt.Errorf("error decoding flashes: %w", err)
	}
	return flashes, nil
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, sess *domain.Session) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	flashes, err := marshalFlashes(sess.Flashes)
	if err != nil {
		return err
	}

	userID := sql.NullInt64{Int64: sess.UserID, Valid: sess.UserID != 0}
	_, err = r.store.db.ExecContext(ctx, `
        INSERT INTO session (id, user_id, request_token, request_secret, oldest_seen_id, flashes, created_at, expires_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, userID, sess.RequestToken, sess.RequestSecret,
		sess.OldestSeenID, flashes, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Get fetches a session row by id.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	sess := &domain.Session{}
	var userID sql.NullInt64
	var flashes string
	err := r.store.db.QueryRowContext(ctx, `
        SELECT id, user_id, request_token, request_secret, oldest_seen_id, flashes, created_at, expires_at
        FROM session WHERE id = ?`, id).
		Scan(&sess.ID, &userID, &sess.RequestToken, &sess.RequestSecret,
			&sess.OldestSeenID, &flashes, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading session: %w", err)
	}

	sess.UserID = userID.Int64
	if sess.Flashes, err = unmarshalFlashes(flashes); err != nil {
		return nil, err
	}
	return sess, nil
}

// Update persists session mutations.
func (r *SessionRepository) Update(ctx context.Context, sess *domain.Session) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	flashes, err := marshalFlashes(sess.Flashes)
	if err != nil {
		return err
	}

	userID := sql.NullInt64{Int64: sess.UserID, Valid: sess.UserID != 0}
	result, err := r.store.db.ExecContext(ctx, `
        UPDATE session
        SET user_id = ?, request_token = ?, request_secret = ?, oldest_seen_id = ?, flashes = ?, expires_at = ?
        WHERE id = ?`,
		userID, sess.RequestToken, sess.RequestSecret,
		sess.OldestSeenID, flashes, sess.ExpiresAt, sess.ID)
	if err != nil {
		return fmt.Errorf("error updating session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	_, err := r.store.db.ExecContext(ctx, "DELETE FROM session WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	result, err := r.store.db.ExecContext(ctx, "DELETE FROM session WHERE expires_at < ?", now)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
