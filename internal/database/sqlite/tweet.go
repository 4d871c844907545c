package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// TweetRepository implements repository.Tweet for sqlite.
type TweetRepository struct {
	store *Store
}

// Insert mirrors a tweet the app just created on the platform.
func (r *TweetRepository) Insert(ctx context.Context, tweet *domain.Tweet) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	if tweet.CreatedAt.IsZero() {
		tweet.CreatedAt = time.Now().UTC()
	}
	result, err := r.store.db.ExecContext(ctx,
		"INSERT INTO tweet (twitter_id, user_id, text, created_at) VALUES (?, ?, ?, ?)",
		tweet.TwitterID, tweet.UserID, tweet.Text, tweet.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting tweet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting last insert id: %w", err)
	}
	tweet.ID = id
	return nil
}

// GetByTwitterID looks up one mirrored tweet by its external id.
func (r *TweetRepository) GetByTwitterID(ctx context.Context, userID int64, twitterID string) (*domain.Tweet, error) {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	var tweet domain.Tweet
	err := r.store.db.QueryRowContext(ctx,
		"SELECT id, twitter_id, user_id, text, created_at FROM tweet WHERE user_id = ? AND twitter_id = ?",
		userID, twitterID).
		Scan(&tweet.ID, &tweet.TwitterID, &tweet.UserID, &tweet.Text, &tweet.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, fmt.Errorf("error getting tweet: %w", err)
	}
	return &tweet, nil
}

// ReplaceTwitterID rewrites the external id and text after an edit.
func (r *TweetRepository) ReplaceTwitterID(ctx context.Context, userID int64, oldTwitterID, newTwitterID, newText string) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	result, err := r.store.db.ExecContext(ctx,
		"UPDATE tweet SET twitter_id = ?, text = ? WHERE user_id = ? AND twitter_id = ?",
		newTwitterID, newText, userID, oldTwitterID)
	if err != nil {
		return fmt.Errorf("error updating tweet: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTweetNotFound
	}
	return nil
}

// DeleteByTwitterID removes a mirrored tweet. Deleting an id the mirror never
// tracked is not an error; the mirror only covers app-created tweets.
func (r *TweetRepository) DeleteByTwitterID(ctx context.Context, userID int64, twitterID string) error {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	_, err := r.store.db.ExecContext(ctx,
		"DELETE FROM tweet WHERE user_id = ? AND twitter_id = ?", userID, twitterID)
	if err != nil {
		return fmt.Errorf("error deleting tweet: %w", err)
	}
	return nil
}

// ListByUser returns the user's mirrored tweets, newest first.
func (r *TweetRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error) {
	r.store.mutex.Lock()
	defer r.store.mutex.Unlock()

	rows, err := r.store.db.QueryContext(ctx,
		"SELECT id, twitter_id, user_id, text, created_at FROM tweet WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tweets: %w", err)
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var tweet domain.Tweet
		if err := rows.Scan(&tweet.ID, &tweet.TwitterID, &tweet.UserID, &tweet.Text, &tweet.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	return tweets, rows.Err()
}
