package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// TweetRepository implements repository.Tweet for PostgreSQL.
type TweetRepository struct {
	db *pgxpool.Pool
}

// Insert mirrors a tweet the app just created on the platform.
func (r *TweetRepository) Insert(ctx context.Context, tweet *domain.Tweet) error {
	query := `
		INSERT INTO tweet (twitter_id, user_id, text, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, tweet.TwitterID, tweet.UserID, tweet.Text).
		Scan(&tweet.ID, &tweet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tweet: %w", err)
	}
	return nil
}

// GetByTwitterID looks up one mirrored tweet by its external id.
func (r *TweetRepository) GetByTwitterID(ctx context.Context, userID int64, twitterID string) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.db.QueryRow(ctx,
		`SELECT id, twitter_id, user_id, text, created_at FROM tweet WHERE user_id = $1 AND twitter_id = $2`,
		userID, twitterID).
		Scan(&tweet.ID, &tweet.TwitterID, &tweet.UserID, &tweet.Text, &tweet.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	return &tweet, nil
}

// ReplaceTwitterID rewrites the external id and text after an edit.
func (r *TweetRepository) ReplaceTwitterID(ctx context.Context, userID int64, oldTwitterID, newTwitterID, newText string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tweet SET twitter_id = $1, text = $2 WHERE user_id = $3 AND twitter_id = $4`,
		newTwitterID, newText, userID, oldTwitterID)
	if err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTweetNotFound
	}
	return nil
}

// DeleteByTwitterID removes a mirrored tweet; ids the mirror never tracked
// are ignored.
func (r *TweetRepository) DeleteByTwitterID(ctx context.Context, userID int64, twitterID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tweet WHERE user_id = $1 AND twitter_id = $2`, userID, twitterID)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	return nil
}

// ListByUser returns the user's mirrored tweets, newest first.
func (r *TweetRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, twitter_id, user_id, text, created_at FROM tweet WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var tweet domain.Tweet
		if err := rows.Scan(&tweet.ID, &tweet.TwitterID, &tweet.UserID, &tweet.Text, &tweet.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	return tweets, rows.Err()
}
