package repository

import (
	"context"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// Tweet defines the interface for the local mirror of app-created tweets.
// Every write is best-effort bookkeeping after an external call already
// succeeded; callers log failures instead of propagating them.
type Tweet interface {
	Insert(ctx context.Context, tweet *domain.Tweet) error
	GetByTwitterID(ctx context.Context, userID int64, twitterID string) (*domain.Tweet, error)
	// ReplaceTwitterID rewrites a mirrored tweet's external id and text after
	// an edit (the platform edit is delete + re-create with a new id).
	ReplaceTwitterID(ctx context.Context, userID int64, oldTwitterID, newTwitterID, newText string) error
	DeleteByTwitterID(ctx context.Context, userID int64, twitterID string) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error)
}
